package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/leojohnthomas/lef-parser/cellstore"
	"github.com/leojohnthomas/lef-parser/export"
	"github.com/leojohnthomas/lef-parser/lefparser"
	"github.com/leojohnthomas/lef-parser/metrics"
)

// Handler handles API requests.
type Handler struct {
	registry *Registry
	store    *cellstore.Store // nil when serving without persistence
	metrics  *metrics.Collector
	logger   *slog.Logger
	version  string
}

// NewHandler creates a new API handler from the server dependencies.
func NewHandler(deps *Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NewCollector(&metrics.Config{Enabled: false}, nil)
	}
	return &Handler{
		registry: deps.Registry,
		store:    deps.Store,
		metrics:  collector,
		logger:   logger.With("component", "api"),
		version:  deps.Version,
	}
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"libraries": h.registry.Len(),
	})
}

// HandleListLibraries returns metadata for all registered libraries.
func (h *Handler) HandleListLibraries(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.List())
}

// HandleLoadLibrary parses LEF text and registers the result. The text
// comes from the request body, or from a server-local file named by the
// "path" query parameter when the body is empty. The library name comes
// from the "name" query parameter. Parsing uses the skip-macro policy
// unless on_error=fail is given, so damaged macros are dropped and
// reported rather than failing the load. With snapshot=true the loaded
// macros are also persisted to the cell store.
func (h *Handler) HandleLoadLibrary(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing name parameter"})
	}

	wantSnapshot := c.QueryParam("snapshot") == "true"
	if wantSnapshot && h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "cell store not configured"})
	}

	src, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("failed to read body: %v", err)})
	}

	source := c.QueryParam("source")
	if len(src) == 0 {
		path := c.QueryParam("path")
		if path == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "empty request body and no path parameter"})
		}
		src, err = os.ReadFile(path)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("failed to read %s: %v", path, err)})
		}
		if source == "" {
			source = path
		}
	}

	opts := lefparser.Options{OnError: lefparser.SkipMacro}
	if c.QueryParam("on_error") == "fail" {
		opts.OnError = lefparser.FailFast
	}

	lib, err := lefparser.ParseWithOptions(src, opts)
	if err != nil {
		h.metrics.RecordParseError(err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": err.Error(),
			"kind":  metrics.ErrorKind(err),
		})
	}
	for _, perr := range lib.Errors {
		h.metrics.RecordParseError(perr)
	}

	info := h.registry.Put(name, source, lib)
	h.metrics.SetLibrariesLoaded(h.registry.Len())
	h.metrics.SetMacrosLoaded(h.registry.TotalMacros())
	h.logger.Info("library loaded",
		"name", name,
		"macros", info.MacroCount,
		"parse_errors", info.ParseErrors,
	)

	resp := map[string]interface{}{
		"library": info,
		"errors":  errorStrings(lib.Errors),
	}
	if wantSnapshot {
		snap, err := h.store.SaveSnapshot(c.Request().Context(), name, source, lib.Macros)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to save snapshot: %v", err)})
		}
		resp["snapshot"] = snap
	}
	return c.JSON(http.StatusCreated, resp)
}

// HandleGetLibrary returns metadata for one library.
func (h *Handler) HandleGetLibrary(c echo.Context) error {
	info, ok := h.registry.Info(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "library not found"})
	}
	return c.JSON(http.StatusOK, info)
}

// HandleDeleteLibrary unregisters a library.
func (h *Handler) HandleDeleteLibrary(c echo.Context) error {
	if !h.registry.Remove(c.Param("name")) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "library not found"})
	}
	h.metrics.SetLibrariesLoaded(h.registry.Len())
	h.metrics.SetMacrosLoaded(h.registry.TotalMacros())
	return c.NoContent(http.StatusNoContent)
}

// HandleGetMacros returns the macro records of a library, optionally
// filtered by class, site, or name prefix, with limit/offset paging.
func (h *Handler) HandleGetMacros(c echo.Context) error {
	lib, ok := h.registry.Get(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "library not found"})
	}

	macros := filterMacros(lib.Macros, macroFilterFromQuery(c))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"macros": macros,
		"total":  len(lib.Macros),
	})
}

// HandleGetMacrosMsgpack returns filtered macro records encoded as
// MessagePack, which is considerably smaller than JSON for geometry-
// heavy libraries.
func (h *Handler) HandleGetMacrosMsgpack(c echo.Context) error {
	lib, ok := h.registry.Get(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "library not found"})
	}

	macros := filterMacros(lib.Macros, macroFilterFromQuery(c))
	data, err := msgpack.Marshal(map[string]interface{}{
		"macros": macros,
		"total":  len(lib.Macros),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to encode msgpack"})
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleGetMacro returns a single macro record by name.
func (h *Handler) HandleGetMacro(c echo.Context) error {
	lib, ok := h.registry.Get(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "library not found"})
	}

	macro := lib.Macro(c.Param("macro"))
	if macro == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "macro not found"})
	}
	return c.JSON(http.StatusOK, macro)
}

// HandleGetMacroMsgpack returns a single macro record encoded as
// MessagePack.
func (h *Handler) HandleGetMacroMsgpack(c echo.Context) error {
	lib, ok := h.registry.Get(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "library not found"})
	}

	macro := lib.Macro(c.Param("macro"))
	if macro == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "macro not found"})
	}

	data, err := msgpack.Marshal(macro)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to encode msgpack"})
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleExportLibrary writes a library in the format given by the
// "format" query parameter (default json). JSON and CSV are streamed;
// YAML and MessagePack are written whole.
func (h *Handler) HandleExportLibrary(c echo.Context) error {
	lib, ok := h.registry.Get(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "library not found"})
	}

	format := c.QueryParam("format")
	if format == "" {
		format = export.FormatJSON
	}
	pretty := c.QueryParam("pretty") == "true"
	header := c.QueryParam("header") != "false"

	exporter, err := export.ForFormat(format, pretty, header)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, contentTypeFor(exporter.Format()))
	resp.WriteHeader(http.StatusOK)

	switch exp := exporter.(type) {
	case *export.JSONExporter:
		return exp.ExportStream(ctx, macroChannel(ctx, lib.Macros), resp)
	case *export.CSVExporter:
		return exp.ExportStream(ctx, macroChannel(ctx, lib.Macros), resp)
	default:
		return exporter.Export(ctx, lib.Macros, resp)
	}
}

// HandleSaveSnapshot persists a registered library to the cell store.
func (h *Handler) HandleSaveSnapshot(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "cell store not configured"})
	}

	name := c.Param("name")
	lib, ok := h.registry.Get(name)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "library not found"})
	}

	info, _ := h.registry.Info(name)
	snap, err := h.store.SaveSnapshot(c.Request().Context(), name, info.Source, lib.Macros)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to save snapshot: %v", err)})
	}
	return c.JSON(http.StatusCreated, snap)
}

// HandleListSnapshots returns stored snapshot metadata.
func (h *Handler) HandleListSnapshots(c echo.Context) error {
	if h.store == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "cell store not configured"})
	}

	snapshots, err := h.store.Snapshots(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to list snapshots: %v", err)})
	}
	return c.JSON(http.StatusOK, snapshots)
}

// macroFilter mirrors cellstore.Filter for in-memory filtering.
type macroFilter struct {
	class      string
	site       string
	namePrefix string
	limit      int
	offset     int
}

func macroFilterFromQuery(c echo.Context) macroFilter {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return macroFilter{
		class:      c.QueryParam("class"),
		site:       c.QueryParam("site"),
		namePrefix: c.QueryParam("prefix"),
		limit:      limit,
		offset:     offset,
	}
}

// filterMacros applies the filter, preserving file order.
func filterMacros(macros []*lefparser.MacroRecord, f macroFilter) []*lefparser.MacroRecord {
	matched := []*lefparser.MacroRecord{}
	for _, m := range macros {
		if f.class != "" && m.Class != f.class {
			continue
		}
		if f.site != "" && m.Site != f.site {
			continue
		}
		if f.namePrefix != "" && !strings.HasPrefix(m.Name, f.namePrefix) {
			continue
		}
		matched = append(matched, m)
	}

	if f.offset > 0 {
		if f.offset >= len(matched) {
			return []*lefparser.MacroRecord{}
		}
		matched = matched[f.offset:]
	}
	if f.limit > 0 && f.limit < len(matched) {
		matched = matched[:f.limit]
	}
	return matched
}

// macroChannel feeds macros into a channel for the streaming exporters.
func macroChannel(ctx context.Context, macros []*lefparser.MacroRecord) <-chan *lefparser.MacroRecord {
	ch := make(chan *lefparser.MacroRecord)
	go func() {
		defer close(ch)
		for _, m := range macros {
			select {
			case ch <- m:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func contentTypeFor(format string) string {
	switch format {
	case export.FormatJSON:
		return echo.MIMEApplicationJSON
	case export.FormatYAML:
		return "application/yaml"
	case export.FormatCSV:
		return "text/csv"
	case export.FormatMsgpack:
		return "application/msgpack"
	}
	return echo.MIMEOctetStream
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
