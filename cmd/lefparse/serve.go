package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leojohnthomas/lef-parser/api"
	"github.com/leojohnthomas/lef-parser/cellstore"
	"github.com/leojohnthomas/lef-parser/metrics"
)

const serveVersion = "0.3.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve parsed libraries over HTTP",
	Long:  "Start the HTTP API: library upload and query routes, exporters, snapshot storage, Prometheus metrics, and optional reload-on-change watching of a LEF directory.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("db", "", "SQLite database path (empty: snapshot routes disabled)")
	serveCmd.Flags().String("watch", "", "Directory or file to watch for LEF changes")
	serveCmd.Flags().StringSlice("load", nil, "LEF files to load at startup")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	watchPath, _ := cmd.Flags().GetString("watch")
	loadFiles, _ := cmd.Flags().GetStringSlice("load")
	dbPath := resolveDB(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	collector := metrics.NewCollector(&metrics.Config{Enabled: true}, nil)
	registry := api.NewRegistry()

	var store *cellstore.Store
	if dbPath != "" {
		config := cellstore.DefaultConfig()
		config.Path = dbPath
		var err error
		store, err = cellstore.New(config)
		if err != nil {
			return fmt.Errorf("opening store at %s: %w", dbPath, err)
		}
		defer store.Close()
	}

	for _, path := range loadFiles {
		if err := loadIntoRegistry(registry, collector, logger, path); err != nil {
			return err
		}
	}

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = addr
	serverConfig.EnableRequestLogging = viper.GetBool("verbose")

	srv := api.NewServer(serverConfig, &api.Dependencies{
		Registry: registry,
		Store:    store,
		Metrics:  collector,
		Logger:   logger,
		Version:  serveVersion,
	})

	if watchPath != "" {
		watcherConfig := api.DefaultFileWatcherConfig()
		watcherConfig.Path = watchPath

		watcher, err := api.NewFileWatcher(watcherConfig, logger)
		if err != nil {
			return fmt.Errorf("creating file watcher: %w", err)
		}
		go func() {
			err := watcher.Watch(ctx, func(path string) error {
				return loadIntoRegistry(registry, collector, logger, path)
			})
			if err != nil {
				logger.Error("file watcher exited", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Fprintf(os.Stderr, "[serve] Listening on %s\n", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "[serve] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loadIntoRegistry parses a LEF file under the skip policy and installs
// it in the registry under its basename, recording parse metrics.
func loadIntoRegistry(registry *api.Registry, collector *metrics.Collector, logger *slog.Logger, path string) error {
	start := time.Now()
	lib, err := loadLibrary(path, "skip")
	if err != nil {
		collector.RecordParse("failure", time.Since(start), -1)
		collector.RecordParseError(err)
		return err
	}
	for _, perr := range lib.Errors {
		collector.RecordParseError(perr)
	}
	collector.RecordParse("success", time.Since(start), -1)

	name := libraryName(path)
	info := registry.Put(name, path, lib)
	collector.SetLibrariesLoaded(registry.Len())
	collector.SetMacrosLoaded(registry.TotalMacros())

	logger.Info("library loaded",
		"name", name,
		"macros", info.MacroCount,
		"pins", info.PinCount,
		"errors", len(lib.Errors),
	)
	return nil
}
