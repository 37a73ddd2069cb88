package api

import (
	"sort"
	"sync"
	"time"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

// LibraryInfo contains metadata about a registered library.
type LibraryInfo struct {
	Name        string    `json:"name"`
	Source      string    `json:"source,omitempty"`
	MacroCount  int       `json:"macro_count"`
	PinCount    int       `json:"pin_count"`
	RectCount   int       `json:"rect_count"`
	ParseErrors int       `json:"parse_errors"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// libraryEntry holds a registered library and its metadata.
type libraryEntry struct {
	Info    LibraryInfo
	Library *lefparser.Library
}

// Registry is the in-memory set of parsed libraries, keyed by name.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	libraries map[string]libraryEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		libraries: make(map[string]libraryEntry),
	}
}

// Put registers a library under the given name, replacing any previous
// library with that name. source records where it came from and may be
// empty.
func (r *Registry) Put(name, source string, lib *lefparser.Library) LibraryInfo {
	info := LibraryInfo{
		Name:        name,
		Source:      source,
		MacroCount:  len(lib.Macros),
		PinCount:    lib.PinCount(),
		RectCount:   lib.RectCount(),
		ParseErrors: len(lib.Errors),
		LoadedAt:    time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.libraries[name] = libraryEntry{Info: info, Library: lib}
	return info
}

// Get returns the library registered under name.
func (r *Registry) Get(name string) (*lefparser.Library, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.libraries[name]
	if !ok {
		return nil, false
	}
	return entry.Library, true
}

// Info returns the metadata of the library registered under name.
func (r *Registry) Info(name string) (LibraryInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.libraries[name]
	return entry.Info, ok
}

// Has reports whether a library is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.libraries[name]
	return ok
}

// List returns metadata for all registered libraries, sorted by name.
func (r *Registry) List() []LibraryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]LibraryInfo, 0, len(r.libraries))
	for _, entry := range r.libraries {
		infos = append(infos, entry.Info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Remove unregisters the library with the given name. It reports
// whether a library was removed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.libraries[name]
	delete(r.libraries, name)
	return ok
}

// Len returns the number of registered libraries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.libraries)
}

// TotalMacros returns the number of macros across all registered
// libraries.
func (r *Registry) TotalMacros() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, entry := range r.libraries {
		total += entry.Info.MacroCount
	}
	return total
}
