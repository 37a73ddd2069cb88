// Package api serves parsed LEF libraries over HTTP.
//
// The server keeps libraries in an in-memory Registry, keyed by name.
// Libraries arrive either as LEF text POSTed to the API or from files
// loaded at startup; a FileWatcher can keep a library in sync with its
// source file.
//
// Routes:
//
//	GET    /health                                      liveness and library count
//	GET    /metrics                                     Prometheus metrics
//	GET    /api/libraries                               list library metadata
//	POST   /api/libraries?name=N                        parse LEF from the body (or ?path=) and register as N
//	GET    /api/libraries/:name                         library metadata
//	DELETE /api/libraries/:name                         unregister
//	GET    /api/libraries/:name/macros                  macro records, filterable
//	GET    /api/libraries/:name/macros/msgpack          same, MessagePack-encoded
//	GET    /api/libraries/:name/macros/:macro           single macro record
//	GET    /api/libraries/:name/macros/:macro/msgpack   same, MessagePack-encoded
//	GET    /api/libraries/:name/export                  export in any supported format
//	POST   /api/libraries/:name/snapshot                persist to the cell store
//	GET    /api/snapshots                               stored snapshot metadata
package api
