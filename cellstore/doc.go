// Package cellstore persists parsed macro libraries in SQLite.
//
// Each call to SaveSnapshot stores an immutable snapshot of a parsed
// library: one row in the snapshots table carrying provenance (name,
// source path, content fingerprint, creation time) and one row per
// macro in the macros table. Macro rows keep a few filterable columns
// (class, site, geometry counts) next to the full record serialized as
// JSON, so queries filter in SQL and rehydrate complete records.
//
// The store uses WAL mode by default for concurrent readers:
//
//	store, err := cellstore.New(nil) // default config
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	snap, err := store.SaveSnapshot(ctx, "stdcells", "cells.lef", lib.Macros)
//
// Snapshots are identified by UUID. Fingerprints come from hashing the
// macro records, so re-saving an unchanged library is detectable by
// comparing fingerprints.
package cellstore
