package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions("fail")
	require.NoError(t, err)
	assert.Equal(t, lefparser.FailFast, opts.OnError)

	opts, err = parseOptions("skip")
	require.NoError(t, err)
	assert.Equal(t, lefparser.SkipMacro, opts.OnError)

	_, err = parseOptions("explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown error policy")
}

func TestLibraryName(t *testing.T) {
	assert.Equal(t, "stdcells", libraryName("/lib/pdk/stdcells.lef"))
	assert.Equal(t, "cells", libraryName("cells.lef"))
	assert.Equal(t, "plain", libraryName("plain"))
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cells.lef")
	src := "MACRO INVX1 ;\n  CLASS CORE ;\nEND INVX1 ;\nEND LIBRARY ;\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	lib, err := loadLibrary(path, "fail")
	require.NoError(t, err)
	require.Len(t, lib.Macros, 1)
	assert.Equal(t, "INVX1", lib.Macros[0].Name)
	assert.Equal(t, "CORE", lib.Macros[0].Class)
}

func TestLoadLibraryMissingFile(t *testing.T) {
	_, err := loadLibrary(filepath.Join(t.TempDir(), "nope.lef"), "fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading library file")
}

func TestLoadLibrarySkipPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cells.lef")
	src := "MACRO BAD ;\nEND WRONG ;\nMACRO GOOD ;\nEND GOOD ;\nEND LIBRARY ;\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	lib, err := loadLibrary(path, "skip")
	require.NoError(t, err)
	require.Len(t, lib.Macros, 1)
	assert.Equal(t, "GOOD", lib.Macros[0].Name)
	require.Len(t, lib.Errors, 1)

	_, err = loadLibrary(path, "fail")
	require.Error(t, err)
}
