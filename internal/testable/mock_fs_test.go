// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package testable

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFileSystem_ServesFilesFromMemory(t *testing.T) {
	m := &MockFileSystem{Files: map[string][]byte{"videos.json": []byte(`[]`)}}

	data, err := m.ReadFile("videos.json")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	data[0] = 'x'
	again, err := m.ReadFile("videos.json")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(again), "callers must not alias the stored bytes")

	rc, err := m.Open("videos.json")
	require.NoError(t, err)
	streamed, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, `[]`, string(streamed))
}

func TestMockFileSystem_OverridesWinOverFiles(t *testing.T) {
	m := &MockFileSystem{
		Files:      map[string][]byte{"videos.json": []byte(`[]`)},
		ReadFileFn: func(string) ([]byte, error) { return nil, os.ErrPermission },
		OpenFn:     func(string) (io.ReadCloser, error) { return nil, errors.New("locked") },
	}

	_, err := m.ReadFile("videos.json")
	assert.ErrorIs(t, err, os.ErrPermission)
	_, err = m.Open("videos.json")
	assert.EqualError(t, err, "locked")
}

func TestMockFileSystem_FallsThroughToDisk(t *testing.T) {
	dir := t.TempDir()
	m := &MockFileSystem{}

	store := filepath.Join(dir, "store", "badger")
	require.NoError(t, m.MkdirAll(store, 0o750))
	info, err := m.Stat(store)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	report := filepath.Join(dir, "report.md")
	w, err := m.Create(report)
	require.NoError(t, err)
	_, err = io.WriteString(w, "# Report\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := m.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, "# Report\n", string(data))

	_, err = m.ReadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
