// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package testable holds the file system seam shared by the packages that
// read exports and write reports, so tests can fail or fake individual calls.
package testable

import (
	"io"
	"os"
)

// FileSystem is the set of file operations vidlens performs: reading
// exports and config, writing reports and generated files, and preparing
// the store directory.
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error

	// Open opens name for streaming reads (xlsx workbooks, JSONL exports).
	Open(name string) (io.ReadCloser, error)

	// Create creates or truncates name for a rendered report.
	Create(name string) (io.WriteCloser, error)
}

// OsFileSystem reads and writes the local disk.
type OsFileSystem struct{}

func (OsFileSystem) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

func (OsFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //nolint:gosec // paths come from flags and config
}

func (OsFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm) //nolint:gosec // paths come from flags and config
}

func (OsFileSystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (OsFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name) //nolint:gosec // paths come from flags and config
}

func (OsFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(name) //nolint:gosec // paths come from flags and config
}

// DefaultFS is the disk-backed FileSystem every package starts with.
var DefaultFS FileSystem = OsFileSystem{}
