// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package testable

import (
	"bytes"
	"io"
	"os"
)

// MockFileSystem fakes a FileSystem for tests. A non-nil function field
// replaces the matching call. Otherwise reads of a path present in Files are
// served from memory, and everything else reaches the local disk.
type MockFileSystem struct {
	// Files maps a path to its contents for ReadFile and Open.
	Files map[string][]byte

	StatFn      func(name string) (os.FileInfo, error)
	ReadFileFn  func(name string) ([]byte, error)
	WriteFileFn func(name string, data []byte, perm os.FileMode) error
	MkdirAllFn  func(path string, perm os.FileMode) error
	OpenFn      func(name string) (io.ReadCloser, error)
	CreateFn    func(name string) (io.WriteCloser, error)
}

// Compile-time interface check.
var _ FileSystem = (*MockFileSystem)(nil)

var disk OsFileSystem

func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatFn != nil {
		return m.StatFn(name)
	}
	return disk.Stat(name)
}

func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.ReadFileFn != nil {
		return m.ReadFileFn(name)
	}
	if data, ok := m.Files[name]; ok {
		return bytes.Clone(data), nil
	}
	return disk.ReadFile(name)
}

func (m *MockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if m.WriteFileFn != nil {
		return m.WriteFileFn(name, data, perm)
	}
	return disk.WriteFile(name, data, perm)
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	if m.MkdirAllFn != nil {
		return m.MkdirAllFn(path, perm)
	}
	return disk.MkdirAll(path, perm)
}

func (m *MockFileSystem) Open(name string) (io.ReadCloser, error) {
	if m.OpenFn != nil {
		return m.OpenFn(name)
	}
	if data, ok := m.Files[name]; ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return disk.Open(name)
}

func (m *MockFileSystem) Create(name string) (io.WriteCloser, error) {
	if m.CreateFn != nil {
		return m.CreateFn(name)
	}
	return disk.Create(name)
}
