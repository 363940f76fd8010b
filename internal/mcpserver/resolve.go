// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes chart exploration and reports over video exports as tools.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vidlens/vidlens/internal/source"
)

// ResolveDataset resolves path to an absolute, symlink-free path of a
// regular file with a supported export extension.
func ResolveDataset(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("dataset path is required")
	}
	abs, err := resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("dataset %q does not exist", path)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%q is not a regular file", path)
	}
	if ext := strings.ToLower(filepath.Ext(abs)); !slices.Contains(source.Extensions, ext) {
		return "", fmt.Errorf("unsupported dataset %q (want one of %s)", path, strings.Join(source.Extensions, ", "))
	}
	return abs, nil
}

// ResolveDir resolves the project directory holding .vidlens.yaml. An
// empty path is the current directory.
func ResolveDir(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", path)
	}
	return abs, nil
}

func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	return abs, nil
}
