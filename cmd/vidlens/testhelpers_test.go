package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/vidlens/internal/testable"
)

// datasetJSON is a small export of three videos published on 2026-03-09.
const datasetJSON = `[
  {"bvid":"BV1","title":"Video BV1","author":"ann","tname":"Music","view":100,"like":10,"pubdate":"2026-03-09T08:00:00Z"},
  {"bvid":"BV2","title":"Video BV2","author":"bob","tname":"Games","view":300,"like":30,"pubdate":"2026-03-09T09:00:00Z"},
  {"bvid":"BV3","title":"Video BV3","author":"cat","tname":"Music","view":900,"like":90,"pubdate":"2026-03-09T10:00:00Z"}
]`

// newTestCmd redirects the root command's I/O into buffers and gives it a
// context, as Execute would, so helpers called without Execute can fetch.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetContext(context.Background())
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(new(bytes.Buffer))
	return rootCmd, stdout, stderr
}

// resetFlags restores every flag of every command to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	var visit func(c *cobra.Command)
	visit = func(c *cobra.Command) {
		reset := func(f *pflag.Flag) {
			f.Changed = false
			switch v := f.Value.(type) {
			case pflag.SliceValue:
				_ = v.Replace(nil)
			default:
				if f.Value.Type() != "stringToString" {
					_ = f.Value.Set(f.DefValue)
				}
			}
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			visit(sub)
		}
	}
	visit(rootCmd)
	exploreFilters = map[string]string{}
	cmdFS = testable.DefaultFS
}

// setupWorkspace isolates config and data directories and moves into a
// fresh working directory holding videos.json.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Chdir(dir)
	writeTestFile(t, dir, "videos.json", datasetJSON)
	return dir
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command with args.
func execute(args ...string) (stdout, stderr string, err error) {
	cmd, out, errOut := newTestCmd()
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
