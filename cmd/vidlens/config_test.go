package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfigValidate(t *testing.T) {
	setupWorkspace(t)
	out, _, err := execute("config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "config valid:")
	assert.Contains(t, out, "4 charts, default performance")
}

func TestRunConfigValidate_Invalid(t *testing.T) {
	dir := setupWorkspace(t)
	writeTestFile(t, dir, ".vidlens.yaml", "assistant:\n  provider: openai\n")

	_, _, err := execute("config", "validate")
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece))
	assert.Contains(t, ece.Error(), "assistant.provider")
}

func TestRunConfigValidate_ExplicitFile(t *testing.T) {
	dir := setupWorkspace(t)
	path := writeTestFile(t, dir, "alt/dash.toml", "default_chart = \"trend\"\n")

	out, _, err := execute("--config", path, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "default trend")
}

func TestRunConfigShow(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"yaml", "default_chart: performance"},
		{"toml", `default_chart = "performance"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			setupWorkspace(t)
			out, _, err := execute("config", "show", "--format", tt.format)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	setupWorkspace(t)
	_, _, err := execute("config", "show", "--format", "ini")
	assert.ErrorContains(t, err, "unknown config format")
}

func TestRunConfigGet(t *testing.T) {
	dir := setupWorkspace(t)
	writeTestFile(t, dir, ".vidlens.yaml", "output_format: json\n")

	out, _, err := execute("config", "get", "output_format")
	require.NoError(t, err)
	assert.Equal(t, "json\n", out)

	out, _, err = execute("config", "get", "charts.performance")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: bar")

	_, _, err = execute("config", "get", "nope")
	assert.ErrorContains(t, err, "unknown key")
}
