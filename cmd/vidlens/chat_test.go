package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/vidlens/internal/assistant"
	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/llm"
)

func TestAskQuestion_GroundsInChartView(t *testing.T) {
	setupWorkspace(t)
	chatDataset = "videos.json"
	chatChart = "categories"

	mock := llm.NewMockProvider(llm.MockResponse{Content: "  **Music** leads with 2 videos.  "})
	asst := assistant.New(mock, assistant.Options{})
	cmd, stdout, _ := newTestCmd()

	require.NoError(t, askQuestion(cmd, asst, config.Default(), "Which category leads?"))
	assert.Contains(t, stdout.String(), "**Music** leads with 2 videos.\n")

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Which category leads?", calls[0].Prompt)
	assert.Contains(t, calls[0].SystemPrompt, "Music")
}

func TestAskQuestion_ProviderError(t *testing.T) {
	setupWorkspace(t)
	chatDataset = "videos.json"

	asst := assistant.New(llm.NewMockProvider(llm.MockResponse{Err: errors.New("rate limited")}), assistant.Options{})
	cmd, _, _ := newTestCmd()

	err := askQuestion(cmd, asst, config.Default(), "How are views trending?")
	assert.ErrorContains(t, err, "rate limited")
}

func TestRunChat_AssistantDisabled(t *testing.T) {
	dir := setupWorkspace(t)
	writeTestFile(t, dir, ".vidlens.yaml", "assistant:\n  provider: none\n")

	_, _, err := execute("chat", "hello")
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece))
	assert.Equal(t, ExitUnavailable, ece.ExitCode())
	assert.Contains(t, ece.Error(), "assistant disabled")
}

func TestNewAssistant(t *testing.T) {
	cfg := config.Default()
	cfg.Assistant.Provider = "none"
	asst, err := newAssistant(cfg)
	require.NoError(t, err)
	assert.Nil(t, asst)

	cfg.Assistant.Provider = "openai"
	_, err = newAssistant(cfg)
	assert.ErrorContains(t, err, "unknown assistant provider")

	t.Setenv("ANTHROPIC_API_KEY", "sk-test-key-for-unit-tests")
	cfg.Assistant.Provider = config.DefaultProvider
	asst, err = newAssistant(cfg)
	require.NoError(t, err)
	assert.NotNil(t, asst)
}
