// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package assistant answers operator questions about the video data with an
// LLM, grounding every question in the chart view and videos on screen.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/llm"
)

// DefaultHistory is the number of earlier turns sent with a question.
const DefaultHistory = 5

// ErrEmptyQuestion is returned for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// SystemPrompt instructs the model.
const SystemPrompt = `You are the vidlens data assistant. You help operators understand crawled short-video statistics: views, likes, coins, shares, categories and publish times.

Answer in Markdown: use headings, **bold** for key figures, lists for statistics, tables for comparisons and > quotes for conclusions.

Base every answer on the data context you are given. Quote concrete numbers. When the context does not contain what the question needs, say so. If a question is unrelated to video data analysis, steer the conversation back politely.`

// Options configures an Assistant.
type Options struct {
	Model     string
	MaxTokens int
	// History is the number of earlier turns sent with each question.
	History int
}

// Assistant asks an LLM provider questions grounded in dashboard data.
type Assistant struct {
	provider llm.Provider
	opts     Options
	now      func() time.Time
}

// New creates an assistant over provider.
func New(provider llm.Provider, opts Options) *Assistant {
	if opts.History <= 0 {
		opts.History = DefaultHistory
	}
	return &Assistant{provider: provider, opts: opts, now: time.Now}
}

// Answer is the reply to one question.
type Answer struct {
	Response string `json:"response"`
	Intent   Intent `json:"intent"`
	// DataContext reports whether the question was grounded in data.
	DataContext bool      `json:"data_context_available"`
	Model       string    `json:"model,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Session is one conversation. It is safe for concurrent use; concurrent
// questions are answered in turn.
type Session struct {
	mu    sync.Mutex
	turns []llm.Message
}

// NewSession starts an empty conversation.
func NewSession() *Session { return &Session{} }

// History returns a copy of the recorded turns, oldest first.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.turns...)
}

// Reset forgets the conversation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// Ask answers question within session. The request carries the system
// prompt, the data context built from g, the last History turns and the
// question. The question and reply are recorded only when the provider
// answers.
func (a *Assistant) Ask(ctx context.Context, session *Session, question string, g Grounding) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	intent := AnalyzeIntent(question, knownCategories(g))
	system := SystemPrompt
	dataCtx := ""
	if !g.Empty() {
		dataCtx = DataContext(g, intent)
		system += "\n\nCurrent data context:\n" + dataCtx
	}

	history := session.turns
	if len(history) > a.opts.History {
		history = history[len(history)-a.opts.History:]
	}

	resp, err := a.provider.Complete(ctx, llm.Request{
		Prompt:       question,
		History:      append([]llm.Message(nil), history...),
		Model:        a.opts.Model,
		MaxTokens:    a.opts.MaxTokens,
		SystemPrompt: system,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}
	slog.Debug("assistant answered",
		"intent", intent.Type, "input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens)

	session.turns = append(session.turns,
		llm.Message{Role: llm.RoleUser, Content: question},
		llm.Message{Role: llm.RoleAssistant, Content: resp.Content},
	)

	return &Answer{
		Response:    resp.Content,
		Intent:      intent,
		DataContext: dataCtx != "",
		Model:       resp.Model,
		Suggestions: Suggestions(intent),
		Timestamp:   a.now().UTC(),
	}, nil
}

// knownCategories lists the category names in g's videos.
func knownCategories(g Grounding) []string {
	var names []string
	for _, v := range g.Videos.Distinct(aggregate.FieldCategory) {
		if s, ok := v.Str(); ok {
			names = append(names, s)
		}
	}
	return names
}
