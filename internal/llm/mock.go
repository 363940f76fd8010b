// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"strings"
	"sync"
)

// MockResponse is one scripted assistant reply, or a failure when Err is set.
type MockResponse struct {
	Content string
	Err     error
}

// MockProvider replays a script of replies for assistant tests. Replies are
// used in order and the final one repeats once the script runs out. Every
// request that reaches the provider is kept, so tests can check which
// dataset summary and conversation history a turn was sent with.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	next   int
	calls  []Request
}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider scripts the given replies. With none, every turn gets an
// empty answer.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

// Complete records req and returns the next scripted reply. Usage counts
// whitespace-separated words, which is enough for tests that check usage is
// reported per turn.
func (m *MockProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)

	var reply MockResponse
	if len(m.script) > 0 {
		reply = m.script[m.next]
		if m.next < len(m.script)-1 {
			m.next++
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}

	model := req.Model
	if model == "" {
		model = "mock"
	}
	return &Response{
		Content: reply.Content,
		Model:   model,
		Usage:   Usage{InputTokens: promptWords(req), OutputTokens: len(strings.Fields(reply.Content))},
	}, nil
}

// Calls returns a copy of the requests received so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// LastCall returns the most recent request, if any.
func (m *MockProvider) LastCall() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return Request{}, false
	}
	return m.calls[len(m.calls)-1], true
}

func promptWords(req Request) int {
	n := len(strings.Fields(req.SystemPrompt)) + len(strings.Fields(req.Prompt))
	for _, msg := range req.History {
		n += len(strings.Fields(msg.Content))
	}
	return n
}
