// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package redact strips credentials (API keys, backend cookies and tokens)
// from strings before they reach output, logs or error messages.
package redact

import (
	"os"
	"strings"
	"sync"
)

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output.
var sensitiveEnvVars = []string{
	"ANTHROPIC_API_KEY",
	"DEEPSEEK_API_KEY",
	"VIDLENS_COOKIE",
	"VIDLENS_TOKEN",
}

// minSecretLen guards against redacting short, common substrings.
const minSecretLen = 4

var (
	mu            sync.Mutex
	cachedSecrets []string
	registered    []string
	cacheOnce     sync.Once
)

func loadSecrets() {
	for _, envVar := range sensitiveEnvVars {
		val := os.Getenv(envVar)
		if len(val) >= minSecretLen {
			cachedSecrets = append(cachedSecrets, val)
		}
	}
}

// Register adds secrets known only at runtime, such as a cookie read from
// an environment variable named in configuration.
func Register(values ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, v := range values {
		if len(v) >= minSecretLen {
			registered = append(registered, v)
		}
	}
}

func resetCache() {
	mu.Lock()
	defer mu.Unlock()
	cachedSecrets = nil
	registered = nil
	cacheOnce = sync.Once{}
}

// ResetForTest resets the cached and registered secrets so tests in other
// packages can verify redaction after setting env vars with t.Setenv.
func ResetForTest() { resetCache() }

// String replaces every known secret in s with "[REDACTED]".
func String(s string) string {
	mu.Lock()
	defer mu.Unlock()
	cacheOnce.Do(loadSecrets)
	for _, secret := range cachedSecrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	for _, secret := range registered {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return s
}
