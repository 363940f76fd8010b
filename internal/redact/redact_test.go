package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_RedactsKnownEnvVars(t *testing.T) {
	const secret = "sk-ant-REDACTED" //nolint:gosec // fake test credential
	t.Setenv("ANTHROPIC_API_KEY", secret)
	resetCache()
	t.Cleanup(resetCache)

	got := String("error: auth failed with key sk-ant-REDACTED for model")
	assert.Equal(t, "error: auth failed with key [REDACTED] for model", got)
}

func TestString_NoSecretSetIsNoop(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	resetCache()
	t.Cleanup(resetCache)

	input := "some normal error message"
	assert.Equal(t, input, String(input))
}

func TestString_ShortValuesIgnored(t *testing.T) {
	t.Setenv("VIDLENS_TOKEN", "abc")
	resetCache()
	t.Cleanup(resetCache)

	input := "abc is in the string abc"
	assert.Equal(t, input, String(input))
}

func TestString_MultipleSecrets(t *testing.T) {
	t.Setenv("VIDLENS_COOKIE", "SESSDATA=aaaa")
	t.Setenv("DEEPSEEK_API_KEY", "test-token-bbbb")
	resetCache()
	t.Cleanup(resetCache)

	got := String("cookie SESSDATA=aaaa and key test-token-bbbb")
	assert.Equal(t, "cookie [REDACTED] and key [REDACTED]", got)
}

func TestRegister(t *testing.T) {
	resetCache()
	t.Cleanup(resetCache)

	Register("custom-cookie-value", "xy")
	assert.Equal(t, "sent [REDACTED] and xy", String("sent custom-cookie-value and xy"))
}
