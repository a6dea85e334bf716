package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDummyMode(t *testing.T) {
	cases := map[string]DummyMode{
		"":          DummyOff,
		"off":       DummyOff,
		"false":     DummyOff,
		"fallback":  DummyFallback,
		" Fallback": DummyFallback,
		"always":    DummyAlways,
		"true":      DummyAlways,
		"1":         DummyAlways,
		"kadang":    DummyOff,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseDummyMode(in), "input %q", in)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("DASH_TEST_INT", "42")
	t.Setenv("DASH_TEST_BAD_INT", "empat")
	t.Setenv("DASH_TEST_BOOL", "yes")
	t.Setenv("DASH_TEST_STR", "nilai")

	assert.Equal(t, 42, GetEnvInt("DASH_TEST_INT", 7))
	assert.Equal(t, 7, GetEnvInt("DASH_TEST_BAD_INT", 7))
	assert.Equal(t, 7, GetEnvInt("DASH_TEST_MISSING", 7))
	assert.True(t, GetEnvBool("DASH_TEST_BOOL", false))
	assert.True(t, GetEnvBool("DASH_TEST_MISSING", true))
	assert.Equal(t, "nilai", GetEnv("DASH_TEST_STR", "x"))
	assert.Equal(t, "x", GetEnv("DASH_TEST_MISSING", "x"))
}
