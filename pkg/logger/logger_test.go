package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestInit_OnlyFirstCallCounts(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	l := Init(Options{Level: "info", Output: &first, Service: "weather-history"})
	Init(Options{Level: "debug", Output: &second})

	l.Info().Msg("hello")
	g := Get()
	g.Debug().Msg("dropped")

	assert.Zero(t, second.Len())
	assert.NotContains(t, first.String(), "dropped")
	assert.Equal(t, zerolog.InfoLevel, g.GetLevel())

	var line map[string]any
	require.NoError(t, json.Unmarshal(first.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "weather-history", line["service"])
}

func TestGet_BeforeInitIsNop(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	l := Get()
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestGet_ReturnsInitLogger(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf, Service: "weather-history"})

	g := Get()
	g.Info().Msg("quiet")
	g.Warn().Msg("loud")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "loud", line["message"])
	assert.Equal(t, "weather-history", line["service"])
}
