package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&Config{Level: "info", Format: "json", Writer: &buf})
	require.NoError(t, err)

	l.Info("forecast served",
		String("asset", "BTC/USD"),
		Int("confidence", 72),
		Duration("duration_ms", 1500*time.Millisecond),
		Bool("cached", false),
		Error(errors.New("boom")),
	)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "forecast served", lines[0]["message"])
	assert.Equal(t, "BTC/USD", lines[0]["asset"])
	assert.EqualValues(t, 72, lines[0]["confidence"])
	assert.EqualValues(t, 1500, lines[0]["duration_ms"])
	assert.Equal(t, false, lines[0]["cached"])
	assert.Equal(t, "boom", lines[0]["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&Config{Level: "warn", Format: "json", Writer: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "error", lines[1]["level"])
}

func TestWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&Config{Level: "debug", Format: "json", Writer: &buf})
	require.NoError(t, err)

	l.With(String("component", "gateway")).Debug("tick")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "gateway", lines[0]["component"])
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("ignored", Error(nil)) })
}

func TestNilErrorAddsNothing(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&Config{Level: "info", Format: "json", Writer: &buf})
	require.NoError(t, err)

	l.With(Error(errors.New("sticky")), Int64("bytes", 12)).Info("with error")
	l.Warn("no error", Error(nil))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "sticky", lines[0]["error"])
	assert.EqualValues(t, 12, lines[0]["bytes"])
	_, ok := lines[1]["error"]
	assert.False(t, ok)
}
