package logger

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

func captureOutput(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	replaceAttr = dropTime
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		replaceAttr = nil
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	captureOutput(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name  string
		log   func(string, ...any)
		level string
	}{
		{"debug", Debug, "DBG"},
		{"info", Info, "INF"},
		{"warn", Warn, "WRN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t, true)

			tt.log("fetching %s", "trade-data")

			assert.Contains(t, buf.String(), tt.level+" fetching trade-data")
			assert.NotContains(t, buf.String(), "\x1b[", "buffers are never coloured")
		})
	}
}

func TestLevels_WhenQuiet(t *testing.T) {
	buf := captureOutput(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")
	Request("GET", "/lawd-codes", 200, time.Second)

	assert.Empty(t, buf.String())
}

func TestSection(t *testing.T) {
	buf := captureOutput(t, true)

	Section("Search")

	assert.Equal(t, "\n=== Search ===\n", buf.String())
}

func TestRequest(t *testing.T) {
	buf := captureOutput(t, true)

	Request("GET", "/lawd-codes", 200, 15*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "DBG http")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/lawd-codes")
	assert.Contains(t, out, "status=200")
}

func TestRequest_FailureIsWarning(t *testing.T) {
	buf := captureOutput(t, true)

	Request("POST", "/forecast", 502, 1234567*time.Microsecond)

	out := buf.String()
	assert.Contains(t, out, "WRN http")
	assert.Contains(t, out, "status=502")
	assert.Contains(t, out, "elapsed=1.235s")
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
