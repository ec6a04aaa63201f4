package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   Debug,
		"":        Info,
		" INFO ":  Info,
		"warning": Warn,
		"error":   Error,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Text, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestJSONLoggerFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Info, JSON, &buf).With(F("file", "list.dat"))

	log.Debug("hidden")
	log.Info("decoded channel list", F("channels", 3), F("err", errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "decoded channel list", entry["msg"])
	assert.Equal(t, "list.dat", entry["file"])
	assert.EqualValues(t, 3, entry["channels"])
	assert.Equal(t, "boom", entry["err"])
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	New(Debug, Text, &buf).Warn("reserved field", F("offset", 128))
	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "reserved field")
	assert.Contains(t, out, "offset")
	assert.Contains(t, out, "128")
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing happens")
	l.With(F("a", 1)).Info("still nothing")
}
