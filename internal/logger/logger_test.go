package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	Init(level)
	var buf bytes.Buffer
	SetOutput(&buf)
	return &buf
}

func TestInit(t *testing.T) {
	Init()
	assert.NotNil(t, log)
	assert.Equal(t, "info", log.GetLevel().String())

	Init("not-a-level")
	assert.Equal(t, "info", log.GetLevel().String())

	Init("debug")
	assert.Equal(t, "debug", log.GetLevel().String())
}

func TestInfo(t *testing.T) {
	buf := capture(t, "info")

	Info("booking created", "booking_id", 12, "facility_id", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 12, entry["booking_id"])
	assert.EqualValues(t, 3, entry["facility_id"])
}

func TestError(t *testing.T) {
	buf := capture(t, "info")

	Error("fetch failed", "error", errors.New("connection refused"))

	output := buf.String()
	assert.Contains(t, output, "fetch failed")
	assert.Contains(t, output, "connection refused")
}

func TestDebug(t *testing.T) {
	buf := capture(t, "info")
	Debug("hidden")
	assert.Empty(t, buf.String())

	buf = capture(t, "debug")
	Debug("test debug")
	assert.Contains(t, buf.String(), "test debug")
}

func TestErrorf(t *testing.T) {
	buf := capture(t, "info")

	Errorf("server error: %s", "bind failed")

	assert.Contains(t, buf.String(), "server error: bind failed")
}

func TestOddKeyValues(t *testing.T) {
	buf := capture(t, "info")

	Warn("dangling", "only-key")

	assert.Contains(t, buf.String(), "!BADKEY")
}

func TestSetLevel(t *testing.T) {
	Init()
	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, "warning", log.GetLevel().String())
	assert.Error(t, SetLevel("loud"))
}
