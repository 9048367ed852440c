package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	textFormatter, ok := NewFormatter("").(*logrus.TextFormatter)
	assert.NotNil(t, textFormatter)
	assert.True(t, ok)

	jsonFormatter, ok := NewFormatter("JSON").(*logrus.JSONFormatter)
	assert.NotNil(t, jsonFormatter)
	assert.True(t, ok)
}

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithOutput(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.WithField("host", "shop.example.com").Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "shop.example.com", entry["host"])
}

func TestNewDefaultsToInfo(t *testing.T) {
	logger, err := New("", "text")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.Level)
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("loud", "text")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}
