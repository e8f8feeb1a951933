package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"behancescraper/pkg/config"
)

func newBufferLogger(buf *bytes.Buffer) *zerologLogger {
	zlog := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return &zerologLogger{logger: &zlog, fields: make(map[string]interface{})}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"console info", &config.LoggingConfig{Level: "info", Console: true}, false},
		{"debug without outputs", &config.LoggingConfig{Level: "debug"}, false},
		{"invalid level", &config.LoggingConfig{Level: "invalid"}, true},
		{"file output", &config.LoggingConfig{Level: "info", Directory: t.TempDir()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewCreatesTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	started := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

	var console bytes.Buffer
	log, err := newLogger(&config.LoggingConfig{Level: "info", Directory: dir, Console: true}, &console, started)
	require.NoError(t, err)

	log.WithField("keyword", "jetour").Info("run started")

	path := filepath.Join(dir, "20240309_140507_behance_scraper.log")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"run started"`)
	assert.Contains(t, string(data), `"keyword":"jetour"`)
	assert.Contains(t, console.String(), "run started")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&config.LoggingConfig{Level: "warn", Console: true}, &buf, time.Now())
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.WithField("field1", "value1").
		WithFields(map[string]interface{}{"field2": 2, "field3": true}).
		WithError(errors.New("boom")).
		InfoWithFields("chained fields", map[string]interface{}{"elapsed": time.Second})

	output := buf.String()
	assert.Contains(t, output, "chained fields")
	assert.Contains(t, output, `"field1":"value1"`)
	assert.Contains(t, output, `"field2":2`)
	assert.Contains(t, output, `"field3":true`)
	assert.Contains(t, output, `"error":"boom"`)
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := newBufferLogger(&buf)
	_ = parent.WithField("child", "only")

	parent.Info("parent message")
	assert.False(t, strings.Contains(buf.String(), "child"))
}

func TestWithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)
	assert.Same(t, log, log.WithError(nil))
}

func TestTestLoggerCapturesFields(t *testing.T) {
	log := NewTestLogger()
	child := log.WithField("url", "https://example.com/a.jpg").WithError(errors.New("timeout"))
	child.Error("download failed")
	log.Info("plain")

	messages := log.GetMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, "ERROR", messages[0].Level)
	assert.Equal(t, "https://example.com/a.jpg", messages[0].Fields["url"])
	assert.EqualError(t, messages[0].Error, "timeout")
	assert.True(t, log.HasError())
	assert.True(t, log.HasMessage("plain"))
}
