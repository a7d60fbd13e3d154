package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCarriesFieldsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	l := &zapLogger{
		cfg: &ZapConfig{Level: "info", Mode: "production", Encoding: "json"},
		out: &buf,
	}
	l.init()

	ctx := l.With(context.Background(), "run_id", "r-1")
	l.Infow(ctx, "agent dispatched", "agent", "vendor-1")
	l.Debug(ctx, "dropped below level")

	out := buf.String()
	assert.Contains(t, out, `"run_id":"r-1"`)
	assert.Contains(t, out, `"agent":"vendor-1"`)
	assert.Contains(t, out, "agent dispatched")
	assert.NotContains(t, out, "dropped below level")
}

func TestUnknownLevelFallsBackToDebug(t *testing.T) {
	l := &zapLogger{cfg: &ZapConfig{Level: "verbose"}}
	assert.Equal(t, "debug", l.getLoggerLevel().String())
}
