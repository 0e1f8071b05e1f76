package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerWritesComponent(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	l := NewWithWriter("runner", &buf)
	l.Infof("run %s finished", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "runner", line["component"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "run abc finished", line["message"])
}

func TestZerologLoggerDevFormat(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	var buf bytes.Buffer
	l := NewWithWriter("api", &buf)
	l.Warnf("slow request")
	assert.Contains(t, buf.String(), "slow request")
	assert.Contains(t, buf.String(), "api")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("debug %d", 1)
	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("error")
}
