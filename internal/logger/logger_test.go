package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput(t *testing.T) {
	t.Setenv("GO_ENV", "")

	cases := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"debug":   logrus.DebugLevel,
		"WARNING": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"loud":    logrus.InfoLevel,
	}
	for in, want := range cases {
		t.Setenv("LOG_LEVEL", in)
		assert.Equalf(t, want, NewWithOutput(&bytes.Buffer{}).GetLevel(), "LOG_LEVEL=%q", in)
	}
}

func TestJSONOutput(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("LOG_LEVEL", "info")

	var buf bytes.Buffer
	NewWithOutput(&buf).WithField("job_id", "j1").Info("job created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "job created", entry["msg"])
	assert.Equal(t, "j1", entry["job_id"])
}

func TestDevelopmentText(t *testing.T) {
	t.Setenv("GO_ENV", "development")

	var buf bytes.Buffer
	NewWithOutput(&buf).Info("hello")
	assert.Contains(t, buf.String(), `msg=hello`)
}
