package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("verbose"))
}

func TestInitializeWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	Initialize(Options{Level: "INFO", File: path})
	Info("pipeline finished", map[string]interface{}{"incidents": 3})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pipeline finished")
	assert.Contains(t, string(data), "incidents=3")
}

func TestFieldHelpers(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Options{Level: "INFO", File: "stderr"})
	SetOutput(&buf)

	WithAnalysis("abc").Info("queued")
	WithError(errors.New("boom"), "research").Warn("lookup failed")
	Debug("hidden", nil)

	out := buf.String()
	assert.Contains(t, out, "analysis_id=abc")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "component=research")
	assert.NotContains(t, out, "hidden")
}
