package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	now := time.Date(2024, 12, 7, 10, 15, 30, 0, time.UTC)

	path, err := Save(dir, "# Report", now)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "log_analysis_report_20241207_101530.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Report", string(data))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", PreviewChars))

	long := strings.Repeat("a", 1500)
	got := Preview(long, PreviewChars)
	assert.Equal(t, strings.Repeat("a", 1000), got)
	assert.Equal(t, "héllo", Preview("héllo wörld", 5))
}
