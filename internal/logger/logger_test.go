package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
		SetFile(nil)
	})
}

func TestSetVerbose(t *testing.T) {
	reset(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("extracting %s", "a.pdf")
	Info("planned %d documents", 3)
	Warn("fallback title")
	Section("Preview")

	assert.Equal(t,
		"[DEBUG] extracting a.pdf\n[INFO] planned 3 documents\n[WARN] fallback title\n\n=== Preview ===\n",
		buf.String())
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)

	Error("rename failed: %s", "permission denied")

	assert.Equal(t, "[ERROR] rename failed: permission denied\n", buf.String())
}

func TestSetFile_ReceivesTimestampedMessages(t *testing.T) {
	reset(t)
	orig := now
	now = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	var console, file bytes.Buffer
	SetOutput(&console)
	SetFile(&file)

	Info("renamed %d", 2)
	Error("boom")

	assert.Equal(t, "[ERROR] boom\n", console.String())
	assert.Equal(t,
		"2024-03-05 14:30:00 [INFO] renamed 2\n2024-03-05 14:30:00 [ERROR] boom\n",
		file.String())
}

func TestOpenLogFile(t *testing.T) {
	reset(t)
	orig := now
	now = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	dir := t.TempDir()
	closer, path, err := OpenLogFile(dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "pdfren_20240305.log"))

	Warn("written to disk")
	require.NoError(t, closer.Close())

	// Detached after close.
	Warn("not written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[WARN] written to disk")
	assert.NotContains(t, string(data), "not written")
}

func TestConcurrentAccess(t *testing.T) {
	reset(t)

	var buf bytes.Buffer
	SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}
