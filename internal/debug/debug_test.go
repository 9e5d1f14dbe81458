package debug

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureLog redirects Logf output and restores the switches afterwards.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldEnabled, oldVerbose := logOutput, enabled, verboseMode
	logOutput = &buf
	t.Cleanup(func() {
		logOutput, enabled, verboseMode = oldOut, oldEnabled, oldVerbose
	})
	return &buf
}

func TestEnvEnabled(t *testing.T) {
	t.Setenv("ABRT_DEBUG", "1")
	assert.True(t, envEnabled())
	t.Setenv("ABRT_DEBUG", "")
	assert.False(t, envEnabled())
}

func TestLogfFollowsSwitches(t *testing.T) {
	buf := captureLog(t)

	enabled, verboseMode = false, false
	Logf("hidden %d\n", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Logf("shown %d\n", 2)
	enabled, verboseMode = true, false
	Logf("shown %d\n", 3)
	assert.Equal(t, "shown 2\nshown 3\n", buf.String())
}

func TestLogfConcurrentLinesStayWhole(t *testing.T) {
	buf := captureLog(t)
	enabled = true

	const writers, lines = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < lines; j++ {
				Logf("skipping /var/spool/abrt/ccpp-%d-%d: unreadable\n", i, j)
			}
		}()
	}
	wg.Wait()

	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, got, writers*lines)
	for _, line := range got {
		assert.True(t, strings.HasPrefix(line, "skipping /var/spool/abrt/ccpp-"), line)
		assert.True(t, strings.HasSuffix(line, ": unreadable"), line)
	}
}

func TestWarnfIgnoresVerbosity(t *testing.T) {
	captureLog(t)
	enabled, verboseMode = false, false
	SetQuiet(true)
	defer SetQuiet(false)

	var buf bytes.Buffer
	Warnf(&buf, "skipping %s: %s", "ccpp-1", "problem is locked")
	assert.Equal(t, "Warning: skipping ccpp-1: problem is locked\n", buf.String())
}

func TestFprintNormal(t *testing.T) {
	var buf bytes.Buffer
	FprintNormal(&buf, "Watching %s\n", "/var/spool/abrt")
	assert.Equal(t, "Watching /var/spool/abrt\n", buf.String())

	SetQuiet(true)
	defer SetQuiet(false)
	buf.Reset()
	FprintNormal(&buf, "Watching %s\n", "/var/spool/abrt")
	assert.Empty(t, buf.String())
}
