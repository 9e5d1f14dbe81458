package dumpdir

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrt/abrt-cli/internal/idgen"
	"github.com/abrt/abrt-cli/internal/storage"
	"github.com/abrt/abrt-cli/internal/types"
)

const testUID = 1000

func writeProblem(t *testing.T, root, name string, elements map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for elem, content := range elements {
		require.NoError(t, os.WriteFile(filepath.Join(dir, elem), []byte(content), 0o644))
	}
	return dir
}

func newTestStore(t *testing.T, root string) *Store {
	t.Helper()
	s, err := New(Options{
		Path:        root,
		Concurrency: 2,
		LockTimeout: 50 * time.Millisecond,
		Geteuid:     func() int { return testUID },
		Warnings:    io.Discard,
	})
	require.NoError(t, err)
	return s
}

func TestListProblemsReadsElements(t *testing.T) {
	root := t.TempDir()
	dir := writeProblem(t, root, "ccpp-2015-06-01-10:00:00-1234", map[string]string{
		"time":            "1433152800\n",
		"last_occurrence": "1433160000\n",
		"count":           "3\n",
		"type":            "CCpp\n",
		"component":       "pavucontrol\n",
		"executable":      "/usr/bin/pavucontrol\n",
		"package":         "pavucontrol-2.0-1.fc22\n",
		"reason":          "pavucontrol killed by SIGSEGV\n",
		"uid":             strconv.Itoa(testUID),
		"backtrace":       "#0 0x0000 in main ()\n",
		"reported_to":     "Bugzilla: URL=https://bugzilla.redhat.com/show_bug.cgi?id=1\n",
	})

	problems, err := newTestStore(t, root).ListProblems(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, problems, 1)

	p := problems[0]
	assert.Equal(t, dir, p.ID)
	assert.Equal(t, dir, p.Path)
	assert.Equal(t, idgen.ShortID(dir), p.ShortID)
	assert.Equal(t, types.KindCCpp, p.Kind)
	assert.Equal(t, "pavucontrol", p.Component)
	assert.Equal(t, "/usr/bin/pavucontrol", p.Executable)
	assert.Equal(t, "pavucontrol-2.0-1.fc22", p.Package)
	assert.Equal(t, 3, p.Count)
	assert.Equal(t, testUID, p.UID)
	assert.Equal(t, time.Unix(1433160000, 0), p.Time)
	assert.Equal(t, time.Unix(1433152800, 0), p.FirstOccurrence)
	assert.True(t, p.HasBacktrace())
	require.Len(t, p.ReportedTo, 1)
	assert.Equal(t, "Bugzilla", p.ReportedTo[0].Label)
	assert.Equal(t, "https://bugzilla.redhat.com/show_bug.cgi?id=1", p.ReportedTo[0].URL)
}

func TestListProblemsFallbacks(t *testing.T) {
	root := t.TempDir()
	writeProblem(t, root, "python-1", map[string]string{
		"time":           "1000",
		"analyzer":       "Python",
		"core_backtrace": "{\"stacktrace\": []}",
	})

	problems, err := newTestStore(t, root).ListProblems(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, problems, 1)

	p := problems[0]
	assert.Equal(t, types.KindPython, p.Kind)
	assert.Equal(t, time.Unix(1000, 0), p.Time, "time falls back to the time element")
	assert.Equal(t, 1, p.Count)
	assert.Equal(t, -1, p.UID)
	assert.True(t, p.HasBacktrace())
	assert.Equal(t, "Python", p.HumanIDValue())
}

func TestListProblemsOrderAndSkips(t *testing.T) {
	root := t.TempDir()
	writeProblem(t, root, "b-problem", map[string]string{"time": "2", "component": "b"})
	writeProblem(t, root, "a-problem", map[string]string{"time": "1", "component": "a"})
	writeProblem(t, root, "not-a-problem", map[string]string{"component": "x"})
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray-file"), []byte("1"), 0o644))

	problems, err := newTestStore(t, root).ListProblems(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, problems, 2)
	assert.Equal(t, "a", problems[0].Component)
	assert.Equal(t, "b", problems[1].Component)
}

func TestListProblemsVisibility(t *testing.T) {
	root := t.TempDir()
	writeProblem(t, root, "mine", map[string]string{"time": "1", "component": "mine", "uid": strconv.Itoa(testUID)})
	writeProblem(t, root, "theirs", map[string]string{"time": "1", "component": "theirs", "uid": "0"})
	writeProblem(t, root, "shared", map[string]string{"time": "1", "component": "shared"})
	private := writeProblem(t, root, "private", map[string]string{"time": "1", "component": "private"})
	require.NoError(t, os.Chmod(private, 0o750))

	store := newTestStore(t, root)

	own, err := store.ListProblems(context.Background(), false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"mine", "shared"}, components(own))

	all, err := store.ListProblems(context.Background(), true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"mine", "theirs", "shared", "private"}, components(all))
}

func TestListProblemsMissingLocation(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "missing"))
	problems, err := store.ListProblems(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestListProblemsCancelled(t *testing.T) {
	root := t.TempDir()
	writeProblem(t, root, "p", map[string]string{"time": "1"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestStore(t, root).ListProblems(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListProblemsLocks(t *testing.T) {
	root := t.TempDir()
	held := writeProblem(t, root, "held", map[string]string{"time": "1", "component": "held"})
	stale := writeProblem(t, root, "stale", map[string]string{"time": "1", "component": "stale"})
	require.NoError(t, os.Symlink(strconv.Itoa(os.Getppid()), filepath.Join(held, lockName)))
	require.NoError(t, os.Symlink("99999999", filepath.Join(stale, lockName)))

	var warnings bytes.Buffer
	store := newTestStore(t, root)
	store.warnings = &warnings

	problems, err := store.ListProblems(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"stale"}, components(problems))
	assert.Equal(t, "Warning: skipping "+held+": problem is locked\n", warnings.String())
}

func TestDeleteProblem(t *testing.T) {
	root := t.TempDir()
	dir := writeProblem(t, root, "doomed", map[string]string{"time": "1"})
	store := newTestStore(t, root)

	require.NoError(t, store.DeleteProblem(context.Background(), NewProblem(dir)))
	_, err := os.Stat(dir)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	err = store.DeleteProblem(context.Background(), NewProblem(dir))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteProblemLocked(t *testing.T) {
	root := t.TempDir()
	dir := writeProblem(t, root, "busy", map[string]string{"time": "1"})
	require.NoError(t, os.Symlink(strconv.Itoa(os.Getppid()), filepath.Join(dir, lockName)))

	err := newTestStore(t, root).DeleteProblem(context.Background(), NewProblem(dir))
	assert.ErrorIs(t, err, storage.ErrLocked)
	assert.DirExists(t, dir)
}

func TestDeleteProblemStaleLock(t *testing.T) {
	root := t.TempDir()
	dir := writeProblem(t, root, "abandoned", map[string]string{"time": "1"})
	require.NoError(t, os.Symlink("99999999", filepath.Join(dir, lockName)))

	require.NoError(t, newTestStore(t, root).DeleteProblem(context.Background(), NewProblem(dir)))
	assert.NoDirExists(t, dir)
}

func TestNewRejectsNegativeTimeout(t *testing.T) {
	_, err := New(Options{Path: t.TempDir(), LockTimeout: -time.Second})
	assert.Error(t, err)
}

func TestWatchPath(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, root, newTestStore(t, root).WatchPath())
}

func components(problems []*types.Problem) []string {
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = p.Component
	}
	return out
}
