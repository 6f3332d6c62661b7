package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStoreRunLifecycle(t *testing.T) {
	s := newTestStore(t)

	run, err := s.CreateRun("run-1", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, RunPending, run.Status)
	assert.DirExists(t, s.RunDir("run-1"))

	s.SetStatus("run-1", RunCrawling)
	got, ok := s.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, RunCrawling, got.Status)

	s.SetComplete("run-1", 87.5, "GOOD", "reports/run-1/report.json")
	got, _ = s.Get("run-1")
	assert.Equal(t, RunComplete, got.Status)
	require.NotNil(t, got.Score)
	assert.InDelta(t, 87.5, *got.Score, 1e-9)
	assert.Equal(t, "GOOD", got.Rating)
}

func TestStoreSetFailed(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateRun("run-1", "https://example.com")
	require.NoError(t, err)

	s.SetFailed("run-1", errors.New("connection refused"))
	got, _ := s.Get("run-1")
	assert.Equal(t, RunFailed, got.Status)
	assert.Equal(t, "connection refused", got.Error)
}

func TestStoreListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.CreateRun(id, "https://example.com")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	runs := s.List()
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "a", runs[2].ID)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	require.NoError(t, err)
	_, err = s.CreateRun("run-1", "https://example.com")
	require.NoError(t, err)
	s.Close()
	// Close flushes asynchronously; give the writer a beat.
	require.Eventually(t, func() bool {
		_, statErr := os.Stat(filepath.Join(dir, "runs.json"))
		return statErr == nil
	}, time.Second, 10*time.Millisecond)

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, "https://example.com", got.URL)
}

func TestStoreSaveReport(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateRun("run-1", "https://example.com")
	require.NoError(t, err)

	rep := sampleReport(t)
	path, err := s.SaveReport("run-1", rep, "json")
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, "report.json", filepath.Base(path))

	_, err = s.SaveReport("run-1", rep, "docx")
	assert.Error(t, err)
}
