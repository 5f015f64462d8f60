package retention

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("entry\n"), 0o644))
	mtime := now.Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestThresholdPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		days    int
		want    time.Time
	}{
		{name: "minutes win", minutes: 30, days: 3, want: now.Add(-30 * time.Minute)},
		{name: "zero minutes falls to days", minutes: 0, days: 3, want: now.AddDate(0, 0, -3)},
		{name: "negative minutes falls to days", minutes: -5, days: 1, want: now.AddDate(0, 0, -1)},
		{name: "default seven days", want: now.AddDate(0, 0, -7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Threshold(now, tt.minutes, tt.days))
		})
	}
}

func TestPruneDeletesOnlyStaleLogFiles(t *testing.T) {
	dir := t.TempDir()
	stale := writeAged(t, dir, "chat_old.log", 10*24*time.Hour)
	fresh := writeAged(t, dir, "chat_new.log", time.Hour)
	other := writeAged(t, dir, "notes.txt", 30*24*time.Hour)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.log"), 0o755))
	nested := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(nested, 0o755))
	deep := writeAged(t, nested, "deep.log", 30*24*time.Hour)

	res, err := Prune(dir, DefaultExt, Threshold(now, 0, 3))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, 1, res.Deleted)
	assert.False(t, res.DirMissing)
	assert.Empty(t, res.Failures)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
	assert.FileExists(t, deep)
}

func TestPruneIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeAged(t, dir, "a.log", 8*24*time.Hour)
	writeAged(t, dir, "b.log", 9*24*time.Hour)
	threshold := Threshold(now, 0, 0)

	first, err := Prune(dir, "", threshold)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Deleted)

	second, err := Prune(dir, "", threshold)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Deleted)
}

func TestPruneMissingDirIsNotAnError(t *testing.T) {
	res, err := Prune(filepath.Join(t.TempDir(), "nope"), "log", now)
	require.NoError(t, err)
	assert.True(t, res.DirMissing)
	assert.Equal(t, 0, res.Deleted)
	assert.Equal(t, "log directory does not exist", res.String())
}

func TestResultString(t *testing.T) {
	res := Result{Scanned: 3, Deleted: 1, Failures: []Failure{{Path: "x.log"}}}
	assert.Equal(t, "scanned 3 file(s), deleted 1, 1 failure(s)", res.String())
}
