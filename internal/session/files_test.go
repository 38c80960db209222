package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListLogsMostRecentFirst(t *testing.T) {
	dir := t.TempDir()
	logsDir := filepath.Join(dir, "logs")
	require.NoError(t, os.MkdirAll(logsDir, 0o700))

	names := []string{
		"2026-08-28T10-00-00.jsonl.gz",
		"2026-08-30T09-30-00.jsonl.gz",
		"2026-08-29T23-59-59.jsonl.gz",
		"notes.txt",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(logsDir, name), nil, 0o600))
	}

	paths, err := ListLogs(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	require.Equal(t, filepath.Join(logsDir, "2026-08-30T09-30-00.jsonl.gz"), paths[0])
	require.Equal(t, filepath.Join(logsDir, "2026-08-28T10-00-00.jsonl.gz"), paths[2])
}

func TestListSessionsEmptyWhenMissing(t *testing.T) {
	paths, err := ListSessions(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, paths)
}
