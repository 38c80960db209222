package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeEventLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(file)
	for _, line := range lines {
		_, err := gz.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())
	return path
}

func TestLoadEventsSkipsBlankLines(t *testing.T) {
	path := writeEventLog(t, []string{
		`{"timestamp":"2026-08-30T12:00:00Z","target_idx":0,"target_name":"a","target_addr":"192.0.2.1","latency_us":1500}`,
		``,
		`{"timestamp":"2026-08-30T12:00:01Z","target_idx":1,"target_name":"b","target_addr":"192.0.2.2","latency_us":null}`,
	})

	events, err := LoadEvents(path, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, events, 2)

	latency, ok := events[0].Latency()
	require.True(t, ok)
	require.Equal(t, 1500*time.Microsecond, latency)
	_, ok = events[1].Latency()
	require.False(t, ok)
}

func TestLoadEventsFailsOnMalformedLine(t *testing.T) {
	path := writeEventLog(t, []string{
		`{"timestamp":"2026-08-30T12:00:00Z","target_idx":0,"target_name":"a","target_addr":"192.0.2.1","latency_us":1500}`,
		`{not json}`,
	})

	_, err := LoadEvents(path, zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
}

func TestLoadEventsTruncatesAtCap(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = `{"timestamp":"2026-08-30T12:00:00Z","target_idx":0,"target_name":"a","target_addr":"192.0.2.1","latency_us":100}`
	}
	path := writeEventLog(t, lines)

	events, err := loadEvents(path, 4, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, events, 4)
}

func TestLoadEventsMissingFile(t *testing.T) {
	_, err := LoadEvents(filepath.Join(t.TempDir(), "missing.jsonl.gz"), zap.NewNop())
	require.Error(t, err)
}

func TestLoadEventsNotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jsonl.gz")
	require.NoError(t, os.WriteFile(path, []byte("plain text\n"), 0o600))

	_, err := LoadEvents(path, zap.NewNop())
	require.Error(t, err)
}
