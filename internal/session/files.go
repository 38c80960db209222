package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DataDir returns (and creates) the pingtop data directory, ~/.pingtop.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".pingtop")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return dir, nil
}

// ListLogs returns recorded event logs, most recent first.
func ListLogs(dataDir string) ([]string, error) {
	return listBySuffix(filepath.Join(dataDir, "logs"), ".jsonl.gz")
}

// ListSessions returns saved session summaries, most recent first.
func ListSessions(dataDir string) ([]string, error) {
	return listBySuffix(filepath.Join(dataDir, "sessions"), ".json.gz")
}

func listBySuffix(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}
