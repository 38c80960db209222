package session

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxReplayEvents caps how many events a replay will load.
const MaxReplayEvents = 1_000_000

// Event is one persisted probe outcome. The JSON line schema is the sole
// contract between live recording and replay and must stay stable so old
// logs keep replaying.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	TargetIdx  int       `json:"target_idx"`
	TargetName string    `json:"target_name"`
	TargetAddr string    `json:"target_addr"`
	// LatencyUS is nil for a timeout or error.
	LatencyUS *int64 `json:"latency_us"`
}

// Latency returns the recorded latency, false for a loss.
func (e Event) Latency() (time.Duration, bool) {
	if e.LatencyUS == nil {
		return 0, false
	}
	return time.Duration(*e.LatencyUS) * time.Microsecond, true
}

// LoadEvents reads a gzipped JSONL event log. The list is truncated at
// MaxReplayEvents with a warning rather than exhausting memory; any
// malformed line or a corrupt stream fails the whole load.
func LoadEvents(path string, log *zap.Logger) ([]Event, error) {
	return loadEvents(path, MaxReplayEvents, log)
}

func loadEvents(path string, maxEvents int, log *zap.Logger) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	var events []Event
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(events) >= maxEvents {
			log.Warn("event log truncated to avoid memory exhaustion",
				zap.String("path", path),
				zap.Int("max_events", maxEvents))
			return events, nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var event Event
		if err := json.UnmarshalFromString(line, &event); err != nil {
			return nil, fmt.Errorf("parse event at line %d: %w", len(events)+1, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	return events, nil
}
