package session

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/doridoridoriand/pingtop/internal/ping"
	"github.com/doridoridoriand/pingtop/internal/stats"
	"github.com/doridoridoriand/pingtop/internal/target"
)

const (
	// flushInterval is how many events may accumulate before a flush.
	flushInterval = 50
	// summaryInterval is how often the running summary is rewritten.
	summaryInterval = 60 * time.Second
	// timestampLayout names log and summary files by session start.
	timestampLayout = "2006-01-02T15-04-05"
)

// Recorder writes the durable outputs of a live session: the raw event log
// (gzipped JSONL) and the periodically refreshed summary document. Either
// side can be disabled independently.
type Recorder struct {
	Started time.Time

	eventFile *os.File
	eventBuf  *bufio.Writer
	eventGz   *gzip.Writer
	// EventLogPath is empty when raw logging is disabled.
	EventLogPath string

	eventCount    uint64
	lastSummaryAt time.Time
	summaryPath   string
}

// NewRecorder creates a recorder rooted at dataDir (logs/ and sessions/
// subdirectories are created on demand). Files are owner-only.
func NewRecorder(dataDir string, logRaw, logSummary bool) (*Recorder, error) {
	started := time.Now().UTC()
	r := &Recorder{Started: started, lastSummaryAt: started}
	stamp := started.Format(timestampLayout)

	if logRaw {
		dir := filepath.Join(dataDir, "logs")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		path := filepath.Join(dir, stamp+".jsonl.gz")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return nil, fmt.Errorf("create event log: %w", err)
		}
		r.eventFile = file
		r.eventBuf = bufio.NewWriter(file)
		r.eventGz = gzip.NewWriter(r.eventBuf)
		r.EventLogPath = path
	}

	if logSummary {
		dir := filepath.Join(dataDir, "sessions")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			r.closeEventLog()
			return nil, fmt.Errorf("create session dir: %w", err)
		}
		r.summaryPath = filepath.Join(dir, stamp+".json.gz")
	}

	return r, nil
}

// LogPing appends one event to the raw log; a no-op when raw logging is
// off. Pass ok=false for a timeout or error outcome.
func (r *Recorder) LogPing(targetIdx int, tgt target.Target, latency time.Duration, ok bool) error {
	if r.eventGz == nil {
		return nil
	}

	event := Event{
		Timestamp:  time.Now().UTC(),
		TargetIdx:  targetIdx,
		TargetName: tgt.Name,
		TargetAddr: tgt.Addr.String(),
	}
	if ok {
		us := latency.Microseconds()
		event.LatencyUS = &us
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if _, err := r.eventGz.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	r.eventCount++
	if r.eventCount%flushInterval == 0 {
		return r.Flush()
	}
	return nil
}

// LogOutcome is LogPing with the outcome unpacked.
func (r *Recorder) LogOutcome(targetIdx int, tgt target.Target, outcome ping.Outcome) error {
	return r.LogPing(targetIdx, tgt, outcome.Latency, outcome.Kind == ping.OutcomeSuccess)
}

// Flush pushes buffered events down to the file without closing the stream.
func (r *Recorder) Flush() error {
	if r.eventGz == nil {
		return nil
	}
	if err := r.eventGz.Flush(); err != nil {
		return fmt.Errorf("flush gzip: %w", err)
	}
	if err := r.eventBuf.Flush(); err != nil {
		return fmt.Errorf("flush event log: %w", err)
	}
	return nil
}

// MaybeWriteSummary rewrites the running summary if the interval has
// elapsed. Returns true when a summary was written.
func (r *Recorder) MaybeWriteSummary(targets []target.Target, statsList []*stats.TargetStats) (bool, error) {
	now := time.Now().UTC()
	if now.Sub(r.lastSummaryAt) < summaryInterval {
		return false, nil
	}
	if err := r.writeSummary(targets, statsList, now); err != nil {
		return false, err
	}
	r.lastSummaryAt = now
	return true, nil
}

// WriteSummary writes the final summary. Returns the path, empty when
// summary logging is off.
func (r *Recorder) WriteSummary(targets []target.Target, statsList []*stats.TargetStats) (string, error) {
	if r.summaryPath == "" {
		return "", nil
	}
	if err := r.writeSummary(targets, statsList, time.Now().UTC()); err != nil {
		return "", err
	}
	return r.summaryPath, nil
}

func (r *Recorder) writeSummary(targets []target.Target, statsList []*stats.TargetStats, ended time.Time) error {
	if r.summaryPath == "" {
		return nil
	}
	return WriteSummaryFile(r.summaryPath, BuildSummary(r.Started, ended, targets, statsList))
}

// Finish closes the event log, completing the gzip stream.
func (r *Recorder) Finish() error {
	return r.closeEventLog()
}

func (r *Recorder) closeEventLog() error {
	if r.eventGz == nil {
		return nil
	}
	gzErr := r.eventGz.Close()
	bufErr := r.eventBuf.Flush()
	fileErr := r.eventFile.Close()
	r.eventGz = nil
	r.eventBuf = nil
	r.eventFile = nil
	if gzErr != nil {
		return fmt.Errorf("finish event log: %w", gzErr)
	}
	if bufErr != nil {
		return fmt.Errorf("flush event log: %w", bufErr)
	}
	if fileErr != nil {
		return fmt.Errorf("close event log: %w", fileErr)
	}
	return nil
}
