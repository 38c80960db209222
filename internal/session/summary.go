package session

import (
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/doridoridoriand/pingtop/internal/stats"
	"github.com/doridoridoriand/pingtop/internal/target"
)

// Summary is the session summary document, written as gzipped JSON.
type Summary struct {
	Started      time.Time       `json:"started"`
	Ended        time.Time       `json:"ended"`
	DurationSecs uint64          `json:"duration_secs"`
	Targets      []TargetSummary `json:"targets"`
}

// TargetSummary holds one target's final aggregates.
type TargetSummary struct {
	Name         string         `json:"name"`
	Addr         string         `json:"addr"`
	Sent         uint64         `json:"sent"`
	Received     uint64         `json:"received"`
	LossPct      float64        `json:"loss_pct"`
	LatencyMS    LatencySummary `json:"latency_ms"`
	JitterMS     *float64       `json:"jitter_ms"`
	MOS          *float64       `json:"mos"`
	QualityGrade *string        `json:"quality_grade"`
}

// LatencySummary is the all-time latency distribution in milliseconds.
type LatencySummary struct {
	Min *float64 `json:"min"`
	Avg *float64 `json:"avg"`
	P50 *float64 `json:"p50"`
	P95 *float64 `json:"p95"`
	Max *float64 `json:"max"`
}

// BuildSummary assembles a summary snapshot for the given interval.
func BuildSummary(started, ended time.Time, targets []target.Target, statsList []*stats.TargetStats) Summary {
	summaries := make([]TargetSummary, 0, len(targets))
	for i, tgt := range targets {
		st := statsList[i]
		allTime := st.AllTime()

		ts := TargetSummary{
			Name:     tgt.Name,
			Addr:     tgt.Addr.String(),
			Sent:     st.Sent(),
			Received: st.Received(),
			LossPct:  st.PacketLoss(),
			LatencyMS: LatencySummary{
				Min: optionalMillis(allTime.Min()),
				Avg: optionalMillis(allTime.Average()),
				P50: optionalMillis(allTime.P50()),
				P95: optionalMillis(allTime.P95()),
				Max: optionalMillis(allTime.Max()),
			},
			JitterMS: optionalMillis(st.Jitter()),
		}
		if mos, ok := st.MOSScore(); ok {
			ts.MOS = &mos
		}
		if grade, _, ok := st.QualityGrade(); ok {
			ts.QualityGrade = &grade
		}
		summaries = append(summaries, ts)
	}

	duration := ended.Sub(started)
	if duration < 0 {
		duration = 0
	}
	return Summary{
		Started:      started,
		Ended:        ended,
		DurationSecs: uint64(duration.Seconds()),
		Targets:      summaries,
	}
}

// WriteSummaryFile writes the summary as gzipped pretty JSON, 0600.
func WriteSummaryFile(path string, summary Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return fmt.Errorf("write summary: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finish summary: %w", err)
	}
	return nil
}

// LoadSummary reads a previously saved gzipped summary document.
func LoadSummary(path string) (Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open summary: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return Summary{}, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	var summary Summary
	if err := json.NewDecoder(gz).Decode(&summary); err != nil {
		return Summary{}, fmt.Errorf("parse summary: %w", err)
	}
	return summary, nil
}

func optionalMillis(d time.Duration, ok bool) *float64 {
	if !ok {
		return nil
	}
	ms := float64(d) / float64(time.Millisecond)
	return &ms
}
