package stats

import (
	"sort"
	"time"

	"github.com/doridoridoriand/pingtop/internal/ping"
)

// MaxHistory is the window size: metrics over the window are exact functions
// of the most recent MaxHistory outcomes.
const MaxHistory = 300

// TargetStats tracks latency and quality statistics for a single target.
// It is a pure data structure: no I/O, no locking. Exactly one goroutine
// (the live coordinator or the replay loop) may mutate it.
type TargetStats struct {
	history []ping.Outcome
	sent    uint64
	received uint64
	allTime AllTime
	startedAt time.Time

	currentStreak uint64
	longestStreak uint64
	lastLossAt    time.Time

	// Jitter state. The previous-latency reference is cleared on any loss
	// so no difference is accumulated across a loss.
	hasPrev     bool
	prevLatency time.Duration
	jitterSum   time.Duration
	jitterCount uint64
}

// New returns empty statistics.
func New() *TargetStats {
	return &TargetStats{
		history:   make([]ping.Outcome, 0, MaxHistory),
		allTime:   newAllTime(),
		startedAt: time.Now(),
	}
}

// Record folds one probe outcome into the statistics. O(1) amortized.
func (s *TargetStats) Record(outcome ping.Outcome) {
	s.sent++

	switch outcome.Kind {
	case ping.OutcomeSuccess:
		d := outcome.Latency
		s.received++
		s.allTime.record(d)

		s.currentStreak++
		if s.currentStreak > s.longestStreak {
			s.longestStreak = s.currentStreak
		}

		if s.hasPrev {
			diff := d - s.prevLatency
			if diff < 0 {
				diff = -diff
			}
			s.jitterSum += diff
			s.jitterCount++
		}
		s.hasPrev = true
		s.prevLatency = d

	case ping.OutcomeTimeout, ping.OutcomeError:
		s.currentStreak = 0
		s.lastLossAt = time.Now()
		s.hasPrev = false
	}

	if len(s.history) >= MaxHistory {
		copy(s.history, s.history[1:])
		s.history = s.history[:len(s.history)-1]
	}
	s.history = append(s.history, outcome)
}

// Reset discards everything, the all-time digest included.
func (s *TargetStats) Reset() {
	*s = *New()
}

// Sent returns the lifetime probe count.
func (s *TargetStats) Sent() uint64 {
	return s.sent
}

// Received returns the lifetime success count. Invariant: Sent >= Received.
func (s *TargetStats) Received() uint64 {
	return s.received
}

// CurrentStreak returns the running count of consecutive successes.
func (s *TargetStats) CurrentStreak() uint64 {
	return s.currentStreak
}

// LongestStreak returns the best streak seen so far.
func (s *TargetStats) LongestStreak() uint64 {
	return s.longestStreak
}

// AllTime exposes the full-session aggregate.
func (s *TargetStats) AllTime() *AllTime {
	return &s.allTime
}

// Elapsed returns how long statistics have been tracked.
func (s *TargetStats) Elapsed() time.Duration {
	return time.Since(s.startedAt)
}

// Jitter returns the mean absolute difference between consecutive
// successful latencies.
func (s *TargetStats) Jitter() (time.Duration, bool) {
	if s.jitterCount == 0 {
		return 0, false
	}
	return s.jitterSum / time.Duration(s.jitterCount), true
}

// TimeSinceLastLoss returns how long ago the last non-success was recorded.
func (s *TargetStats) TimeSinceLastLoss() (time.Duration, bool) {
	if s.lastLossAt.IsZero() {
		return 0, false
	}
	return time.Since(s.lastLossAt), true
}

// PacketLoss returns the all-time loss percentage.
func (s *TargetStats) PacketLoss() float64 {
	if s.sent == 0 {
		return 0
	}
	return float64(s.sent-s.received) / float64(s.sent) * 100
}

// WindowPacketLoss returns lost count and loss percentage over the window.
func (s *TargetStats) WindowPacketLoss() (uint64, float64) {
	if len(s.history) == 0 {
		return 0, 0
	}
	total := uint64(len(s.history))
	var ok uint64
	for _, o := range s.history {
		if o.Kind == ping.OutcomeSuccess {
			ok++
		}
	}
	lost := total - ok
	return lost, float64(lost) / float64(total) * 100
}

// AllTimePacketLoss returns lost count and loss percentage over the session.
func (s *TargetStats) AllTimePacketLoss() (uint64, float64) {
	return s.sent - s.received, s.PacketLoss()
}

// Current returns the most recent latency if the latest outcome succeeded.
func (s *TargetStats) Current() (time.Duration, bool) {
	if len(s.history) == 0 {
		return 0, false
	}
	last := s.history[len(s.history)-1]
	if last.Kind != ping.OutcomeSuccess {
		return 0, false
	}
	return last.Latency, true
}

// WindowCount returns the number of outcomes in the window.
func (s *TargetStats) WindowCount() int {
	return len(s.history)
}

// successfulLatencies filters the window down to successful samples.
func (s *TargetStats) successfulLatencies() []time.Duration {
	latencies := make([]time.Duration, 0, len(s.history))
	for _, o := range s.history {
		if o.Kind == ping.OutcomeSuccess {
			latencies = append(latencies, o.Latency)
		}
	}
	return latencies
}

// Average returns the exact mean over the window's successful samples.
func (s *TargetStats) Average() (time.Duration, bool) {
	latencies := s.successfulLatencies()
	if len(latencies) == 0 {
		return 0, false
	}
	var sum time.Duration
	for _, d := range latencies {
		sum += d
	}
	return sum / time.Duration(len(latencies)), true
}

// Min returns the smallest successful latency in the window.
func (s *TargetStats) Min() (time.Duration, bool) {
	latencies := s.successfulLatencies()
	if len(latencies) == 0 {
		return 0, false
	}
	min := latencies[0]
	for _, d := range latencies[1:] {
		if d < min {
			min = d
		}
	}
	return min, true
}

// Max returns the largest successful latency in the window.
func (s *TargetStats) Max() (time.Duration, bool) {
	latencies := s.successfulLatencies()
	if len(latencies) == 0 {
		return 0, false
	}
	max := latencies[0]
	for _, d := range latencies[1:] {
		if d > max {
			max = d
		}
	}
	return max, true
}

// Percentile computes the exact p-th percentile (p in [0,100]) over the
// window's successful samples: index = round(p/100 * (n-1)) after sorting.
func (s *TargetStats) Percentile(p float64) (time.Duration, bool) {
	latencies := s.successfulLatencies()
	if len(latencies) == 0 {
		return 0, false
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	idx := int(p/100*float64(len(latencies)-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(latencies) {
		idx = len(latencies) - 1
	}
	return latencies[idx], true
}

// P50 returns the exact window median.
func (s *TargetStats) P50() (time.Duration, bool) {
	return s.Percentile(50)
}

// P95 returns the exact window 95th percentile.
func (s *TargetStats) P95() (time.Duration, bool) {
	return s.Percentile(95)
}

// P99 returns the exact window 99th percentile.
func (s *TargetStats) P99() (time.Duration, bool) {
	return s.Percentile(99)
}

// Histogram partitions the window's successful latencies into buckets equal
// widths apart spanning [min, max]. Returns the bucket lower boundaries in
// milliseconds and the per-bucket counts. When all samples are within
// 0.001ms of each other it collapses to a single bucket.
func (s *TargetStats) Histogram(buckets int) ([]float64, []uint64, bool) {
	if buckets <= 0 {
		return nil, nil, false
	}
	latencies := s.successfulLatencies()
	if len(latencies) == 0 {
		return nil, nil, false
	}

	min := durationToMillis(latencies[0])
	max := min
	values := make([]float64, len(latencies))
	for i, d := range latencies {
		ms := durationToMillis(d)
		values[i] = ms
		if ms < min {
			min = ms
		}
		if ms > max {
			max = ms
		}
	}

	if max-min < 0.001 {
		return []float64{min}, []uint64{uint64(len(values))}, true
	}

	width := (max - min) / float64(buckets)
	boundaries := make([]float64, buckets)
	counts := make([]uint64, buckets)
	for i := range boundaries {
		boundaries[i] = min + width*float64(i)
	}
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= buckets {
			idx = buckets - 1
		}
		counts[idx]++
	}
	return boundaries, counts, true
}

// SparklineData returns the window as microsecond values, zero for losses.
func (s *TargetStats) SparklineData() []uint64 {
	data := make([]uint64, len(s.history))
	for i, o := range s.history {
		if o.Kind == ping.OutcomeSuccess {
			data[i] = uint64(o.Latency.Microseconds())
		}
	}
	return data
}
