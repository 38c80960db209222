package stats

import (
	"math"
	"time"

	"github.com/influxdata/tdigest"
)

const (
	// digestBufferSize is the insertion batch merged into the sketch at once.
	digestBufferSize = 10
	// digestCompression bounds the centroid count of the sketch.
	digestCompression = 100
)

// AllTime aggregates the full session history for one target: exact
// min/max/sum/count plus a t-digest sketch for approximate percentiles in
// bounded memory. Samples are buffered and merged into the sketch in batches,
// keeping inserts O(1) amortized.
//
// AllTime is owned by the single consumer goroutine; percentile queries
// flush the pending buffer, which is a mutation, so it must never be shared
// across goroutines.
type AllTime struct {
	min    time.Duration
	max    time.Duration
	sum    time.Duration
	count  uint64
	digest *tdigest.TDigest
	buffer []float64
}

func newAllTime() AllTime {
	return AllTime{
		digest: tdigest.NewWithCompression(digestCompression),
		buffer: make([]float64, 0, digestBufferSize),
	}
}

// record folds one successful latency into the aggregate.
func (a *AllTime) record(d time.Duration) {
	if a.count == 0 || d < a.min {
		a.min = d
	}
	if a.count == 0 || d > a.max {
		a.max = d
	}
	a.sum += d
	a.count++

	a.buffer = append(a.buffer, durationToMillis(d))
	if len(a.buffer) >= digestBufferSize {
		a.flush()
	}
}

// flush merges buffered samples into the sketch.
func (a *AllTime) flush() {
	for _, ms := range a.buffer {
		a.digest.Add(ms, 1)
	}
	a.buffer = a.buffer[:0]
}

// Count returns the number of recorded samples.
func (a *AllTime) Count() uint64 {
	return a.count
}

// Min returns the smallest recorded latency.
func (a *AllTime) Min() (time.Duration, bool) {
	if a.count == 0 {
		return 0, false
	}
	return a.min, true
}

// Max returns the largest recorded latency.
func (a *AllTime) Max() (time.Duration, bool) {
	if a.count == 0 {
		return 0, false
	}
	return a.max, true
}

// Average returns the exact mean latency.
func (a *AllTime) Average() (time.Duration, bool) {
	if a.count == 0 {
		return 0, false
	}
	return a.sum / time.Duration(a.count), true
}

// Percentile estimates the p-quantile (p in [0,1]) from the sketch. The
// pending buffer is flushed first so recent samples are included.
func (a *AllTime) Percentile(p float64) (time.Duration, bool) {
	if a.count == 0 {
		return 0, false
	}
	a.flush()
	ms := a.digest.Quantile(p)
	if math.IsNaN(ms) || ms <= 0 {
		return 0, false
	}
	return millisToDuration(ms), true
}

// P50 returns the estimated median latency.
func (a *AllTime) P50() (time.Duration, bool) {
	return a.Percentile(0.5)
}

// P95 returns the estimated 95th percentile latency.
func (a *AllTime) P95() (time.Duration, bool) {
	return a.Percentile(0.95)
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func millisToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
