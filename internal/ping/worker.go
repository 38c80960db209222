package ping

import (
	"fmt"
	"math/rand/v2"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/doridoridoriand/pingtop/internal/target"
)

const (
	// probeTimeout is the per-attempt reply deadline.
	probeTimeout = 4 * time.Second
	// clientRetryBackoff is the wait after a failed session creation.
	clientRetryBackoff = 1 * time.Second
	// maxConsecutiveErrors triggers a session rebuild.
	maxConsecutiveErrors = 3
)

// prober abstracts the ICMP session for tests.
type prober interface {
	Probe(addr net.IP, id, seq int, timeout time.Duration) Outcome
	Close()
}

// Worker probes a single target on a fixed interval and pushes one outcome
// per attempt into the fan-in queue. It exits only when a push fails because
// the queue has been closed.
type Worker struct {
	idx      int
	target   target.Target
	interval time.Duration
	queue    *Queue
	log      *zap.Logger

	newClient func(net.IP) (prober, error)
	sleep     func(time.Duration)
}

// NewWorker builds a worker for the target at the given index.
func NewWorker(idx int, tgt target.Target, interval time.Duration, queue *Queue, log *zap.Logger) *Worker {
	return &Worker{
		idx:      idx,
		target:   tgt,
		interval: interval,
		queue:    queue,
		log:      log,
		newClient: newSession,
		sleep: time.Sleep,
	}
}

// Spawn starts the worker in its own goroutine.
func (w *Worker) Spawn() {
	go w.Run()
}

// Run executes the probe loop. The first probe fires immediately; after
// each cycle any tick that fired while the cycle overran the interval is
// dropped before blocking for the next one, so a slow probe skips missed
// attempts instead of bursting to catch up.
func (w *Worker) Run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var client prober
	var seq uint16
	consecutiveErrors := 0

	defer func() {
		if client != nil {
			client.Close()
		}
	}()

	for {
		if client == nil {
			c, err := w.newClient(w.target.Addr)
			if err != nil {
				w.log.Warn("icmp session creation failed",
					zap.String("target", w.target.Name),
					zap.Error(err))
				if !w.queue.Push(Update{
					TargetIdx: w.idx,
					Outcome:   Failure(fmt.Sprintf("client error: %v", err)),
				}) {
					return
				}
				w.sleep(clientRetryBackoff)
			} else {
				client = c
				consecutiveErrors = 0
			}
		}

		if client != nil {
			id := rand.IntN(1 << 16)
			outcome := client.Probe(w.target.Addr, id, int(seq), probeTimeout)

			switch outcome.Kind {
			case OutcomeSuccess, OutcomeTimeout:
				consecutiveErrors = 0
			case OutcomeError:
				consecutiveErrors++
				if isNetworkError(outcome.Reason) && consecutiveErrors >= maxConsecutiveErrors {
					w.log.Warn("rebuilding icmp session after repeated network errors",
						zap.String("target", w.target.Name),
						zap.Int("consecutive_errors", consecutiveErrors))
					client.Close()
					client = nil
				}
			}

			if !w.queue.Push(Update{TargetIdx: w.idx, Outcome: outcome}) {
				return
			}

			seq++ // wraps at 16 bits
		}

		// A tick buffered while the cycle ran would fire back-to-back with
		// the previous probe; discard it so the wait below is a full tick.
		select {
		case <-ticker.C:
		default:
		}
		<-ticker.C
	}
}

// isNetworkError reports whether the message indicates a stale socket that
// warrants rebuilding the session.
func isNetworkError(reason string) bool {
	msg := strings.ToLower(reason)
	return strings.Contains(msg, "unreachable") ||
		strings.Contains(msg, "no route to host") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "bad file descriptor") ||
		strings.Contains(msg, "socket")
}
