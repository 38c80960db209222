package ping

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/doridoridoriand/pingtop/internal/target"
)

type fakeProber struct {
	mu       sync.Mutex
	outcomes []Outcome
	calls    int
	closed   bool
}

func (f *fakeProber) Probe(addr net.IP, id, seq int, timeout time.Duration) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	outcome := f.outcomes[f.calls%len(f.outcomes)]
	f.calls++
	return outcome
}

func (f *fakeProber) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func testTarget() target.Target {
	return target.Target{Name: "test", Addr: net.ParseIP("192.0.2.1")}
}

func startWorker(w *Worker) chan struct{} {
	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()
	return done
}

func waitUpdates(t *testing.T, q *Queue, n int) []Update {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var all []Update
	for time.Now().Before(deadline) {
		all = append(all, q.Drain()...)
		if len(all) >= n {
			return all
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d updates, got %d", n, len(all))
	return nil
}

func TestWorkerPushesOneOutcomePerTick(t *testing.T) {
	q := NewQueue()
	fake := &fakeProber{outcomes: []Outcome{Success(5 * time.Millisecond), Timeout()}}

	w := NewWorker(3, testTarget(), time.Millisecond, q, zap.NewNop())
	w.newClient = func(net.IP) (prober, error) { return fake, nil }

	done := startWorker(w)
	updates := waitUpdates(t, q, 4)
	q.Close()
	<-done

	for _, u := range updates {
		if u.TargetIdx != 3 {
			t.Fatalf("expected target index 3, got %d", u.TargetIdx)
		}
	}
	if updates[0].Outcome.Kind != OutcomeSuccess || updates[1].Outcome.Kind != OutcomeTimeout {
		t.Fatalf("expected alternating success/timeout, got %v then %v", updates[0].Outcome.Kind, updates[1].Outcome.Kind)
	}
}

func TestWorkerRebuildsSessionAfterRepeatedNetworkErrors(t *testing.T) {
	q := NewQueue()

	var mu sync.Mutex
	clients := 0
	fake := &fakeProber{outcomes: []Outcome{Failure("sendto: network is unreachable")}}

	w := NewWorker(0, testTarget(), time.Millisecond, q, zap.NewNop())
	w.newClient = func(net.IP) (prober, error) {
		mu.Lock()
		clients++
		mu.Unlock()
		return fake, nil
	}

	done := startWorker(w)
	waitUpdates(t, q, 7)
	q.Close()
	<-done

	mu.Lock()
	defer mu.Unlock()
	// Three consecutive network errors force a rebuild, so seven attempts
	// need at least a second session.
	if clients < 2 {
		t.Fatalf("expected session rebuild, got %d client creations", clients)
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if !fake.closed {
		t.Fatalf("expected stale session to be closed")
	}
}

func TestWorkerDoesNotRebuildOnNonNetworkErrors(t *testing.T) {
	q := NewQueue()

	var mu sync.Mutex
	clients := 0
	fake := &fakeProber{outcomes: []Outcome{Failure("message too long")}}

	w := NewWorker(0, testTarget(), time.Millisecond, q, zap.NewNop())
	w.newClient = func(net.IP) (prober, error) {
		mu.Lock()
		clients++
		mu.Unlock()
		return fake, nil
	}

	done := startWorker(w)
	waitUpdates(t, q, 10)
	q.Close()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if clients != 1 {
		t.Fatalf("expected a single session, got %d", clients)
	}
}

func TestWorkerReportsClientCreationFailure(t *testing.T) {
	q := NewQueue()

	var mu sync.Mutex
	var slept []time.Duration

	w := NewWorker(0, testTarget(), time.Millisecond, q, zap.NewNop())
	w.newClient = func(net.IP) (prober, error) {
		return nil, errors.New("operation not permitted")
	}
	w.sleep = func(d time.Duration) {
		mu.Lock()
		slept = append(slept, d)
		mu.Unlock()
	}

	done := startWorker(w)
	updates := waitUpdates(t, q, 2)
	q.Close()
	<-done

	for _, u := range updates {
		if u.Outcome.Kind != OutcomeError {
			t.Fatalf("expected error outcome, got %v", u.Outcome.Kind)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(slept) == 0 {
		t.Fatalf("expected backoff sleep after creation failure")
	}
	if slept[0] != clientRetryBackoff {
		t.Fatalf("expected %v backoff, got %v", clientRetryBackoff, slept[0])
	}
}

func TestWorkerExitsWhenQueueClosed(t *testing.T) {
	q := NewQueue()
	fake := &fakeProber{outcomes: []Outcome{Success(time.Millisecond)}}

	w := NewWorker(0, testTarget(), time.Millisecond, q, zap.NewNop())
	w.newClient = func(net.IP) (prober, error) { return fake, nil }

	done := startWorker(w)
	waitUpdates(t, q, 1)
	q.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("worker did not exit after queue close")
	}
}

type timingProber struct {
	mu     sync.Mutex
	delay  time.Duration
	starts []time.Time
}

func (p *timingProber) Probe(addr net.IP, id, seq int, timeout time.Duration) Outcome {
	p.mu.Lock()
	p.starts = append(p.starts, time.Now())
	p.mu.Unlock()
	time.Sleep(p.delay)
	return Success(time.Millisecond)
}

func (p *timingProber) Close() {}

func TestWorkerFirstProbeFiresImmediately(t *testing.T) {
	q := NewQueue()
	fake := &fakeProber{outcomes: []Outcome{Success(time.Millisecond)}}

	// With an hour-long interval only an immediate first probe can
	// produce an update within the wait window.
	w := NewWorker(0, testTarget(), time.Hour, q, zap.NewNop())
	w.newClient = func(net.IP) (prober, error) { return fake, nil }

	startWorker(w)
	updates := waitUpdates(t, q, 1)
	q.Close()

	if updates[0].Outcome.Kind != OutcomeSuccess {
		t.Fatalf("expected success outcome, got %v", updates[0].Outcome.Kind)
	}
}

func TestWorkerSkipsMissedTicksOnOverrun(t *testing.T) {
	q := NewQueue()
	interval := 100 * time.Millisecond
	fake := &timingProber{delay: 250 * time.Millisecond}

	w := NewWorker(0, testTarget(), interval, q, zap.NewNop())
	w.newClient = func(net.IP) (prober, error) { return fake, nil }

	done := startWorker(w)
	waitUpdates(t, q, 3)
	q.Close()
	<-done

	fake.mu.Lock()
	starts := append([]time.Time(nil), fake.starts...)
	fake.mu.Unlock()

	// Each 250ms cycle overruns two 100ms ticks. With those ticks skipped
	// the next probe waits for a fresh tick (~300ms spacing); a queued tick
	// would fire the next probe back-to-back at ~250ms.
	for i := 1; i < 3; i++ {
		gap := starts[i].Sub(starts[i-1])
		if gap < fake.delay+interval/4 {
			t.Fatalf("probe %d started %v after the previous one; missed tick was queued", i, gap)
		}
	}
}

func TestIsNetworkError(t *testing.T) {
	cases := []struct {
		reason string
		want   bool
	}{
		{"sendto: Network is unreachable", true},
		{"write: no route to host", true},
		{"invalid argument", true},
		{"read: bad file descriptor", true},
		{"raw socket closed", true},
		{"message too long", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isNetworkError(tc.reason); got != tc.want {
			t.Fatalf("isNetworkError(%q) = %v, want %v", tc.reason, got, tc.want)
		}
	}
}
