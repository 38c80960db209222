package app

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/doridoridoriand/pingtop/internal/ping"
	"github.com/doridoridoriand/pingtop/internal/session"
	"github.com/doridoridoriand/pingtop/internal/target"
)

func newTestApp(t *testing.T, targetCount int) *App {
	t.Helper()
	recorder, err := session.NewRecorder(t.TempDir(), false, false)
	require.NoError(t, err)

	targets := make([]target.Target, targetCount)
	for i := range targets {
		targets[i] = target.Target{
			Name: string(rune('a' + i)),
			Addr: net.IPv4(192, 0, 2, byte(i+1)),
		}
	}

	a := New(targets, time.Hour, recorder, zap.NewNop())
	// These tests drive the queue directly. Closing the workers' queue and
	// swapping in a fresh one keeps their real probe outcomes out of the
	// assertions; each worker exits on its next push.
	a.Close()
	a.queue = ping.NewQueue()
	t.Cleanup(a.Close)
	return a
}

func TestProcessUpdatesFoldsOutcomes(t *testing.T) {
	a := newTestApp(t, 2)

	a.queue.Push(ping.Update{TargetIdx: 0, Outcome: ping.Success(5 * time.Millisecond)})
	a.queue.Push(ping.Update{TargetIdx: 1, Outcome: ping.Timeout()})
	a.queue.Push(ping.Update{TargetIdx: 0, Outcome: ping.Success(7 * time.Millisecond)})
	a.ProcessUpdates()

	require.Equal(t, uint64(2), a.Stats[0].Sent())
	require.Equal(t, uint64(2), a.Stats[0].Received())
	require.Equal(t, uint64(1), a.Stats[1].Sent())
	require.Equal(t, uint64(0), a.Stats[1].Received())

	cur, ok := a.Stats[0].Current()
	require.True(t, ok)
	require.Equal(t, 7*time.Millisecond, cur)
}

func TestProcessUpdatesIgnoresOutOfRangeIndex(t *testing.T) {
	a := newTestApp(t, 1)

	a.queue.Push(ping.Update{TargetIdx: -1, Outcome: ping.Timeout()})
	a.queue.Push(ping.Update{TargetIdx: 5, Outcome: ping.Timeout()})
	a.ProcessUpdates()

	require.Equal(t, uint64(0), a.Stats[0].Sent())
}

func TestSelectionBounds(t *testing.T) {
	a := newTestApp(t, 3)

	a.SelectPrevious()
	require.Equal(t, 0, a.Selected)

	a.SelectNext()
	a.SelectNext()
	a.SelectNext()
	a.SelectNext()
	require.Equal(t, 2, a.Selected)

	tgt, st, ok := a.SelectedTarget()
	require.True(t, ok)
	require.Equal(t, a.Targets[2], tgt)
	require.Same(t, a.Stats[2], st)
}

func TestViewModeTransitions(t *testing.T) {
	a := newTestApp(t, 1)
	require.Equal(t, ViewList, a.ViewMode)

	a.ShowDetail()
	require.Equal(t, ViewDetail, a.ViewMode)

	a.ShowList()
	require.Equal(t, ViewList, a.ViewMode)
}

func TestResetStatsClearsAllTargets(t *testing.T) {
	a := newTestApp(t, 2)

	a.queue.Push(ping.Update{TargetIdx: 0, Outcome: ping.Success(time.Millisecond)})
	a.queue.Push(ping.Update{TargetIdx: 1, Outcome: ping.Success(time.Millisecond)})
	a.ProcessUpdates()

	a.ResetStats()
	require.Equal(t, uint64(0), a.Stats[0].Sent())
	require.Equal(t, uint64(0), a.Stats[1].Sent())
}

func TestQuit(t *testing.T) {
	a := newTestApp(t, 1)
	require.False(t, a.ShouldQuit)
	a.Quit()
	require.True(t, a.ShouldQuit)
}
