package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/doridoridoriand/pingtop/internal/session"
)

func event(name, addr string, latencyUS int64) session.Event {
	e := session.Event{
		Timestamp:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		TargetName: name,
		TargetAddr: addr,
	}
	if latencyUS >= 0 {
		e.LatencyUS = &latencyUS
	}
	return e
}

func TestBuildTargetsFirstSeenOrder(t *testing.T) {
	events := []session.Event{
		event("cloudflare", "1.1.1.1", 1000),
		event("google", "8.8.8.8", 2000),
		event("cloudflare", "1.1.1.1", 1500),
		event("quad9", "9.9.9.9", -1),
		event("google", "8.8.8.8", 2500),
	}

	targets, statsList := BuildTargets(events)
	require.Len(t, targets, 3)
	require.Len(t, statsList, 3)
	require.Equal(t, "cloudflare", targets[0].Name)
	require.Equal(t, "google", targets[1].Name)
	require.Equal(t, "quad9", targets[2].Name)

	// Statistics start empty.
	for _, st := range statsList {
		require.Equal(t, uint64(0), st.Sent())
	}
}

func TestBuildTargetsDropsUnparsableAddresses(t *testing.T) {
	events := []session.Event{
		event("good", "192.0.2.1", 1000),
		event("bad", "not-an-ip", 1000),
	}

	targets, _ := BuildTargets(events)
	require.Len(t, targets, 1)
	require.Equal(t, "good", targets[0].Name)
}

func TestBuildTargetsDistinguishesRenames(t *testing.T) {
	events := []session.Event{
		event("old-name", "192.0.2.1", 1000),
		event("new-name", "192.0.2.1", 1000),
	}

	// Same address under two names yields two entries.
	targets, _ := BuildTargets(events)
	require.Len(t, targets, 2)
}

func TestApplyRecordsByAddress(t *testing.T) {
	events := []session.Event{
		event("a", "192.0.2.1", 5000),
		event("b", "192.0.2.2", -1),
	}
	targets, statsList := BuildTargets(events)

	Apply(events[0], targets, statsList)
	Apply(events[1], targets, statsList)

	require.Equal(t, uint64(1), statsList[0].Sent())
	require.Equal(t, uint64(1), statsList[0].Received())
	cur, ok := statsList[0].Current()
	require.True(t, ok)
	require.Equal(t, 5*time.Millisecond, cur)

	require.Equal(t, uint64(1), statsList[1].Sent())
	require.Equal(t, uint64(0), statsList[1].Received())
}

func TestApplyIgnoresUnknownAddress(t *testing.T) {
	known := []session.Event{event("a", "192.0.2.1", 1000)}
	targets, statsList := BuildTargets(known)

	Apply(event("ghost", "203.0.113.9", 1000), targets, statsList)
	require.Equal(t, uint64(0), statsList[0].Sent())
}

func TestApplyMergesSharedAddressIntoFirstMatch(t *testing.T) {
	events := []session.Event{
		event("old-name", "192.0.2.1", 1000),
		event("new-name", "192.0.2.1", 2000),
	}
	targets, statsList := BuildTargets(events)
	require.Len(t, targets, 2)

	Apply(events[0], targets, statsList)
	Apply(events[1], targets, statsList)

	// Address matching folds both into the first target.
	require.Equal(t, uint64(2), statsList[0].Sent())
	require.Equal(t, uint64(0), statsList[1].Sent())
}
