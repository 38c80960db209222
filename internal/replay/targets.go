package replay

import (
	"net"

	"github.com/doridoridoriand/pingtop/internal/ping"
	"github.com/doridoridoriand/pingtop/internal/session"
	"github.com/doridoridoriand/pingtop/internal/stats"
	"github.com/doridoridoriand/pingtop/internal/target"
)

// BuildTargets derives the target set from the first occurrence of each
// distinct (name, address) pair, preserving first-seen order, with fresh
// statistics per target. Events whose address fails to parse are dropped.
func BuildTargets(events []session.Event) ([]target.Target, []*stats.TargetStats) {
	type key struct{ name, addr string }
	seen := make(map[key]struct{})

	var targets []target.Target
	var statsList []*stats.TargetStats

	for _, event := range events {
		k := key{name: event.TargetName, addr: event.TargetAddr}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}

		ip := net.ParseIP(event.TargetAddr)
		if ip == nil {
			continue
		}
		targets = append(targets, target.New(event.TargetName, ip))
		statsList = append(statsList, stats.New())
	}

	return targets, statsList
}

// Apply folds one recorded event into the matching target's statistics.
// Matching is by address string, not recorded index: a log recorded with a
// different target ordering still replays, at the cost of merging two
// differently named targets that share one address.
func Apply(event session.Event, targets []target.Target, statsList []*stats.TargetStats) {
	for i, tgt := range targets {
		if tgt.Addr.String() != event.TargetAddr {
			continue
		}
		if latency, ok := event.Latency(); ok {
			statsList[i].Record(ping.Success(latency))
		} else {
			statsList[i].Record(ping.Timeout())
		}
		return
	}
}
