package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/doridoridoriand/pingtop/internal/ping"
	"github.com/doridoridoriand/pingtop/internal/session"
	"github.com/doridoridoriand/pingtop/internal/stats"
	"github.com/doridoridoriand/pingtop/internal/target"
)

// ViewMode selects what the renderer shows.
type ViewMode int

const (
	// ViewList is the main table of all targets.
	ViewList ViewMode = iota
	// ViewDetail focuses a single target.
	ViewDetail
)

// App is the live-mode coordinator: it owns the per-target statistics and
// is the single consumer of the probe worker fan-in queue. All mutation of
// the statistics happens on the goroutine driving ProcessUpdates.
type App struct {
	Targets []target.Target
	Stats   []*stats.TargetStats

	Selected   int
	ShouldQuit bool
	ViewMode   ViewMode

	Recorder  *session.Recorder
	StartedAt time.Time

	queue *ping.Queue
	log   *zap.Logger
}

// New builds the coordinator and spawns one probe worker per target.
func New(targets []target.Target, interval time.Duration, recorder *session.Recorder, log *zap.Logger) *App {
	queue := ping.NewQueue()
	statsList := make([]*stats.TargetStats, len(targets))
	for i := range targets {
		statsList[i] = stats.New()
	}

	for i, tgt := range targets {
		ping.NewWorker(i, tgt, interval, queue, log).Spawn()
	}

	return &App{
		Targets:   targets,
		Stats:     statsList,
		ViewMode:  ViewList,
		Recorder:  recorder,
		StartedAt: recorder.Started,
		queue:     queue,
		log:       log,
	}
}

// ProcessUpdates drains everything the workers have queued so far, folds
// each outcome into the owning target's statistics (appending to the raw
// event log on the way through), and triggers the periodic summary.
func (a *App) ProcessUpdates() {
	for _, update := range a.queue.Drain() {
		if update.TargetIdx < 0 || update.TargetIdx >= len(a.Stats) {
			continue
		}
		tgt := a.Targets[update.TargetIdx]
		if err := a.Recorder.LogOutcome(update.TargetIdx, tgt, update.Outcome); err != nil {
			a.log.Warn("event log write failed", zap.Error(err))
		}
		a.Stats[update.TargetIdx].Record(update.Outcome)
	}

	if _, err := a.Recorder.MaybeWriteSummary(a.Targets, a.Stats); err != nil {
		a.log.Warn("summary write failed", zap.Error(err))
	}
}

// SessionElapsed returns wall time since the session started.
func (a *App) SessionElapsed() time.Duration {
	return time.Since(a.StartedAt)
}

// SelectPrevious moves the selection up.
func (a *App) SelectPrevious() {
	if a.Selected > 0 {
		a.Selected--
	}
}

// SelectNext moves the selection down.
func (a *App) SelectNext() {
	if a.Selected < len(a.Targets)-1 {
		a.Selected++
	}
}

// Quit marks the app for shutdown.
func (a *App) Quit() {
	a.ShouldQuit = true
}

// ResetStats clears all statistics for all targets.
func (a *App) ResetStats() {
	for _, st := range a.Stats {
		st.Reset()
	}
}

// ShowDetail switches to the detail view of the selected target.
func (a *App) ShowDetail() {
	if len(a.Targets) > 0 {
		a.ViewMode = ViewDetail
	}
}

// ShowList returns to the list view.
func (a *App) ShowList() {
	a.ViewMode = ViewList
}

// SelectedTarget returns the selected target and its statistics.
func (a *App) SelectedTarget() (target.Target, *stats.TargetStats, bool) {
	if a.Selected >= len(a.Targets) {
		return target.Target{}, nil, false
	}
	return a.Targets[a.Selected], a.Stats[a.Selected], true
}

// Close shuts the fan-in queue; each worker exits on its next push.
func (a *App) Close() {
	a.queue.Close()
}
