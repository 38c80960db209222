package replay

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/doridoridoriand/pingtop/internal/session"
)

const (
	minSpeed = 0.1
	maxSpeed = 100.0
)

// ErrEmptyLog is returned when a log contains no events.
var ErrEmptyLog = errors.New("event log is empty")

// State plays back a recorded event stream against a virtual clock.
// Entirely single-threaded: Poll and the control methods are called
// synchronously from the render loop.
type State struct {
	events []session.Event
	cursor int

	// Virtual clock anchor: wallAnchor is the wall-clock instant of the
	// last control action, recordedAnchor the recorded timestamp the
	// playback sat at then. Re-anchoring on every control action keeps
	// pause/seek/speed changes from corrupting the mapping.
	wallAnchor     time.Time
	recordedAnchor time.Time

	speed    float64
	Paused   bool
	Finished bool

	now func() time.Time
}

// Load reads an event log and prepares playback at the given speed.
func Load(path string, speed float64, log *zap.Logger) (*State, error) {
	events, err := session.LoadEvents(path, log)
	if err != nil {
		return nil, err
	}
	return New(events, speed)
}

// New prepares playback over an already-loaded, chronologically ordered
// event list. An empty list is a hard failure.
func New(events []session.Event, speed float64) (*State, error) {
	if len(events) == 0 {
		return nil, ErrEmptyLog
	}
	s := &State{
		events: events,
		speed:  clampSpeed(speed),
		now:    time.Now,
	}
	s.anchor()
	return s, nil
}

// Poll advances the virtual clock and returns, in original order, all
// events whose recorded timestamp is due. Marks playback finished once the
// log is exhausted.
func (s *State) Poll() []session.Event {
	if s.Paused || s.Finished {
		return nil
	}

	elapsed := s.now().Sub(s.wallAnchor)
	scaled := time.Duration(float64(elapsed) * s.speed)
	virtualNow := s.recordedAnchor.Add(scaled)

	start := s.cursor
	for s.cursor < len(s.events) && !s.events[s.cursor].Timestamp.After(virtualNow) {
		s.cursor++
	}
	if s.cursor >= len(s.events) {
		s.Finished = true
	}
	if s.cursor == start {
		return nil
	}
	return s.events[start:s.cursor]
}

// TogglePause flips the pause flag, re-anchoring on resume so time spent
// paused does not fast-forward the playback.
func (s *State) TogglePause() {
	s.Paused = !s.Paused
	if !s.Paused {
		s.anchor()
	}
}

// SkipForward moves the cursor ahead by count events.
func (s *State) SkipForward(count int) {
	s.cursor += count
	if s.cursor > len(s.events)-1 {
		s.cursor = len(s.events) - 1
	}
	s.anchor()
}

// SkipBackward moves the cursor back by count events and clears finished.
func (s *State) SkipBackward(count int) {
	s.cursor -= count
	if s.cursor < 0 {
		s.cursor = 0
	}
	s.Finished = false
	s.anchor()
}

// SpeedUp doubles the playback speed, capped at 100x.
func (s *State) SpeedUp() {
	s.speed = clampSpeed(s.speed * 2)
	s.anchor()
}

// SlowDown halves the playback speed, floored at 0.1x.
func (s *State) SlowDown() {
	s.speed = clampSpeed(s.speed / 2)
	s.anchor()
}

// Speed returns the current speed multiplier.
func (s *State) Speed() float64 {
	return s.speed
}

// TotalEvents returns the number of loaded events.
func (s *State) TotalEvents() int {
	return len(s.events)
}

// Events exposes the loaded event list for target reconstruction.
func (s *State) Events() []session.Event {
	return s.events
}

// CurrentEvent returns the cursor position.
func (s *State) CurrentEvent() int {
	return s.cursor
}

// Progress returns playback progress as a percentage.
func (s *State) Progress() float64 {
	if len(s.events) == 0 {
		return 100
	}
	return float64(s.cursor) / float64(len(s.events)) * 100
}

// CurrentLogTime returns the recorded timestamp at the cursor.
func (s *State) CurrentLogTime() (time.Time, bool) {
	if s.cursor >= len(s.events) {
		return time.Time{}, false
	}
	return s.events[s.cursor].Timestamp, true
}

// LogDuration returns the recorded span of the whole log.
func (s *State) LogDuration() time.Duration {
	if len(s.events) == 0 {
		return 0
	}
	return s.events[len(s.events)-1].Timestamp.Sub(s.events[0].Timestamp)
}

// anchor pins the virtual clock to (now, timestamp at cursor).
func (s *State) anchor() {
	s.wallAnchor = s.now()
	idx := s.cursor
	if idx > len(s.events)-1 {
		idx = len(s.events) - 1
	}
	s.recordedAnchor = s.events[idx].Timestamp
}

func clampSpeed(speed float64) float64 {
	if speed < minSpeed {
		return minSpeed
	}
	if speed > maxSpeed {
		return maxSpeed
	}
	return speed
}
