// Package ui renders the live and replay terminal views. It reads target
// statistics strictly through their accessor surface; all mutation happens
// on the loop goroutine via App.ProcessUpdates or replay.Apply.
package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/doridoridoriand/pingtop/internal/app"
	"github.com/doridoridoriand/pingtop/internal/replay"
	"github.com/doridoridoriand/pingtop/internal/stats"
	"github.com/doridoridoriand/pingtop/internal/target"
)

// uiTickRate drives both redraw and update draining.
const uiTickRate = 100 * time.Millisecond

// seekStep is how many events h/l jump during replay.
const seekStep = 100

func newScreen() (tcell.Screen, chan tcell.Event, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, nil, err
	}
	screen.HideCursor()

	eventCh := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(eventCh)
				return
			}
			eventCh <- ev
		}
	}()
	return screen, eventCh, nil
}

// RunLive drives the live session until the user quits.
func RunLive(a *app.App) error {
	screen, eventCh, err := newScreen()
	if err != nil {
		return err
	}
	defer screen.Fini()

	ticker := time.NewTicker(uiTickRate)
	defer ticker.Stop()

	for !a.ShouldQuit {
		select {
		case ev, ok := <-eventCh:
			if !ok {
				return nil
			}
			if _, isResize := ev.(*tcell.EventResize); isResize {
				screen.Sync()
			}
			handleLiveKey(a, ev)
		case <-ticker.C:
			a.ProcessUpdates()
			renderLive(screen, a)
		}
	}
	return nil
}

func renderLive(screen tcell.Screen, a *app.App) {
	if a.ViewMode == app.ViewDetail {
		if tgt, st, ok := a.SelectedTarget(); ok {
			renderDetail(screen, tgt, st)
			return
		}
	}
	header := fmt.Sprintf(" pingtop  %s  session %s",
		time.Now().Format("2006-01-02 15:04:05"),
		stats.FormatElapsed(a.SessionElapsed()))
	renderList(screen, a.Targets, a.Stats, a.Selected, header)
}

func handleLiveKey(a *app.App, ev tcell.Event) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return
	}

	if a.ViewMode == app.ViewDetail {
		switch {
		case key.Rune() == 'q' || key.Key() == tcell.KeyCtrlC:
			a.Quit()
		case key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyBackspace || key.Key() == tcell.KeyBackspace2:
			a.ShowList()
		case key.Key() == tcell.KeyUp || key.Rune() == 'k':
			a.SelectPrevious()
		case key.Key() == tcell.KeyDown || key.Rune() == 'j':
			a.SelectNext()
		case key.Rune() == 'r':
			a.ResetStats()
		}
		return
	}

	switch {
	case key.Rune() == 'q' || key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC:
		a.Quit()
	case key.Key() == tcell.KeyUp || key.Rune() == 'k':
		a.SelectPrevious()
	case key.Key() == tcell.KeyDown || key.Rune() == 'j':
		a.SelectNext()
	case key.Key() == tcell.KeyEnter:
		a.ShowDetail()
	case key.Rune() == 'r':
		a.ResetStats()
	}
}

// RunReplay plays a loaded log until the user quits.
func RunReplay(st *replay.State, targets []target.Target, statsList []*stats.TargetStats) error {
	screen, eventCh, err := newScreen()
	if err != nil {
		return err
	}
	defer screen.Fini()

	ticker := time.NewTicker(uiTickRate)
	defer ticker.Stop()

	selected := 0
	for {
		select {
		case ev, ok := <-eventCh:
			if !ok {
				return nil
			}
			if _, isResize := ev.(*tcell.EventResize); isResize {
				screen.Sync()
			}
			key, isKey := ev.(*tcell.EventKey)
			if !isKey {
				continue
			}
			switch {
			case key.Rune() == 'q' || key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC:
				return nil
			case key.Rune() == ' ':
				st.TogglePause()
			case key.Key() == tcell.KeyUp || key.Rune() == 'k':
				if selected > 0 {
					selected--
				}
			case key.Key() == tcell.KeyDown || key.Rune() == 'j':
				if selected < len(targets)-1 {
					selected++
				}
			case key.Key() == tcell.KeyRight || key.Rune() == 'l':
				st.SkipForward(seekStep)
			case key.Key() == tcell.KeyLeft || key.Rune() == 'h':
				st.SkipBackward(seekStep)
			case key.Rune() == '+' || key.Rune() == '=':
				st.SpeedUp()
			case key.Rune() == '-':
				st.SlowDown()
			case key.Rune() == 'r':
				for _, s := range statsList {
					s.Reset()
				}
			}
		case <-ticker.C:
			for _, event := range st.Poll() {
				replay.Apply(event, targets, statsList)
			}
			renderReplay(screen, st, targets, statsList, selected)
		}
	}
}
