package ui

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/strikeband/internal/match"
)

// Controls are the match commands the spectator view can issue.
type Controls struct {
	Pause  func()
	Resume func()
}

// Spectator renders snapshots as they arrive and handles the few keys a
// spectator has: p to pause, r to resume, q or Esc to leave.
type Spectator struct {
	screen    *Screen
	renderer  *Renderer
	controls  Controls
	snapshots chan match.Snapshot
}

// NewSpectator creates a spectator view on a fresh screen.
func NewSpectator(controls Controls) (*Spectator, error) {
	screen, err := NewScreen()
	if err != nil {
		return nil, err
	}
	return &Spectator{
		screen:    screen,
		renderer:  NewRenderer(screen),
		controls:  controls,
		snapshots: make(chan match.Snapshot, 1),
	}, nil
}

// Listener returns a match listener that forwards snapshots to the view.
// Stale frames are dropped rather than blocking the tick loop.
func (s *Spectator) Listener() match.Listener {
	return func(snapshot match.Snapshot) {
		select {
		case s.snapshots <- snapshot:
		default:
			select {
			case <-s.snapshots:
			default:
			}
			select {
			case s.snapshots <- snapshot:
			default:
			}
		}
	}
}

// Run blocks until the user quits or the context is cancelled.
func (s *Spectator) Run(ctx context.Context) {
	defer s.screen.Close()

	// Closed on return so an in-flight send below never wedges the
	// event goroutine.
	quit := make(chan struct{})
	defer close(quit)

	keys := make(chan tcell.Event)
	go func() {
		for {
			event := s.screen.PollEvent()
			if event == nil {
				return
			}
			select {
			case keys <- event:
			case <-quit:
				return
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.screen.PostQuit()
	}()

	for {
		select {
		case snapshot := <-s.snapshots:
			s.renderer.Render(snapshot)
		case event := <-keys:
			if s.handleEvent(event) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// handleEvent reacts to a terminal event, reporting whether to quit.
func (s *Spectator) handleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case *tcell.EventInterrupt:
		return true
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
			return true
		case ev.Rune() == 'p':
			if s.controls.Pause != nil {
				s.controls.Pause()
			}
		case ev.Rune() == 'r':
			if s.controls.Resume != nil {
				s.controls.Resume()
			}
		}
	}
	return false
}
