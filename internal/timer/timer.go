// Package timer implements the focus-session countdown. The engine never
// reads a clock: callers advance it one second at a time with Tick.
package timer

import (
	"github.com/rs/zerolog"
	"github.com/tgienger/pomolist/internal/logging"
	"github.com/tgienger/pomolist/internal/models"
)

// State of the countdown
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Durations supplies the settings in effect
type Durations interface {
	Current() models.Settings
}

// Counter records a finished session against a task. It reports false when
// the task no longer exists.
type Counter interface {
	IncrementCompletedPomodoros(id int64) bool
}

// Notifier plays the completion sound
type Notifier interface {
	Notify() error
}

// BreakKind is the break suggested after a focus session
type BreakKind string

const (
	ShortBreak BreakKind = "short"
	LongBreak  BreakKind = "long"
)

// Completion is returned by Tick when a session runs out
type Completion struct {
	TaskID       int64
	Counted      bool // false when the task was deleted mid-session
	Sessions     int  // focus sessions completed since start-up
	Break        BreakKind
	BreakMinutes int
}

// Snapshot is a read-only view of the engine
type Snapshot struct {
	State            State
	ActiveTaskID     *int64
	SecondsRemaining int
	Generation       int
}

// Engine is the single focus-session state machine. At most one task is
// bound at a time; ActiveTaskID is nil exactly when the engine is Idle.
type Engine struct {
	durations Durations
	counter   Counter
	notifier  Notifier

	state     State
	activeID  int64
	remaining int
	sessions  int
	gen       int

	log zerolog.Logger
}

// New creates an idle engine with a full session on the clock
func New(durations Durations, counter Counter, notifier Notifier) *Engine {
	e := &Engine{
		durations: durations,
		counter:   counter,
		notifier:  notifier,
		log:       logging.Component("timer"),
	}
	e.remaining = e.full()
	return e
}

// SetNotifier replaces the completion notifier. nil silences it.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// Snapshot returns the current state
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:            e.state,
		SecondsRemaining: e.remaining,
		Generation:       e.gen,
	}
	if e.state != Idle {
		id := e.activeID
		snap.ActiveTaskID = &id
	}
	return snap
}

// State returns the current state
func (e *Engine) State() State { return e.state }

// Generation changes every time the engine enters or leaves Running. Tick
// sources tag their ticks with it so a superseded tick chain can be dropped.
func (e *Engine) Generation() int { return e.gen }

// IsActive reports whether the engine is bound to task id
func (e *Engine) IsActive(id int64) bool {
	return e.state != Idle && e.activeID == id
}

// Start begins a session on id. Starting a different task discards the
// current countdown; starting the paused task resumes it.
func (e *Engine) Start(id int64) {
	switch {
	case e.state == Paused && e.activeID == id:
		e.state = Running
	case e.state == Running && e.activeID == id:
		return
	default:
		if e.state != Idle {
			e.log.Debug().Int64("from", e.activeID).Int64("to", id).Int("remaining", e.remaining).Msg("switching task, discarding session")
		}
		e.activeID = id
		e.remaining = e.full()
		e.state = Running
	}
	e.gen++
}

// Pause freezes a running countdown
func (e *Engine) Pause() {
	if e.state != Running {
		return
	}
	e.state = Paused
	e.gen++
}

// Resume continues a paused countdown
func (e *Engine) Resume() {
	if e.state != Paused {
		return
	}
	e.Start(e.activeID)
}

// Stop abandons the session and puts a full session back on the clock
func (e *Engine) Stop() {
	e.reset()
	e.gen++
}

// Tick advances a running countdown by one second. When the countdown
// reaches zero the bound task is credited, the completion sound is played,
// the engine returns to Idle and a Completion is returned. Ticks outside
// Running return nil.
func (e *Engine) Tick() *Completion {
	if e.state != Running {
		return nil
	}
	if e.remaining > 0 {
		e.remaining--
	}
	if e.remaining > 0 {
		return nil
	}

	id := e.activeID
	counted := e.counter.IncrementCompletedPomodoros(id)
	if !counted {
		e.log.Info().Int64("task", id).Msg("session finished for a deleted task")
	}

	if e.notifier != nil {
		if err := e.notifier.Notify(); err != nil {
			e.log.Warn().Err(err).Msg("completion sound failed")
		}
	}

	e.sessions++
	e.reset()
	e.gen++

	c := &Completion{
		TaskID:   id,
		Counted:  counted,
		Sessions: e.sessions,
	}
	s := e.durations.Current()
	if s.LongBreakInterval > 0 && e.sessions%s.LongBreakInterval == 0 {
		c.Break, c.BreakMinutes = LongBreak, s.LongBreakDuration
	} else {
		c.Break, c.BreakMinutes = ShortBreak, s.ShortBreakDuration
	}
	return c
}

// SettingsChanged applies a new focus duration. An idle engine shows the new
// full session; a session in progress keeps counting from where it is, cut
// down only if it now exceeds the new duration.
func (e *Engine) SettingsChanged() {
	full := e.full()
	if e.state == Idle || e.remaining > full {
		e.remaining = full
	}
}

func (e *Engine) reset() {
	e.state = Idle
	e.activeID = 0
	e.remaining = e.full()
}

func (e *Engine) full() int {
	return e.durations.Current().FocusDuration * 60
}
