package engine

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Engine is the elapsed-time tracker: it banks duration from completed
// running segments and measures the active segment against a reference
// instant. All methods are safe for concurrent use; a single mutex
// serializes reads and mutations since transitions are not atomic.
type Engine struct {
	mu          sync.Mutex
	clk         clock.Clock
	reference   time.Time     // start of the active segment, meaningful only while running
	accumulated time.Duration // banked from completed segments, never negative
	running     bool
	lastCommand Command
	changedAt   time.Time
}

// New creates an engine in the reset state, measuring against the system clock.
func New() *Engine {
	return NewWithClock(clock.New())
}

// NewWithClock creates an engine using the given time source.
// Tests pass a clock.Mock to advance time deterministically.
func NewWithClock(clk clock.Clock) *Engine {
	return &Engine{clk: clk}
}

// Apply executes cmd and reports whether it changed the timer.
// Commands whose precondition is unmet are silent no-ops.
func (e *Engine) Apply(cmd Command) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clk.Now()
	if !Applies(cmd, e.stateLocked(), e.accumulated) {
		return false
	}

	switch cmd {
	case CommandStart:
		e.reference = now
		e.accumulated = 0
		e.running = true
	case CommandPause, CommandStop:
		e.foldLocked(now)
		e.running = false
	case CommandResume:
		e.reference = now
		e.running = true
	case CommandReset:
		e.reference = now
		e.accumulated = 0
		e.running = false
	}

	e.lastCommand = cmd
	e.changedAt = now
	return true
}

// Start begins counting from zero. No-op while running.
func (e *Engine) Start() { e.Apply(CommandStart) }

// Pause freezes the timer, banking the active segment. No-op while stopped.
func (e *Engine) Pause() { e.Apply(CommandPause) }

// Resume continues counting from the banked duration. No-op while running
// or when nothing has been banked.
func (e *Engine) Resume() { e.Apply(CommandResume) }

// Reset stops the timer and zeroes the banked duration, in any state.
func (e *Engine) Reset() { e.Apply(CommandReset) }

// Stop freezes the timer exactly as Pause does. There is no terminal state;
// a stopped timer can be resumed.
func (e *Engine) Stop() { e.Apply(CommandStop) }

// IsRunning reports whether a segment is actively accumulating.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// State returns the logical timer state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Elapsed returns the total tracked duration: the bank plus the active
// segment while running, the bank alone while stopped. Never negative.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked(e.clk.Now())
}

// ElapsedSeconds returns Elapsed as seconds.
func (e *Engine) ElapsedSeconds() float64 {
	return e.Elapsed().Seconds()
}

// FormattedTime returns the elapsed time as an HH:MM:SS clock string.
func (e *Engine) FormattedTime() string {
	return FormatClock(e.Elapsed())
}

// Snapshot is a point-in-time view of the timer for front ends.
type Snapshot struct {
	Running        bool      `json:"running"`
	State          State     `json:"state"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Formatted      string    `json:"formatted"`
	LastCommand    Command   `json:"last_command,omitempty"`
	ChangedAt      time.Time `json:"changed_at,omitempty"`
}

// Snapshot returns a consistent view of the timer taken under the lock.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := e.elapsedLocked(e.clk.Now())
	return Snapshot{
		Running:        e.running,
		State:          e.stateLocked(),
		ElapsedSeconds: elapsed.Seconds(),
		Formatted:      FormatClock(elapsed),
		LastCommand:    e.lastCommand,
		ChangedAt:      e.changedAt,
	}
}

func (e *Engine) stateLocked() State {
	if e.running {
		return StateRunning
	}
	return StateStopped
}

func (e *Engine) elapsedLocked(now time.Time) time.Duration {
	if e.running {
		if seg := now.Sub(e.reference); seg > 0 {
			return e.accumulated + seg
		}
	}
	return e.accumulated
}

// foldLocked banks the active segment. Clamped at zero in case the wall
// clock stepped backwards between reference and now.
func (e *Engine) foldLocked(now time.Time) {
	if seg := now.Sub(e.reference); seg > 0 {
		e.accumulated += seg
	}
}
