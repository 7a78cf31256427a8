package engine

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func newTestEngine() (*Engine, *clock.Mock) {
	clk := clock.NewMock()
	return NewWithClock(clk), clk
}

func TestStartAccumulates(t *testing.T) {
	e, clk := newTestEngine()

	e.Start()
	if !e.IsRunning() {
		t.Fatal("expected timer to be running after Start")
	}

	clk.Add(5 * time.Second)
	if got := e.ElapsedSeconds(); got != 5 {
		t.Errorf("ElapsedSeconds() = %v, want 5", got)
	}
	if got := e.FormattedTime(); got != "00:00:05" {
		t.Errorf("FormattedTime() = %q, want 00:00:05", got)
	}
}

func TestStartWhileRunningDoesNotRestart(t *testing.T) {
	e, clk := newTestEngine()

	e.Start()
	clk.Add(3 * time.Second)
	e.Start() // redundant, must not reset accumulation
	clk.Add(2 * time.Second)

	if got := e.ElapsedSeconds(); got != 5 {
		t.Errorf("ElapsedSeconds() = %v, want 5 (second Start must not reset)", got)
	}
}

func TestStartAfterStopZeroesBank(t *testing.T) {
	e, clk := newTestEngine()

	e.Start()
	clk.Add(7 * time.Second)
	e.Stop()
	e.Start()
	clk.Add(1 * time.Second)

	if got := e.ElapsedSeconds(); got != 1 {
		t.Errorf("ElapsedSeconds() = %v, want 1 (Start begins a new epoch)", got)
	}
}

func TestPauseFreezesElapsed(t *testing.T) {
	e, clk := newTestEngine()

	e.Start()
	clk.Add(2 * time.Second)
	e.Pause()

	if e.IsRunning() {
		t.Fatal("expected timer stopped after Pause")
	}

	clk.Add(10 * time.Minute)
	if got := e.ElapsedSeconds(); got != 2 {
		t.Errorf("ElapsedSeconds() = %v, want 2 (frozen while paused)", got)
	}
}

func TestResumeContinuesFromBank(t *testing.T) {
	e, clk := newTestEngine()

	e.Start()
	clk.Add(1 * time.Second)
	e.Pause()
	clk.Add(5 * time.Second)
	e.Resume()
	clk.Add(1 * time.Second)

	if !e.IsRunning() {
		t.Fatal("expected timer running after Resume")
	}
	if got := e.ElapsedSeconds(); got != 2 {
		t.Errorf("ElapsedSeconds() = %v, want 2 (two 1s segments)", got)
	}
}

func TestResumeAtZeroIsNoop(t *testing.T) {
	tests := []struct {
		name string
		prep func(e *Engine, clk *clock.Mock)
	}{
		{"fresh engine", func(e *Engine, clk *clock.Mock) {}},
		{"after reset", func(e *Engine, clk *clock.Mock) {
			e.Start()
			clk.Add(3 * time.Second)
			e.Reset()
		}},
		{"paused at zero", func(e *Engine, clk *clock.Mock) {
			e.Start()
			e.Pause() // no time passed, bank stays zero
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, clk := newTestEngine()
			tt.prep(e, clk)

			e.Resume()
			if e.IsRunning() {
				t.Error("Resume at zero must leave the timer stopped")
			}
			if got := e.ElapsedSeconds(); got != 0 {
				t.Errorf("ElapsedSeconds() = %v, want 0", got)
			}
		})
	}
}

func TestResetFromAnyState(t *testing.T) {
	tests := []struct {
		name string
		prep func(e *Engine, clk *clock.Mock)
	}{
		{"fresh engine", func(e *Engine, clk *clock.Mock) {}},
		{"while running", func(e *Engine, clk *clock.Mock) {
			e.Start()
			clk.Add(42 * time.Second)
		}},
		{"while paused", func(e *Engine, clk *clock.Mock) {
			e.Start()
			clk.Add(42 * time.Second)
			e.Pause()
		}},
		{"after stop", func(e *Engine, clk *clock.Mock) {
			e.Start()
			clk.Add(42 * time.Second)
			e.Stop()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, clk := newTestEngine()
			tt.prep(e, clk)

			e.Reset()
			if e.IsRunning() {
				t.Error("expected timer stopped after Reset")
			}
			if got := e.ElapsedSeconds(); got != 0 {
				t.Errorf("ElapsedSeconds() = %v, want 0", got)
			}
			if got := e.FormattedTime(); got != "00:00:00" {
				t.Errorf("FormattedTime() = %q, want 00:00:00", got)
			}

			// Still usable after reset
			clk.Add(time.Second)
			if got := e.ElapsedSeconds(); got != 0 {
				t.Errorf("ElapsedSeconds() = %v, want 0 after reset without Start", got)
			}
		})
	}
}

func TestStopBehavesLikePause(t *testing.T) {
	e, clk := newTestEngine()

	e.Start()
	clk.Add(4 * time.Second)
	e.Stop()

	if e.IsRunning() {
		t.Fatal("expected timer stopped after Stop")
	}
	clk.Add(3 * time.Second)
	if got := e.ElapsedSeconds(); got != 4 {
		t.Errorf("ElapsedSeconds() = %v, want 4 (frozen after Stop)", got)
	}

	// No terminal state: Resume continues from the bank.
	e.Resume()
	clk.Add(1 * time.Second)
	if got := e.ElapsedSeconds(); got != 5 {
		t.Errorf("ElapsedSeconds() = %v, want 5 after resuming a stopped timer", got)
	}
}

func TestRedundantCommandsAreNoops(t *testing.T) {
	tests := []struct {
		name        string
		prep        func(e *Engine, clk *clock.Mock)
		cmd         Command
		wantApplied bool
	}{
		{"pause while stopped", func(e *Engine, clk *clock.Mock) {}, CommandPause, false},
		{"stop while stopped", func(e *Engine, clk *clock.Mock) {}, CommandStop, false},
		{"stop twice", func(e *Engine, clk *clock.Mock) {
			e.Start()
			clk.Add(time.Second)
			e.Stop()
		}, CommandStop, false},
		{"start twice", func(e *Engine, clk *clock.Mock) { e.Start() }, CommandStart, false},
		{"resume while running", func(e *Engine, clk *clock.Mock) {
			e.Start()
			clk.Add(time.Second)
		}, CommandResume, false},
		{"reset always applies", func(e *Engine, clk *clock.Mock) {}, CommandReset, true},
		{"pause while running", func(e *Engine, clk *clock.Mock) { e.Start() }, CommandPause, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, clk := newTestEngine()
			tt.prep(e, clk)

			if got := e.Apply(tt.cmd); got != tt.wantApplied {
				t.Errorf("Apply(%s) = %v, want %v", tt.cmd, got, tt.wantApplied)
			}
		})
	}
}

func TestElapsedNeverNegative(t *testing.T) {
	sequences := [][]Command{
		{},
		{CommandPause, CommandResume, CommandStop},
		{CommandStart, CommandPause, CommandPause},
		{CommandStart, CommandStop, CommandResume, CommandReset},
		{CommandReset, CommandReset, CommandStart, CommandStart},
	}

	for _, seq := range sequences {
		e, clk := newTestEngine()
		for _, cmd := range seq {
			e.Apply(cmd)
			clk.Add(500 * time.Millisecond)
			if got := e.ElapsedSeconds(); got < 0 {
				t.Fatalf("ElapsedSeconds() = %v after %v, want >= 0", got, seq)
			}
		}
	}
}

func TestElapsedClampedWhenClockStepsBack(t *testing.T) {
	e, clk := newTestEngine()

	e.Start()
	clk.Set(clk.Now().Add(-10 * time.Second))

	if got := e.ElapsedSeconds(); got != 0 {
		t.Errorf("ElapsedSeconds() = %v, want 0 when clock stepped backwards", got)
	}

	e.Pause()
	if got := e.ElapsedSeconds(); got != 0 {
		t.Errorf("ElapsedSeconds() = %v, want 0 after folding a negative segment", got)
	}
}

func TestSnapshot(t *testing.T) {
	e, clk := newTestEngine()

	e.Start()
	clk.Add(65 * time.Second)
	e.Pause()

	snap := e.Snapshot()
	if snap.Running {
		t.Error("Snapshot.Running = true, want false")
	}
	if snap.State != StateStopped {
		t.Errorf("Snapshot.State = %q, want %q", snap.State, StateStopped)
	}
	if snap.ElapsedSeconds != 65 {
		t.Errorf("Snapshot.ElapsedSeconds = %v, want 65", snap.ElapsedSeconds)
	}
	if snap.Formatted != "00:01:05" {
		t.Errorf("Snapshot.Formatted = %q, want 00:01:05", snap.Formatted)
	}
	if snap.LastCommand != CommandPause {
		t.Errorf("Snapshot.LastCommand = %q, want %q", snap.LastCommand, CommandPause)
	}
}

func TestMonotonicWhileRunning(t *testing.T) {
	e, clk := newTestEngine()

	e.Start()
	prev := e.ElapsedSeconds()
	for i := 0; i < 10; i++ {
		clk.Add(100 * time.Millisecond)
		cur := e.ElapsedSeconds()
		if cur < prev {
			t.Fatalf("elapsed decreased while running: %v -> %v", prev, cur)
		}
		prev = cur
	}
}
