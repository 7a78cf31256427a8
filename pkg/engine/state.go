package engine

import "time"

// State is the logical state of the timer.
type State string

const (
	StateStopped State = "stopped" // not accumulating; banked duration may be zero or positive
	StateRunning State = "running" // actively accumulating
)

// Command is one of the five timer operations.
type Command string

const (
	CommandStart  Command = "start"
	CommandPause  Command = "pause"
	CommandResume Command = "resume"
	CommandReset  Command = "reset"
	CommandStop   Command = "stop"
)

// applicable maps each command to the states in which it mutates the timer.
// A command issued in any other state is a silent no-op, never an error.
var applicable = map[Command]map[State]bool{
	CommandStart:  {StateStopped: true},                    // Stopped → Running, bank zeroed
	CommandPause:  {StateRunning: true},                    // Running → Stopped, segment folded
	CommandResume: {StateStopped: true},                    // Stopped → Running, bank kept (see banked guard)
	CommandReset:  {StateStopped: true, StateRunning: true}, // any state → Stopped at zero
	CommandStop:   {StateRunning: true},                    // same transition as Pause
}

// Applies reports whether cmd changes the timer given the current state and
// the banked duration. Resume additionally requires banked time: it cannot
// start a timer that was never started.
func Applies(cmd Command, st State, banked time.Duration) bool {
	allowed, ok := applicable[cmd]
	if !ok || !allowed[st] {
		return false
	}
	if cmd == CommandResume && banked <= 0 {
		return false
	}
	return true
}

// IsMutable reports whether any command other than Reset can change the
// timer in this state. Both states are mutable; there is no terminal state.
func IsMutable(st State) bool {
	return st == StateStopped || st == StateRunning
}

// CanResume reports whether a Resume would take effect.
func CanResume(st State, banked time.Duration) bool {
	return Applies(CommandResume, st, banked)
}
