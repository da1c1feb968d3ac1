package atari800

// InputState is the latched snapshot of pending key/joystick/console-key
// activity applied at the start of the next frame (spec §4.6
// apply_pending_input). The minimal CPU core has no keyboard IRQ or
// POKEY shift-register model to actually consume these, so staging and
// latching are real while the behavioural effect is a no-op; the shape
// exists so the control surface above the façade has something concrete
// to exercise and a test can observe that staged input was latched.
type InputState struct {
	KeysDown   []KeyEvent
	Joystick   JoystickEvent
	ConsoleKey byte
}

type KeyEvent struct {
	Char  byte
	Code  byte
	Flags byte
}

type JoystickEvent struct {
	Port       byte
	Directions byte
	Trigger    bool
}

// StageKeyDown appends a key event to the pending input buffer.
func (f *Facade) StageKeyDown(e KeyEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending.KeysDown = append(f.pending.KeysDown, e)
}

func (f *Facade) StageJoystick(e JoystickEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending.Joystick = e
}

func (f *Facade) StageConsoleKeys(mask byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending.ConsoleKey = mask
}

// latchPendingInput moves the staged input into active and clears the
// staging area. Caller must hold f.mu.
func (f *Facade) latchPendingInput() InputState {
	applied := f.pending
	f.pending = InputState{}
	return applied
}

// LastAppliedInput reports the input latched at the start of the most
// recent AdvanceOneFrame call, for status reporting and tests.
func (f *Facade) LastAppliedInput() InputState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applied
}
