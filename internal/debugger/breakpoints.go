package debugger

import (
	"github.com/huegli/attic-sub012/internal/atari800"
	"github.com/huegli/attic-sub012/internal/atticerr"
)

// Kind distinguishes the two breakpoint mechanisms (spec §4.5).
type Kind int

const (
	Substituted Kind = iota
	Watched
)

func (k Kind) String() string {
	if k == Watched {
		return "watched"
	}
	return "substituted"
}

// Breakpoint is a single entry in the debugger's table.
type Breakpoint struct {
	Address   uint16
	Kind      Kind
	SavedByte byte // meaningful only when Kind == Substituted
	HitCount  uint64
	Enabled   bool
}

// classify chooses the breakpoint mechanism for addr, delegating to the
// façade's address-classification constants.
func classify(addr uint16) Kind {
	if atari800.Classify(addr) == atari800.ClassWatched {
		return Watched
	}
	return Substituted
}

// Set installs a breakpoint at addr. The emulator must be paused; the
// address must not already carry one.
func (d *Debugger) Set(addr uint16) (*Breakpoint, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isPaused() {
		return nil, atticerr.Errorf(atticerr.KindMustPause, "breakpoints can only be set while paused")
	}
	if _, exists := d.breakpoints[addr]; exists {
		return nil, atticerr.Errorf(atticerr.KindAlreadyExists, "breakpoint already set at $%04X", addr)
	}

	bp := &Breakpoint{Address: addr, Kind: classify(addr), Enabled: true}
	if bp.Kind == Substituted {
		bp.SavedByte = d.emu.ReadByte(addr)
		d.emu.WriteByte(addr, atari800.TrapOpcode)
	}
	d.breakpoints[addr] = bp
	return bp, nil
}

// Clear removes the breakpoint at addr, restoring the original byte if
// it was substituted.
func (d *Debugger) Clear(addr uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clearLocked(addr)
}

func (d *Debugger) clearLocked(addr uint16) error {
	if !d.isPaused() {
		return atticerr.Errorf(atticerr.KindMustPause, "breakpoints can only be cleared while paused")
	}
	bp, ok := d.breakpoints[addr]
	if !ok {
		return atticerr.Errorf(atticerr.KindNotFound, "no breakpoint at $%04X", addr)
	}
	if bp.Kind == Substituted && bp.Enabled {
		d.emu.WriteByte(addr, bp.SavedByte)
	}
	delete(d.breakpoints, addr)
	return nil
}

// ClearAll removes every breakpoint, restoring substituted bytes.
func (d *Debugger) ClearAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isPaused() {
		return atticerr.Errorf(atticerr.KindMustPause, "breakpoints can only be cleared while paused")
	}
	for addr, bp := range d.breakpoints {
		if bp.Kind == Substituted && bp.Enabled {
			d.emu.WriteByte(addr, bp.SavedByte)
		}
		delete(d.breakpoints, addr)
	}
	return nil
}

// SetEnabled toggles a breakpoint without removing it from the table, so
// hit_count and configuration survive re-enabling.
func (d *Debugger) SetEnabled(addr uint16, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	bp, ok := d.breakpoints[addr]
	if !ok {
		return atticerr.Errorf(atticerr.KindNotFound, "no breakpoint at $%04X", addr)
	}
	if bp.Enabled == enabled {
		return nil
	}
	if bp.Kind == Substituted {
		if enabled {
			bp.SavedByte = d.emu.ReadByte(addr)
			d.emu.WriteByte(addr, atari800.TrapOpcode)
		} else {
			d.emu.WriteByte(addr, bp.SavedByte)
		}
	}
	bp.Enabled = enabled
	return nil
}

// List returns a snapshot of the breakpoint table, ordered by address for
// deterministic CLI / dot-graph output.
func (d *Debugger) List() []Breakpoint {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Breakpoint, 0, len(d.breakpoints))
	for _, bp := range d.breakpoints {
		out = append(out, *bp)
	}
	sortBreakpoints(out)
	return out
}

func sortBreakpoints(bps []Breakpoint) {
	for i := 1; i < len(bps); i++ {
		for j := i; j > 0 && bps[j].Address < bps[j-1].Address; j-- {
			bps[j], bps[j-1] = bps[j-1], bps[j]
		}
	}
}

// ReadByte returns the value a debugger-aware caller should see: the
// saved original byte for an enabled substituted breakpoint, or the live
// memory value otherwise.
func (d *Debugger) ReadByte(addr uint16) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if bp, ok := d.breakpoints[addr]; ok && bp.Kind == Substituted && bp.Enabled {
		return bp.SavedByte
	}
	return d.emu.ReadByte(addr)
}

// WriteByte updates saved_byte rather than live memory for an enabled
// substituted breakpoint address, so the trap stays authoritative until
// the breakpoint is cleared.
func (d *Debugger) WriteByte(addr uint16, v byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if bp, ok := d.breakpoints[addr]; ok && bp.Kind == Substituted && bp.Enabled {
		bp.SavedByte = v
		return
	}
	d.emu.WriteByte(addr, v)
}

// ReadBlock and WriteBlock apply the same masking byte by byte.
func (d *Debugger) ReadBlock(addr uint16, count int) []byte {
	out := make([]byte, count)
	a := addr
	for i := 0; i < count; i++ {
		out[i] = d.ReadByte(a)
		a++
	}
	return out
}

func (d *Debugger) WriteBlock(addr uint16, data []byte) {
	a := addr
	for _, b := range data {
		d.WriteByte(a, b)
		a++
	}
}

// Fill writes value to every address in [start, end] inclusive through
// WriteByte, so a fill over a live substituted breakpoint updates its
// saved_byte instead of clobbering the installed trap.
func (d *Debugger) Fill(start, end uint16, value byte) {
	if end < start {
		start, end = end, start
	}
	for a := uint32(start); a <= uint32(end); a++ {
		d.WriteByte(uint16(a), value)
	}
}
