// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

//go:build unix

// RawTerminal puts a posix terminal into raw (character-at-a-time) mode
// for the attic-cli reference client's line editor, wrapping
// "github.com/pkg/term/termios" the way the teacher's debugger/terminal
// front end does, trimmed to canonical/raw switching only — the CLI
// client has no need for cbreak mode or SIGWINCH geometry tracking.
package cliendpoint

import (
	"os"
	"syscall"

	"github.com/pkg/term/termios"
)

// RawTerminal wraps one os.File (normally stdin) so callers can toggle it
// between its original canonical attributes and raw mode for the
// duration of an interactive session.
type RawTerminal struct {
	file    *os.File
	canAttr syscall.Termios
	rawAttr syscall.Termios
}

// NewRawTerminal captures file's current terminal attributes. It fails if
// file is not backed by a terminal.
func NewRawTerminal(file *os.File) (*RawTerminal, error) {
	rt := &RawTerminal{file: file}
	if err := termios.Tcgetattr(file.Fd(), &rt.canAttr); err != nil {
		return nil, err
	}
	rt.rawAttr = rt.canAttr
	termios.Cfmakeraw(&rt.rawAttr)
	return rt, nil
}

// Raw switches the terminal into raw mode, so the line editor receives
// every keystroke (including control characters) immediately rather than
// buffered a line at a time by the kernel tty driver.
func (rt *RawTerminal) Raw() error {
	return termios.Tcsetattr(rt.file.Fd(), termios.TCIFLUSH, &rt.rawAttr)
}

// Restore returns the terminal to the attributes it had when
// NewRawTerminal was called.
func (rt *RawTerminal) Restore() error {
	return termios.Tcsetattr(rt.file.Fd(), termios.TCIFLUSH, &rt.canAttr)
}
