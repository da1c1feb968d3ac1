//go:build unix

package main

import (
	"fmt"
	"os"

	"github.com/huegli/attic-sub012/internal/cliendpoint"
)

// lineEditor reads one line at a time from a raw-mode terminal, handling
// backspace and Ctrl-C/Ctrl-D itself since raw mode disables the kernel
// tty driver's own line discipline.
type lineEditor struct {
	in  *os.File
	out *os.File
	raw *cliendpoint.RawTerminal
}

func newLineEditor(in, out *os.File) (*lineEditor, error) {
	raw, err := cliendpoint.NewRawTerminal(in)
	if err != nil {
		return nil, err
	}
	if err := raw.Raw(); err != nil {
		return nil, err
	}
	return &lineEditor{in: in, out: out, raw: raw}, nil
}

func (e *lineEditor) close() {
	e.raw.Restore()
}

// readLine prints prompt, then reads keystrokes until Enter, EOF, or
// Ctrl-C. The returned bool is false when the session should end.
func (e *lineEditor) readLine(prompt string) (string, bool) {
	fmt.Fprint(e.out, prompt)
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := e.in.Read(buf)
		if err != nil || n == 0 {
			return "", false
		}
		switch c := buf[0]; c {
		case '\r', '\n':
			fmt.Fprint(e.out, "\r\n")
			return string(line), true
		case 0x03: // Ctrl-C
			fmt.Fprint(e.out, "^C\r\n")
			return "", false
		case 0x04: // Ctrl-D on an empty line
			if len(line) == 0 {
				return "", false
			}
		case 0x7f, 0x08: // backspace / delete
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Fprint(e.out, "\b \b")
			}
		default:
			line = append(line, c)
			e.out.Write(buf)
		}
	}
}
