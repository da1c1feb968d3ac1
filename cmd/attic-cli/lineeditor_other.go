//go:build !unix

package main

import (
	"errors"
	"os"
)

// lineEditor has no raw-mode implementation outside posix terminals;
// main falls back to runPlain's buffered-line loop instead.
type lineEditor struct{}

func newLineEditor(in, out *os.File) (*lineEditor, error) {
	return nil, errors.New("attic-cli: interactive line editor requires a posix terminal")
}

func (e *lineEditor) close() {}

func (e *lineEditor) readLine(prompt string) (string, bool) { return "", false }
