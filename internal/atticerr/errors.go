package atticerr

import (
	"errors"

	"github.com/huegli/attic-sub012/curated"
)

// Error is a curated error decorated with a stable Kind. The message
// itself is produced by curated.Errorf so the usual de-duplication and
// Is()/Has() chain matching keeps working on the wrapped error.
type Error struct {
	kind Kind
	err  error
}

// Errorf builds a new Kind-tagged curated error. As with curated.Errorf
// the pattern is not formatted until Error() is called.
func Errorf(kind Kind, pattern string, values ...interface{}) error {
	return &Error{kind: kind, err: curated.Errorf(pattern, values...)}
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Kind() Kind    { return e.kind }

// KindOf walks the error chain looking for an atticerr.Error and returns
// its Kind, or KindUnknown if none is found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// Is reports whether err is an atticerr.Error of the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
