package patch

import (
	"errors"
	"fmt"
)

// Kind classifies a patch failure.
type Kind int

const (
	// KindStructure covers grammar problems: missing markers, duplicate or
	// unknown directives, adding an existing file, malformed body lines.
	KindStructure Kind = iota
	// KindContext means no matcher tier could place a hunk.
	KindContext
	// KindReconstruct means the resolved chunks cannot be spliced into the file.
	KindReconstruct
	// KindIO wraps a failure of the injected open/write/remove primitives.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindContext:
		return "context"
	case KindReconstruct:
		return "reconstruct"
	case KindIO:
		return "io"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single error type produced while parsing and applying a patch.
// None of its kinds are retryable.
type Error struct {
	Kind Kind
	Path string // empty only for envelope-level structural errors
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, path, format string, a ...any) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(format, a...)}
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}
