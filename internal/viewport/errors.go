package viewport

import (
	"errors"
	"fmt"
)

var (
	ErrNonFiniteVertex = errors.New("viewport: non-finite polygon vertex")
	ErrNoSurface       = errors.New("viewport: no surface")
)

// Severity tells the host whether a frame error leaves the viewport
// usable.
type Severity int

const (
	// SeverityRecoverable errors drop part of a frame; the frame is still
	// presented.
	SeverityRecoverable Severity = iota
	// SeverityFatal errors abort the frame and clear the viewport's OK flag.
	SeverityFatal
)

func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}
	return "recoverable"
}

type FrameError struct {
	Stage    string
	Severity Severity
	Err      error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("viewport %s (%s): %v", e.Stage, e.Severity, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// IsFatal reports whether err contains a fatal FrameError.
func IsFatal(err error) bool {
	var fe *FrameError
	if !errors.As(err, &fe) {
		return false
	}
	if fe.Severity == SeverityFatal {
		return true
	}
	// errors.As stops at the first match; look through joined errors.
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			if IsFatal(e) {
				return true
			}
		}
	}
	return false
}
