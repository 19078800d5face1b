package generation

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidWord marks failures caused by rejected input.
	ErrInvalidWord = errors.New("invalid word")
	// ErrGenerationFailed marks failures of the remote model or its output.
	ErrGenerationFailed = errors.New("generation failed")
)

// PhaseError reports the phase in which generation stopped.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return e.Err.Error()
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

func failed(phase Phase, err error, kind error) error {
	return errors.Mark(&PhaseError{Phase: phase, Err: err}, kind)
}

// FailedPhase returns the phase recorded on err, if any.
func FailedPhase(err error) (Phase, bool) {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe.Phase, true
	}
	return PhaseFailed, false
}
