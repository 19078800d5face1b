package generation

// Phase represents a step of the generation pipeline.
type Phase int

const (
	PhaseValidating     Phase = iota // Checking the input word and language
	PhaseDescribing                  // Waiting for the language model
	PhaseNormalizing                 // Filling defaults into the description
	PhaseResolvingAudio              // Looking up a playable recording
	PhaseStoring                     // Persisting the track
	PhaseDone                        // Track stored
	PhaseFailed                      // Pipeline aborted
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseDescribing:
		return "describing"
	case PhaseNormalizing:
		return "normalizing"
	case PhaseResolvingAudio:
		return "resolving_audio"
	case PhaseStoring:
		return "storing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows the phase.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}
