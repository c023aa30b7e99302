package dialogue

import "fmt"

// Phase is the playback state of the current beat.
type Phase int

const (
	// PhaseLoadingNextBeat installs the pending beat's layers.
	PhaseLoadingNextBeat Phase = iota
	// PhaseEnteringBeat fades art in and types the body out.
	PhaseEnteringBeat
	// PhaseAwaitingAdvance waits for the player to continue.
	PhaseAwaitingAdvance
	// PhaseShowingChoices lays out the choice labels.
	PhaseShowingChoices
	// PhaseAwaitingChoice hit-tests activations against the choice labels.
	PhaseAwaitingChoice
	// PhaseExitingBeat fades out what the next beat replaces.
	PhaseExitingBeat
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLoadingNextBeat:
		return "LoadingNextBeat"
	case PhaseEnteringBeat:
		return "EnteringBeat"
	case PhaseAwaitingAdvance:
		return "AwaitingAdvance"
	case PhaseShowingChoices:
		return "ShowingChoices"
	case PhaseAwaitingChoice:
		return "AwaitingChoice"
	case PhaseExitingBeat:
		return "ExitingBeat"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}
