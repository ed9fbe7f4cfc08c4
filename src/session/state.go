package session

import "fmt"

// State is a step of the draw/mulligan protocol.
type State int

const (
	AwaitingShuffle State = iota
	OpeningDraw
	MulliganPrompt
	Reshuffle
	SteadyDraw
)

func (s State) String() string {
	switch s {
	case AwaitingShuffle:
		return "awaiting-shuffle"
	case OpeningDraw:
		return "opening-draw"
	case MulliganPrompt:
		return "mulligan-prompt"
	case Reshuffle:
		return "reshuffle"
	case SteadyDraw:
		return "steady-draw"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
