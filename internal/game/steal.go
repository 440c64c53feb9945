package game

import "fmt"

// Outcome of a resolved question.
type Outcome string

const (
	OutcomeOriginal Outcome = "original" // original player answered correctly
	OutcomeExpert   Outcome = "expert"   // expert stole and answered correctly
	OutcomeNobody   Outcome = "nobody"   // nobody answered correctly
)

// StealDeltas carries the point changes for one resolved question. Expert is
// nil when no steal was attempted.
type StealDeltas struct {
	Original int
	Expert   *int
}

// ResolveSteal computes point deltas for the five outcome rules.
//
// isOwnCategory means the question's topic is the answering player's own
// assigned category for the current round. Missing on someone else's
// category costs half, floored, never rounded up. A failed steal always
// costs the expert the full point value.
func ResolveSteal(outcome Outcome, pointValue int, isOwnCategory, stealAttempted bool) (StealDeltas, error) {
	missPenalty := -pointValue
	if !isOwnCategory {
		missPenalty = -(pointValue / 2)
	}

	switch outcome {
	case OutcomeOriginal:
		d := StealDeltas{Original: pointValue}
		if stealAttempted {
			d.Expert = intPtr(-pointValue)
		}
		return d, nil
	case OutcomeExpert:
		if !stealAttempted {
			return StealDeltas{}, fmt.Errorf("%w: expert outcome without steal attempt", ErrInvalidSelection)
		}
		return StealDeltas{Original: missPenalty, Expert: intPtr(pointValue)}, nil
	case OutcomeNobody:
		d := StealDeltas{Original: missPenalty}
		if stealAttempted {
			d.Expert = intPtr(-pointValue)
		}
		return d, nil
	default:
		return StealDeltas{}, fmt.Errorf("%w: unknown outcome %q", ErrInvalidSelection, outcome)
	}
}

func intPtr(v int) *int {
	return &v
}
