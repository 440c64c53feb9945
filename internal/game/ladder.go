package game

// Round numbers. Round 1 plays self topics, round 2 peer-assigned topics,
// the final round is a single shared wagering topic.
const (
	RoundSelf  = 1
	RoundPeer  = 2
	FinalRound = 3
)

// LadderConfig centralizes the player-count-sensitive point ladders. The
// thresholds are rules data; every ladder lookup goes through here.
type LadderConfig struct {
	RoundOneBigGroupMin int
	RoundTwoBigGroupMin int
}

func DefaultLadderConfig() LadderConfig {
	return LadderConfig{
		RoundOneBigGroupMin: 5,
		RoundTwoBigGroupMin: 7,
	}
}

// Ladder returns the point values available per topic for a round at the
// given player count. The final round has no ladder; it is wager-driven.
func (c LadderConfig) Ladder(round, playerCount int) []int {
	switch round {
	case RoundSelf:
		if playerCount >= c.RoundOneBigGroupMin {
			return []int{200, 300}
		}
		return []int{100, 200, 300}
	case RoundPeer:
		if playerCount >= c.RoundTwoBigGroupMin {
			return []int{500}
		}
		return []int{250, 500}
	default:
		return nil
	}
}
