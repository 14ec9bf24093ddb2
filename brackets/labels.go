package brackets

import "fmt"

// RoundLabel names a round by its distance from the final round.
func RoundLabel(finalRound, round int) string {
	switch finalRound - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinal"
	case 2:
		return "Quarterfinal"
	case 3:
		return "1/8"
	case 4:
		return "1/16"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}
