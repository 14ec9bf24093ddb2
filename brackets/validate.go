package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/bracket-board/models"
)

var ErrInvalidBracket = errors.New("invalid bracket")

// ValidationError describes one inconsistency in a match list.
type ValidationError struct {
	MatchID int
	Round   int
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.MatchID == 0 {
		return fmt.Sprintf("round %d: %s", e.Round, e.Reason)
	}
	return fmt.Sprintf("match %d (round %d): %s", e.MatchID, e.Round, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidBracket
}

// Validate checks the preconditions Build relies on for a meaningful layout:
// positive round and position numbers, one participant shape per bracket, no
// duplicate (round, position) pairs and positions 1..n within every round.
// All problems are reported together.
func Validate(matches []models.Match, teamMode bool) error {
	var errs []error
	positions := make(map[int]map[int]int)

	for _, m := range matches {
		if m.Round < 1 {
			errs = append(errs, &ValidationError{MatchID: m.ID, Round: m.Round, Reason: "round must be positive"})
			continue
		}
		if m.Position < 1 {
			errs = append(errs, &ValidationError{MatchID: m.ID, Round: m.Round, Reason: "position must be positive"})
			continue
		}
		if teamMode && m.HasAthleteFields() {
			errs = append(errs, &ValidationError{MatchID: m.ID, Round: m.Round, Reason: "athlete participants in a team bracket"})
		}
		if !teamMode && m.HasTeamFields() {
			errs = append(errs, &ValidationError{MatchID: m.ID, Round: m.Round, Reason: "team participants in an individual bracket"})
		}

		if positions[m.Round] == nil {
			positions[m.Round] = make(map[int]int)
		}
		if other, dup := positions[m.Round][m.Position]; dup {
			errs = append(errs, &ValidationError{
				MatchID: m.ID,
				Round:   m.Round,
				Reason:  fmt.Sprintf("position %d already taken by match %d", m.Position, other),
			})
			continue
		}
		positions[m.Round][m.Position] = m.ID
	}

	rounds := make([]int, 0, len(positions))
	for r := range positions {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)
	for _, r := range rounds {
		n := len(positions[r])
		for p := range positions[r] {
			if p > n {
				errs = append(errs, &ValidationError{
					Round:  r,
					Reason: fmt.Sprintf("positions are not contiguous 1..%d", n),
				})
				break
			}
		}
	}

	return errors.Join(errs...)
}
