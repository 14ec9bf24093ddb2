package brackets

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/Dosada05/bracket-board/models"
)

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket строит полную сетку на выбывание: первый раунд с участниками и
// пустые матчи всех следующих раундов. Участники сеятся как 1..N/2 против
// N/2+1..N, поэтому каждая пустая позиция (bye) приходится на второй слот матча.
// Bye-матч сразу завершается, а его участник проходит во второй раунд.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error) {
	n := len(params.Participants)
	if n == 0 {
		return nil, errors.New("cannot generate bracket with zero participants")
	}
	if n < 2 {
		return nil, errors.New("not enough participants to generate a single elimination bracket (minimum 2)")
	}

	numRounds := bits.Len(uint(n - 1))
	size := 1 << numRounds
	firstRound := size / 2

	matches := make([]models.Match, 0, size-1)
	nextID := 1
	newMatch := func(round, position int) models.Match {
		m := models.Match{
			ID:           nextID,
			TournamentID: params.TournamentID,
			Round:        round,
			Position:     position,
			Status:       models.StatusScheduled,
		}
		nextID++
		return m
	}

	for r, count := 1, firstRound; r <= numRounds; r, count = r+1, count/2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for p := 1; p <= count; p++ {
			matches = append(matches, newMatch(r, p))
		}
	}

	for i := 0; i < firstRound; i++ {
		m := &matches[i]
		if err := seat(m, 1, params.Participants[i], params.TeamMode); err != nil {
			return nil, err
		}
		if opp := firstRound + i; opp < n {
			if err := seat(m, 2, params.Participants[opp], params.TeamMode); err != nil {
				return nil, err
			}
			continue
		}

		// bye
		bye := params.Participants[i]
		setWinner(m, bye, params.TeamMode)
		m.Status = models.MatchStatusCompleted
		if numRounds > 1 {
			next := &matches[firstRound+i/2]
			slot := 2
			if m.Position%2 == 1 {
				slot = 1
			}
			if err := seat(next, slot, bye, params.TeamMode); err != nil {
				return nil, err
			}
		}
	}

	return matches, nil
}

func seat(m *models.Match, slot int, p models.Participant, teamMode bool) error {
	switch v := p.(type) {
	case *models.Athlete:
		if teamMode {
			return fmt.Errorf("athlete %d cannot be seated in a team bracket", v.ID)
		}
		if slot == 1 {
			m.Athlete1 = v
		} else {
			m.Athlete2 = v
		}
	case *models.Team:
		if !teamMode {
			return fmt.Errorf("team %d cannot be seated in an individual bracket", v.ID)
		}
		if slot == 1 {
			m.Team1 = v
		} else {
			m.Team2 = v
		}
	default:
		return fmt.Errorf("unexpected participant type %T", p)
	}
	return nil
}

func setWinner(m *models.Match, p models.Participant, teamMode bool) {
	id := p.ParticipantID()
	if teamMode {
		m.WinnerTeamID = &id
	} else {
		m.WinnerID = &id
	}
}
