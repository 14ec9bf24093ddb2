package brackets

import (
	"context"

	"github.com/Dosada05/bracket-board/models"
)

type GenerateBracketParams struct {
	TournamentID int
	TeamMode     bool
	Participants []models.Participant
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]models.Match, error)

	GetName() string
}
