// Package cache stores built bracket graphs between match updates.
package cache

import (
	"context"
	"errors"
	"strconv"

	"github.com/Dosada05/bracket-board/models"
)

var ErrCacheUnavailable = errors.New("graph cache unavailable")

// GraphCache holds the last built graph per tournament. A miss is (nil, false, nil).
type GraphCache interface {
	Get(ctx context.Context, tournamentID int) (*models.BracketGraph, bool, error)
	Set(ctx context.Context, tournamentID int, graph *models.BracketGraph) error
	Invalidate(ctx context.Context, tournamentID int) error
}

func graphKey(tournamentID int) string {
	return "bracket:graph:" + strconv.Itoa(tournamentID)
}
