package cache

import (
	"context"

	"github.com/Dosada05/bracket-board/models"
)

// NullCache never stores anything. Used when no Redis is configured.
type NullCache struct{}

func NewNullCache() GraphCache { return NullCache{} }

func (NullCache) Get(context.Context, int) (*models.BracketGraph, bool, error) {
	return nil, false, nil
}

func (NullCache) Set(context.Context, int, *models.BracketGraph) error { return nil }

func (NullCache) Invalidate(context.Context, int) error { return nil }
