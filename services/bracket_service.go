package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/bracket-board/brackets"
	"github.com/Dosada05/bracket-board/cache"
	"github.com/Dosada05/bracket-board/models"
	"github.com/Dosada05/bracket-board/repositories"
)

type BracketService interface {
	GetGraph(ctx context.Context, tournamentID int) (*models.BracketGraph, error)
	Rebuild(ctx context.Context, tournamentID int) (*models.BracketGraph, error)
	GetDirectory(ctx context.Context, tournamentID int) ([]models.ParticipantInfo, error)
	SearchParticipants(ctx context.Context, tournamentID int, query string) ([]models.ParticipantInfo, error)
	Layout() brackets.Layout
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	graphCache     cache.GraphCache
	layout         brackets.Layout
	logger         *slog.Logger
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	graphCache cache.GraphCache,
	layout brackets.Layout,
	logger *slog.Logger,
) BracketService {
	if graphCache == nil {
		graphCache = cache.NewNullCache()
	}
	if layout == (brackets.Layout{}) {
		layout = brackets.DefaultLayout()
	}
	return &bracketService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		graphCache:     graphCache,
		layout:         layout,
		logger:         logger.With(slog.String("service", "bracket")),
	}
}

func (s *bracketService) Layout() brackets.Layout {
	return s.layout
}

func (s *bracketService) GetGraph(ctx context.Context, tournamentID int) (*models.BracketGraph, error) {
	graph, ok, err := s.graphCache.Get(ctx, tournamentID)
	if err != nil {
		// Кэш не критичен: строим граф заново.
		s.logger.Warn("graph cache read failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	} else if ok {
		return graph, nil
	}
	return s.build(ctx, tournamentID)
}

func (s *bracketService) Rebuild(ctx context.Context, tournamentID int) (*models.BracketGraph, error) {
	if err := s.graphCache.Invalidate(ctx, tournamentID); err != nil {
		s.logger.Warn("graph cache invalidation failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}
	return s.build(ctx, tournamentID)
}

func (s *bracketService) build(ctx context.Context, tournamentID int) (*models.BracketGraph, error) {
	var (
		tournament *models.Tournament
		matches    []models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, nil, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
			}
			return fmt.Errorf("failed to fetch tournament %d: %w", tournamentID, err)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		m, err := s.matchRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
		}
		matches = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	teamMode := tournament.ParticipantType.TeamMode()
	if err := brackets.Validate(matches, teamMode); err != nil {
		return nil, fmt.Errorf("%w: tournament %d: %w", ErrBracketInconsistent, tournamentID, err)
	}

	graph := brackets.Build(matches, brackets.NewResolver(teamMode), brackets.Options{
		TeamMode: &teamMode,
		Layout:   s.layout,
	})
	s.logger.Debug("bracket graph built",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", len(matches)),
		slog.Int("nodes", len(graph.Nodes)),
		slog.Int("edges", len(graph.Edges)))

	if err := s.graphCache.Set(ctx, tournamentID, graph); err != nil {
		s.logger.Warn("graph cache write failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}
	return graph, nil
}

func (s *bracketService) GetDirectory(ctx context.Context, tournamentID int) ([]models.ParticipantInfo, error) {
	graph, err := s.GetGraph(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.SortedDirectory(graph.Directory), nil
}

// SearchParticipants ищет участников по имени (нечеткий поиск) или по номеру в сетке.
// Пустой запрос возвращает весь справочник.
func (s *bracketService) SearchParticipants(ctx context.Context, tournamentID int, query string) ([]models.ParticipantInfo, error) {
	directory, err := s.GetDirectory(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(query), "#"))
	if query == "" {
		return directory, nil
	}

	if n, convErr := strconv.Atoi(query); convErr == nil {
		for _, info := range directory {
			if info.DisplayNumber == n {
				return []models.ParticipantInfo{info}, nil
			}
		}
		return []models.ParticipantInfo{}, nil
	}

	names := make([]string, len(directory))
	for i, info := range directory {
		names[i] = info.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	found := make([]models.ParticipantInfo, 0, len(ranks))
	for _, r := range ranks {
		found = append(found, directory[r.OriginalIndex])
	}
	return found, nil
}
