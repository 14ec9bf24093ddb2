package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-board/brackets"
	"github.com/Dosada05/bracket-board/models"
	"github.com/Dosada05/bracket-board/repositories"
)

// Broadcaster рассылает сообщения подписчикам комнаты (websocket hub).
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type RecordWinnerInput struct {
	ParticipantID int `json:"participant_id"`
}

type MatchService interface {
	RecordWinner(ctx context.Context, matchID int, input RecordWinnerInput) (*models.Match, error)
}

type matchService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	txRunner       repositories.TxRunner
	bracketService BracketService
	broadcaster    Broadcaster
	logger         *slog.Logger
}

func NewMatchService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	txRunner repositories.TxRunner,
	bracketService BracketService,
	broadcaster Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		txRunner:       txRunner,
		bracketService: bracketService,
		broadcaster:    broadcaster,
		logger:         logger.With(slog.String("service", "match")),
	}
}

// RecordWinner фиксирует победителя матча и переносит его в соответствующий слот
// следующего раунда. Если следующий матч уже сыгран с другим участником, результат
// изменить нельзя.
func (s *matchService) RecordWinner(ctx context.Context, matchID int, input RecordWinnerInput) (*models.Match, error) {
	if input.ParticipantID <= 0 {
		return nil, fmt.Errorf("%w: participant_id must be positive", ErrValidationFailed)
	}

	var updated *models.Match
	err := s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return fmt.Errorf("%w: id %d", ErrMatchNotFound, matchID)
			}
			return err
		}

		tournament, err := s.tournamentRepo.GetByID(ctx, exec, match.TournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return fmt.Errorf("%w: id %d", ErrTournamentNotFound, match.TournamentID)
			}
			return err
		}
		teamMode := tournament.ParticipantType.TeamMode()

		winner := findSlot(match, input.ParticipantID, teamMode)
		if winner == nil {
			return fmt.Errorf("%w: participant %d, match %d", ErrWinnerNotInMatch, input.ParticipantID, matchID)
		}

		next, err := s.matchRepo.GetByPosition(ctx, exec, match.TournamentID, match.Round+1, (match.Position+1)/2)
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			next = nil // финал
		case err != nil:
			return err
		}

		slot := 2
		if match.Position%2 == 1 {
			slot = 1
		}
		if next != nil && next.Status == models.MatchStatusCompleted {
			if occupant := next.Slot(slot, teamMode); occupant == nil || occupant.ParticipantID() != input.ParticipantID {
				return fmt.Errorf("%w: match %d", ErrResultLocked, next.ID)
			}
		}

		id := input.ParticipantID
		var winnerID, winnerTeamID *int
		if teamMode {
			winnerTeamID = &id
		} else {
			winnerID = &id
		}
		if err := s.matchRepo.SetResult(ctx, exec, match.ID, winnerID, winnerTeamID, models.MatchStatusCompleted); err != nil {
			return err
		}
		match.WinnerID, match.WinnerTeamID = winnerID, winnerTeamID
		match.Status = models.MatchStatusCompleted

		if next != nil {
			if err := s.matchRepo.SetSlot(ctx, exec, next.ID, slot, &id, teamMode); err != nil {
				return err
			}
		}
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match winner recorded",
		slog.Int("match_id", updated.ID),
		slog.Int("tournament_id", updated.TournamentID),
		slog.Int("winner_id", input.ParticipantID))

	s.publish(ctx, updated)
	return updated, nil
}

// publish перестраивает граф и рассылает его. Ошибки только логируются: результат
// матча уже сохранен.
func (s *matchService) publish(ctx context.Context, match *models.Match) {
	room := brackets.RoomForTournament(match.TournamentID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(room, brackets.WebSocketMessage{
			Type:    brackets.MessageMatchUpdated,
			Payload: match,
			RoomID:  room,
		})
	}

	graph, err := s.bracketService.Rebuild(ctx, match.TournamentID)
	if err != nil {
		s.logger.Error("failed to rebuild bracket graph",
			slog.Int("tournament_id", match.TournamentID), slog.Any("error", err))
		return
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(room, brackets.WebSocketMessage{
			Type:    brackets.MessageBracketUpdated,
			Payload: graph,
			RoomID:  room,
		})
	}
}

func findSlot(m *models.Match, participantID int, teamMode bool) models.Participant {
	for _, slot := range []int{1, 2} {
		if p := m.Slot(slot, teamMode); p != nil && p.ParticipantID() == participantID {
			return p
		}
	}
	return nil
}
