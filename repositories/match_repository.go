package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/bracket-board/models"
)

var (
	ErrMatchNotFound           = errors.New("bracket match not found")
	ErrMatchTournamentInvalid  = errors.New("bracket match tournament conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("bracket match participant conflict or invalid")
	ErrMatchSlotConflict       = errors.New("bracket match round/position already taken")
)

type MatchRepository interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetByPosition(ctx context.Context, exec SQLExecutor, tournamentID, round, position int) (*models.Match, error)
	SetResult(ctx context.Context, exec SQLExecutor, matchID int, winnerID *int, winnerTeamID *int, status models.MatchStatus) error
	SetSlot(ctx context.Context, exec SQLExecutor, matchID int, slot int, participantID *int, teamMode bool) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const selectMatch = `
	SELECT m.id, m.tournament_id, m.round, m.position, m.winner_id, m.winner_team_id, m.status,
	       a1.id, a1.first_name, a1.last_name, a1.region,
	       a2.id, a2.first_name, a2.last_name, a2.region,
	       t1.id, t1.name, t1.region,
	       t2.id, t2.name, t2.region
	FROM bracket_matches m
	LEFT JOIN athletes a1 ON a1.id = m.athlete1_id
	LEFT JOIN athletes a2 ON a2.id = m.athlete2_id
	LEFT JOIN teams t1 ON t1.id = m.team1_id
	LEFT JOIN teams t2 ON t2.id = m.team2_id`

type athleteColumns struct {
	id        sql.NullInt64
	firstName sql.NullString
	lastName  sql.NullString
	region    sql.NullString
}

func (c athleteColumns) athlete() *models.Athlete {
	if !c.id.Valid {
		return nil
	}
	return &models.Athlete{
		ID:        int(c.id.Int64),
		FirstName: c.firstName.String,
		LastName:  c.lastName.String,
		Region:    nullableString(c.region),
	}
}

type teamColumns struct {
	id     sql.NullInt64
	name   sql.NullString
	region sql.NullString
}

func (c teamColumns) team() *models.Team {
	if !c.id.Valid {
		return nil
	}
	return &models.Team{
		ID:     int(c.id.Int64),
		Name:   c.name.String,
		Region: nullableString(c.region),
	}
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m                    models.Match
		winnerID, winnerTeam sql.NullInt64
		a1, a2               athleteColumns
		t1, t2               teamColumns
	)
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.Round, &m.Position, &winnerID, &winnerTeam, &m.Status,
		&a1.id, &a1.firstName, &a1.lastName, &a1.region,
		&a2.id, &a2.firstName, &a2.lastName, &a2.region,
		&t1.id, &t1.name, &t1.region,
		&t2.id, &t2.name, &t2.region,
	)
	if err != nil {
		return nil, err
	}
	m.WinnerID = nullableInt(winnerID)
	m.WinnerTeamID = nullableInt(winnerTeam)
	m.Athlete1 = a1.athlete()
	m.Athlete2 = a2.athlete()
	m.Team1 = t1.team()
	m.Team2 = t2.team()
	return &m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := selectMatch + `
	WHERE m.tournament_id = $1
	ORDER BY m.round ASC, m.position ASC, m.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bracket matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan bracket match row: %w", scanErr)
		}
		matches = append(matches, *m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bracket match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := selectMatch + `
	WHERE m.id = $1
	FOR UPDATE OF m`

	m, err := scanMatch(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan bracket match by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByPosition(ctx context.Context, exec SQLExecutor, tournamentID, round, position int) (*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := selectMatch + `
	WHERE m.tournament_id = $1 AND m.round = $2 AND m.position = $3
	FOR UPDATE OF m`

	m, err := scanMatch(exec.QueryRowContext(ctx, query, tournamentID, round, position))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan bracket match (tournament %d, round %d, position %d): %w",
			tournamentID, round, position, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) SetResult(ctx context.Context, exec SQLExecutor, matchID int, winnerID *int, winnerTeamID *int, status models.MatchStatus) error {
	query := `UPDATE bracket_matches SET winner_id = $1, winner_team_id = $2, status = $3 WHERE id = $4`
	result, err := exec.ExecContext(ctx, query, winnerID, winnerTeamID, status, matchID)
	if err != nil {
		return fmt.Errorf("SetResult: failed to execute query for match %d: %w", matchID, r.handleMatchError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetSlot(ctx context.Context, exec SQLExecutor, matchID int, slot int, participantID *int, teamMode bool) error {
	var column string
	switch {
	case teamMode && slot == 1:
		column = "team1_id"
	case teamMode && slot == 2:
		column = "team2_id"
	case slot == 1:
		column = "athlete1_id"
	case slot == 2:
		column = "athlete2_id"
	default:
		return fmt.Errorf("SetSlot: invalid slot %d", slot)
	}

	query := `UPDATE bracket_matches SET ` + column + ` = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, participantID, matchID)
	if err != nil {
		return fmt.Errorf("SetSlot: failed to execute query for match %d: %w", matchID, r.handleMatchError(err))
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	// "23503": foreign_key_violation, "23505": unique_violation
	switch pqErr.Constraint {
	case "bracket_matches_tournament_id_fkey":
		return ErrMatchTournamentInvalid
	case "bracket_matches_athlete1_id_fkey", "bracket_matches_athlete2_id_fkey",
		"bracket_matches_team1_id_fkey", "bracket_matches_team2_id_fkey",
		"bracket_matches_winner_id_fkey", "bracket_matches_winner_team_id_fkey":
		return ErrMatchParticipantInvalid
	case "bracket_matches_slot_key":
		return ErrMatchSlotConflict
	}
	return err
}
