package models

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

type ParticipantType string

const (
	ParticipantSolo ParticipantType = "solo"
	ParticipantTeam ParticipantType = "team"
)

// TeamMode reports whether brackets of this type are built from team pairs.
func (t ParticipantType) TeamMode() bool {
	return t == ParticipantTeam
}

// Tournament: турнир (весовая категория или командная жеребьевка), для которого строится сетка.
type Tournament struct {
	ID              int              `json:"id" db:"id"`
	Name            string           `json:"name" db:"name"`
	ParticipantType ParticipantType  `json:"participant_type" db:"participant_type"`
	Status          TournamentStatus `json:"status" db:"status"`
}
