package models

type MatchStatus string

const (
	StatusScheduled      MatchStatus = "scheduled"
	StatusInProgress     MatchStatus = "in_progress"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCanceled  MatchStatus = "canceled"
)

// Match: матч сетки на выбывание в том виде, в котором его отдает API.
// В рамках одной сетки заполнена только одна пара полей: Athlete1/Athlete2
// (личные соревнования) либо Team1/Team2 (командные).
type Match struct {
	ID           int         `json:"id"`
	TournamentID int         `json:"tournament_id"`
	Round        int         `json:"round"`
	Position     int         `json:"position"`
	Athlete1     *Athlete    `json:"athlete1,omitempty"`
	Athlete2     *Athlete    `json:"athlete2,omitempty"`
	Team1        *Team       `json:"team1,omitempty"`
	Team2        *Team       `json:"team2,omitempty"`
	WinnerID     *int        `json:"winner_id,omitempty"`
	WinnerTeamID *int        `json:"winner_team_id,omitempty"`
	Status       MatchStatus `json:"status"`
}

// Slot returns the participant in slot 1 or 2 for the given bracket mode.
// A missing participant is returned as an untyped nil.
func (m *Match) Slot(slot int, teamMode bool) Participant {
	if m == nil {
		return nil
	}
	if teamMode {
		t := m.Team1
		if slot == 2 {
			t = m.Team2
		}
		if t == nil {
			return nil
		}
		return t
	}
	a := m.Athlete1
	if slot == 2 {
		a = m.Athlete2
	}
	if a == nil {
		return nil
	}
	return a
}

// HasTeamFields reports whether the match carries team-shaped participants.
func (m *Match) HasTeamFields() bool {
	return m != nil && (m.Team1 != nil || m.Team2 != nil)
}

// HasAthleteFields reports whether the match carries individual participants.
func (m *Match) HasAthleteFields() bool {
	return m != nil && (m.Athlete1 != nil || m.Athlete2 != nil)
}

// Winner возвращает победителя по winner_id / winner_team_id среди участников матча.
func (m *Match) Winner(teamMode bool) Participant {
	if m == nil {
		return nil
	}
	winnerID := m.WinnerID
	if teamMode {
		winnerID = m.WinnerTeamID
	}
	if winnerID == nil {
		return nil
	}
	for _, slot := range []int{1, 2} {
		if p := m.Slot(slot, teamMode); p != nil && p.ParticipantID() == *winnerID {
			return p
		}
	}
	return nil
}
