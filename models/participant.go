package models

import "strings"

// Participant is either an *Athlete or a *Team. The variant is chosen once per
// bracket, never per match.
type Participant interface {
	ParticipantID() int
	isParticipant()
}

type Athlete struct {
	ID        int     `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Region    *string `json:"region,omitempty"`
}

func (a *Athlete) ParticipantID() int { return a.ID }
func (a *Athlete) isParticipant()     {}

// FullName returns "Last First", the way protocols list athletes.
func (a *Athlete) FullName() string {
	return strings.TrimSpace(a.LastName + " " + a.FirstName)
}

func (t *Team) ParticipantID() int { return t.ID }
func (t *Team) isParticipant()     {}
