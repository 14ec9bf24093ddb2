package brackets

import "github.com/Dosada05/bracket-board/models"

// Placeholder is shown for slots with no participant.
const Placeholder = "—"

// Resolver resolves display text and match outcomes for participants. Build never
// derives winners itself.
type Resolver interface {
	Name(p models.Participant) string
	Region(p models.Participant) string
	Winner(m *models.Match) models.Participant
}

// ResolverFuncs adapts plain functions to Resolver. Nil functions fall back to
// the default resolver for the given mode.
type ResolverFuncs struct {
	TeamMode   bool
	NameFunc   func(p models.Participant) string
	RegionFunc func(p models.Participant) string
	WinnerFunc func(m *models.Match) models.Participant
}

func (f ResolverFuncs) Name(p models.Participant) string {
	if f.NameFunc != nil {
		return f.NameFunc(p)
	}
	return defaultResolver{teamMode: f.TeamMode}.Name(p)
}

func (f ResolverFuncs) Region(p models.Participant) string {
	if f.RegionFunc != nil {
		return f.RegionFunc(p)
	}
	return defaultResolver{teamMode: f.TeamMode}.Region(p)
}

func (f ResolverFuncs) Winner(m *models.Match) models.Participant {
	if f.WinnerFunc != nil {
		return f.WinnerFunc(m)
	}
	return defaultResolver{teamMode: f.TeamMode}.Winner(m)
}

type defaultResolver struct {
	teamMode bool
}

// NewResolver returns the resolver used by the service: athlete "Last First" or
// team name, region or placeholder, winner by winner_id / winner_team_id.
func NewResolver(teamMode bool) Resolver {
	return defaultResolver{teamMode: teamMode}
}

func (r defaultResolver) Name(p models.Participant) string {
	switch v := present(p).(type) {
	case *models.Athlete:
		if name := v.FullName(); name != "" {
			return name
		}
	case *models.Team:
		if v.Name != "" {
			return v.Name
		}
	}
	return Placeholder
}

func (r defaultResolver) Region(p models.Participant) string {
	var region *string
	switch v := present(p).(type) {
	case *models.Athlete:
		region = v.Region
	case *models.Team:
		region = v.Region
	}
	if region == nil || *region == "" {
		return Placeholder
	}
	return *region
}

func (r defaultResolver) Winner(m *models.Match) models.Participant {
	return m.Winner(r.teamMode)
}
