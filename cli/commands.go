package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dosada05/bracket-board/brackets"
	"github.com/Dosada05/bracket-board/models"
	"github.com/Dosada05/bracket-board/render"
)

// buildFlags are shared by every command that reads a match file.
type buildFlags struct {
	config string
	output string
	strict bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML file with [layout] metrics")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on inconsistent brackets instead of warning")
}

func (c *CLI) loadGraph(path string, f buildFlags) (*models.BracketGraph, brackets.Layout, error) {
	layout, err := loadLayout(f.config)
	if err != nil {
		return nil, brackets.Layout{}, err
	}
	in, err := readBracket(path)
	if err != nil {
		return nil, brackets.Layout{}, err
	}
	g, err := c.buildGraph(in, layout, f.strict)
	if err != nil {
		return nil, brackets.Layout{}, err
	}
	return g, layout, nil
}

func (c *CLI) layoutCommand() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "layout [matches.json]",
		Short: "Print the bracket graph as JSON",
		Long: `Build the node/edge graph of a bracket from a match file.

The match file is either a JSON array of matches or an object
{"participant_type": "solo"|"team", "matches": [...]}. Use "-" for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := c.loadGraph(args[0], f)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(g, "", "  ")
			if err != nil {
				return fmt.Errorf("encode graph: %w", err)
			}
			return c.writeOutput(f.output, append(data, '\n'))
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) dotCommand() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "dot [matches.json]",
		Short: "Print the bracket as Graphviz DOT with pinned positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, layout, err := c.loadGraph(args[0], f)
			if err != nil {
				return err
			}
			return c.writeOutput(f.output, []byte(render.DOT(g, layout)))
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) svgCommand() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "svg [matches.json]",
		Short: "Render the bracket to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, layout, err := c.loadGraph(args[0], f)
			if err != nil {
				return err
			}
			svg, err := render.SVG(cmd.Context(), render.DOT(g, layout))
			if err != nil {
				return err
			}
			return c.writeOutput(f.output, svg)
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) directoryCommand() *cobra.Command {
	var (
		f      buildFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "directory [matches.json]",
		Short: "List participants by display number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := c.loadGraph(args[0], f)
			if err != nil {
				return err
			}
			participants := brackets.SortedDirectory(g.Directory)
			if asJSON {
				data, err := json.MarshalIndent(participants, "", "  ")
				if err != nil {
					return fmt.Errorf("encode directory: %w", err)
				}
				return c.writeOutput(f.output, append(data, '\n'))
			}
			title := fmt.Sprintf("%d participants", len(participants))
			return c.writeOutput(f.output, []byte(directoryTable(title, participants, championID(g))))
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func (c *CLI) demoCommand() *cobra.Command {
	var (
		size      int
		team      bool
		play      int
		output    string
		tourneyID int
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a seeded bracket as a match file",
		Long: `Generate a single-elimination bracket for N placeholder participants.

Byes are completed immediately and their participants advanced to round 2.
--play R decides every playable match of rounds 1..R in favor of slot 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := generateDemo(cmd.Context(), tourneyID, size, team)
			if err != nil {
				return err
			}
			playRounds(matches, team, play)

			ptype := models.ParticipantSolo
			if team {
				ptype = models.ParticipantTeam
			}
			data, err := json.MarshalIndent(bracketFile{ParticipantType: ptype, Matches: matches}, "", "  ")
			if err != nil {
				return fmt.Errorf("encode matches: %w", err)
			}
			c.Logger.Info("bracket generated", "participants", size, "matches", len(matches))
			return c.writeOutput(output, append(data, '\n'))
		},
	}
	cmd.Flags().IntVarP(&size, "participants", "n", 8, "number of participants")
	cmd.Flags().BoolVar(&team, "team", false, "generate a team bracket")
	cmd.Flags().IntVar(&play, "play", 0, "decide matches of the first R rounds")
	cmd.Flags().IntVar(&tourneyID, "tournament", 1, "tournament id written into matches")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

var demoRegions = []string{"Москва", "Санкт-Петербург", "Казань", "Новосибирск", "Екатеринбург"}

func generateDemo(ctx context.Context, tournamentID, n int, team bool) ([]models.Match, error) {
	participants := make([]models.Participant, n)
	for i := range participants {
		region := demoRegions[i%len(demoRegions)]
		if team {
			participants[i] = &models.Team{ID: 100 + i + 1, Name: fmt.Sprintf("Team %d", i+1), Region: &region}
		} else {
			participants[i] = &models.Athlete{
				ID:        i + 1,
				FirstName: fmt.Sprintf("Athlete%d", i+1),
				LastName:  fmt.Sprintf("Demo%d", i+1),
				Region:    &region,
			}
		}
	}
	return brackets.NewSingleEliminationGenerator().GenerateBracket(ctx, brackets.GenerateBracketParams{
		TournamentID: tournamentID,
		TeamMode:     team,
		Participants: participants,
	})
}

// playRounds decides every match of rounds 1..upTo that has both slots filled,
// slot 1 winning, and advances the winner.
func playRounds(matches []models.Match, team bool, upTo int) {
	index := make(map[[2]int]*models.Match, len(matches))
	for i := range matches {
		index[[2]int{matches[i].Round, matches[i].Position}] = &matches[i]
	}
	for round := 1; round <= upTo; round++ {
		for pos := 1; ; pos++ {
			m, ok := index[[2]int{round, pos}]
			if !ok {
				break
			}
			if m.Status != models.MatchStatusCompleted {
				winner := m.Slot(1, team)
				if winner == nil || m.Slot(2, team) == nil {
					continue
				}
				id := winner.ParticipantID()
				if team {
					m.WinnerTeamID = &id
				} else {
					m.WinnerID = &id
				}
				m.Status = models.MatchStatusCompleted
			}
			next, ok := index[[2]int{round + 1, (pos + 1) / 2}]
			if !ok {
				continue
			}
			winner := m.Winner(team)
			if winner == nil {
				continue
			}
			advance(next, pos%2 == 1, winner)
		}
	}
}

func advance(next *models.Match, slot1 bool, p models.Participant) {
	switch v := p.(type) {
	case *models.Athlete:
		if slot1 {
			next.Athlete1 = v
		} else {
			next.Athlete2 = v
		}
	case *models.Team:
		if slot1 {
			next.Team1 = v
		} else {
			next.Team2 = v
		}
	}
}

// championID returns the participant id of the champion node, or 0.
func championID(g *models.BracketGraph) int {
	for _, n := range g.Nodes {
		if n.Type != models.NodeTypeChampion {
			continue
		}
		for _, info := range g.Directory {
			if info.DisplayNumber == n.Data.DisplayNumber {
				return info.ParticipantID
			}
		}
	}
	return 0
}
