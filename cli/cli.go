// Package cli implements the bracketctl command-line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Dosada05/bracket-board/brackets"
	"github.com/Dosada05/bracket-board/models"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer
}

func New(out, logOut io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(logOut, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		out: out,
	}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "bracketctl",
		Short:        "bracketctl lays out single-elimination brackets",
		Long:         `bracketctl builds the node/edge graph of a single-elimination bracket from a match file and prints it as JSON, Graphviz DOT, SVG or a participant table.`,
		SilenceUsage: true,
	}

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.svgCommand())
	root.AddCommand(c.directoryCommand())
	root.AddCommand(c.demoCommand())
	return root
}

// bracketFile is the input format: either a bare JSON array of matches or an
// object with an explicit mode.
type bracketFile struct {
	ParticipantType models.ParticipantType `json:"participant_type"`
	Matches         []models.Match         `json:"matches"`
}

type bracketInput struct {
	Matches  []models.Match
	TeamMode *bool
}

func readBracket(path string) (*bracketInput, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return parseBracket(data)
}

func parseBracket(data []byte) (*bracketInput, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, errors.New("empty match file")
	}

	if strings.HasPrefix(trimmed, "[") {
		var matches []models.Match
		if err := json.Unmarshal(data, &matches); err != nil {
			return nil, fmt.Errorf("decode matches: %w", err)
		}
		return &bracketInput{Matches: matches}, nil
	}

	var f bracketFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode bracket file: %w", err)
	}
	in := &bracketInput{Matches: f.Matches}
	switch f.ParticipantType {
	case "":
	case models.ParticipantSolo, models.ParticipantTeam:
		teamMode := f.ParticipantType.TeamMode()
		in.TeamMode = &teamMode
	default:
		return nil, fmt.Errorf("unknown participant_type %q", f.ParticipantType)
	}
	return in, nil
}

// layoutConfig is the TOML file accepted by --config:
//
//	[layout]
//	node_width = 240
//	pair_gap = 12
type layoutConfig struct {
	Layout brackets.Layout `toml:"layout"`
}

// loadLayout returns the default metrics overridden by keys present in path.
func loadLayout(path string) (brackets.Layout, error) {
	cfg := layoutConfig{Layout: brackets.DefaultLayout()}
	if path == "" {
		return cfg.Layout, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return brackets.Layout{}, fmt.Errorf("load layout config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return brackets.Layout{}, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Layout.NodeWidth <= 0 || cfg.Layout.NodeHeight <= 0 {
		return brackets.Layout{}, fmt.Errorf("layout config %s: node_width and node_height must be positive", path)
	}
	return cfg.Layout, nil
}

// buildGraph validates (unless lenient) and lays out the bracket.
func (c *CLI) buildGraph(in *bracketInput, layout brackets.Layout, strict bool) (*models.BracketGraph, error) {
	teamMode := false
	if in.TeamMode != nil {
		teamMode = *in.TeamMode
	} else {
		for i := range in.Matches {
			if in.Matches[i].HasTeamFields() {
				teamMode = true
				break
			}
		}
	}

	if err := brackets.Validate(in.Matches, teamMode); err != nil {
		if strict {
			return nil, err
		}
		c.Logger.Warn("bracket has inconsistencies", "error", err)
	}

	g := brackets.Build(in.Matches, brackets.NewResolver(teamMode), brackets.Options{
		TeamMode: &teamMode,
		Layout:   layout,
	})
	c.Logger.Debug("bracket built", "matches", len(in.Matches), "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, nil
}

// writeOutput writes to the file at path, or to the CLI's output when path is empty.
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	c.Logger.Info("written", "file", path, "bytes", len(data))
	return nil
}
