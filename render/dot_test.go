package render

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-board/brackets"
	"github.com/Dosada05/bracket-board/models"
)

func sampleGraph() *models.BracketGraph {
	winner := 1
	a1 := &models.Athlete{ID: 1, FirstName: "Ivan", LastName: "Petrov"}
	a2 := &models.Athlete{ID: 2, FirstName: "Oleg", LastName: "Sidorov"}
	matches := []models.Match{
		{ID: 1, Round: 1, Position: 1, Athlete1: a1, Athlete2: a2, WinnerID: &winner, Status: models.MatchStatusCompleted},
	}
	return brackets.Build(matches, nil, brackets.Options{})
}

func TestDOT_PinsEveryNode(t *testing.T) {
	g := sampleGraph()
	dot := DOT(g, brackets.Layout{})

	assert.True(t, strings.HasPrefix(dot, "digraph bracket {\n"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	for _, n := range g.Nodes {
		assert.Contains(t, dot, `"`+n.ID+`" [`)
	}
	// p1-r1-m1-pos1 sits at (40, 60): center (150, 80) in points.
	assert.Contains(t, dot, `"p1-r1-m1-pos1" [label="1. Petrov Ivan", pos="2.083,-1.111!"`)
	assert.Equal(t, len(g.Nodes), strings.Count(dot, `!"`))
}

func TestDOT_Edges(t *testing.T) {
	g := sampleGraph()
	dot := DOT(g, brackets.DefaultLayout())

	assert.Equal(t, len(g.Edges), strings.Count(dot, " -> "))
	assert.Contains(t, dot, `"p1-r1-m1-pos1" -> "final-winner" [color="#f5a623", penwidth=2.5];`)
	assert.Contains(t, dot, `"p2-r1-m1-pos2" -> "final-winner" [color="#b1b1b7", penwidth=1.5];`)
}

func TestDOT_NodeStyles(t *testing.T) {
	dot := DOT(sampleGraph(), brackets.DefaultLayout())

	assert.Contains(t, dot, `"header-1" [label="Final"`)
	assert.Contains(t, dot, "shape=plaintext")
	assert.Contains(t, dot, `fillcolor="#fdf1dc"`)
}

func TestDOT_EmptyGraph(t *testing.T) {
	dot := DOT(brackets.Build(nil, nil, brackets.Options{}), brackets.Layout{})
	assert.NotContains(t, dot, " -> ")
	assert.NotContains(t, dot, "pos=")
}

func TestDOT_SkipsEdgesToMissingMatches(t *testing.T) {
	a := func(id int, last string) *models.Athlete {
		return &models.Athlete{ID: id, FirstName: "A", LastName: last}
	}
	matches := []models.Match{
		{ID: 1, Round: 1, Position: 1, Athlete1: a(1, "One"), Athlete2: a(2, "Two")},
		{ID: 2, Round: 1, Position: 2, Athlete1: a(3, "Three"), Athlete2: a(4, "Four")},
		{ID: 3, Round: 1, Position: 3, Athlete1: a(5, "Five"), Athlete2: a(6, "Six")},
		{ID: 4, Round: 2, Position: 1},
	}
	g := brackets.Build(matches, nil, brackets.Options{})
	require.Len(t, g.Edges, 6)

	dot := DOT(g, brackets.DefaultLayout())
	assert.Equal(t, 4, strings.Count(dot, " -> "))
	assert.NotContains(t, dot, "empty-r2-m2-pos1")
}

func TestSVG(t *testing.T) {
	svg, err := SVG(context.Background(), DOT(sampleGraph(), brackets.Layout{}))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "Petrov Ivan")
}
