package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/bracket-board/models"
)

const (
	ChampionNodeID     = "final-winner"
	WinnerHeaderNodeID = "header-winner"
	GroupANodeID       = "label-group-a"
	GroupBNodeID       = "label-group-b"

	edgeType = "smoothstep"
)

var (
	edgeStyleDefault = models.EdgeStyle{Stroke: "#b1b1b7", StrokeWidth: 1.5}
	edgeStyleWinner  = models.EdgeStyle{Stroke: "#f5a623", StrokeWidth: 2.5}
)

// Options управляет построением графа сетки.
type Options struct {
	// TeamMode явно задает тип сетки. nil: определить по первому матчу первого раунда.
	TeamMode *bool
	// Layout: метрики раскладки; нулевое значение означает DefaultLayout().
	Layout Layout
}

type slotKey struct {
	round    int
	position int
	slot     int
}

type builder struct {
	res      Resolver
	layout   Layout
	teamMode bool

	rounds  []int
	byRound map[int][]*models.Match
	index   map[int]map[int]*models.Match

	numbers   map[int]int
	directory map[int]models.ParticipantInfo

	centers    map[int]map[int]float64
	slotIDs    map[slotKey]string
	slotWinner map[slotKey]bool
	hasAny     map[int]map[int]bool

	nodes []models.GraphNode
	edges []models.GraphEdge
}

// Build reconstructs a single-elimination tree from a flat match list and lays it
// out as positioned nodes and directed edges, together with the participant
// directory. It never fails: missing data is rendered as placeholders.
//
// Build is pure; the same input always yields the same graph, node and edge order
// included.
func Build(matches []models.Match, res Resolver, opts Options) *models.BracketGraph {
	if len(matches) == 0 {
		return &models.BracketGraph{
			Nodes:     []models.GraphNode{},
			Edges:     []models.GraphEdge{},
			Directory: map[int]models.ParticipantInfo{},
		}
	}
	b := newBuilder(matches, res, opts)
	b.numberFirstRound()
	b.placeNodes()
	b.wireEdges()

	return &models.BracketGraph{
		Nodes:     b.nodes,
		Edges:     b.edges,
		Directory: b.directory,
	}
}

func newBuilder(matches []models.Match, res Resolver, opts Options) *builder {
	layout := opts.Layout
	if layout == (Layout{}) {
		layout = DefaultLayout()
	}

	b := &builder{
		res:        res,
		layout:     layout,
		byRound:    make(map[int][]*models.Match),
		index:      make(map[int]map[int]*models.Match),
		numbers:    make(map[int]int),
		directory:  make(map[int]models.ParticipantInfo),
		centers:    make(map[int]map[int]float64),
		slotIDs:    make(map[slotKey]string),
		slotWinner: make(map[slotKey]bool),
		hasAny:     make(map[int]map[int]bool),
		nodes:      []models.GraphNode{},
		edges:      []models.GraphEdge{},
	}
	b.groupRounds(matches)

	if opts.TeamMode != nil {
		b.teamMode = *opts.TeamMode
	} else {
		b.teamMode = b.byRound[b.rounds[0]][0].HasTeamFields()
	}
	if b.res == nil {
		b.res = NewResolver(b.teamMode)
	}
	return b
}

// groupRounds раскладывает матчи по раундам. Ключи раундов сортируются численно,
// при повторе пары (round, position) остается матч с меньшим ID.
func (b *builder) groupRounds(matches []models.Match) {
	sorted := make([]*models.Match, len(matches))
	for i := range matches {
		sorted[i] = &matches[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Round != sorted[j].Round {
			return sorted[i].Round < sorted[j].Round
		}
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].ID < sorted[j].ID
	})

	for _, m := range sorted {
		if _, ok := b.index[m.Round]; !ok {
			b.index[m.Round] = make(map[int]*models.Match)
			b.rounds = append(b.rounds, m.Round)
		}
		if _, dup := b.index[m.Round][m.Position]; dup {
			continue
		}
		b.index[m.Round][m.Position] = m
		b.byRound[m.Round] = append(b.byRound[m.Round], m)
	}
}

func (b *builder) numberFirstRound() {
	for _, m := range b.byRound[b.rounds[0]] {
		for _, slot := range []int{1, 2} {
			if p := m.Slot(slot, b.teamMode); p != nil {
				b.number(p)
			}
		}
	}
}

// number returns the participant's display number, assigning the next free one
// on first sight.
func (b *builder) number(p models.Participant) int {
	id := p.ParticipantID()
	if n, ok := b.numbers[id]; ok {
		return n
	}
	n := len(b.numbers) + 1
	b.numbers[id] = n
	b.directory[id] = models.ParticipantInfo{
		ParticipantID: id,
		DisplayNumber: n,
		Name:          b.res.Name(p),
		Region:        b.res.Region(p),
	}
	return n
}

func (b *builder) placeNodes() {
	last := b.rounds[len(b.rounds)-1]
	for i, round := range b.rounds {
		b.nodes = append(b.nodes, models.GraphNode{
			ID:       fmt.Sprintf("header-%d", round),
			Type:     models.NodeTypeHeader,
			Position: models.Position{X: b.layout.columnX(i), Y: b.layout.HeaderY},
			Data:     models.NodeData{Label: RoundLabel(last, round), Round: round},
		})
	}

	first := b.byRound[b.rounds[0]]
	half := halfCount(len(first))
	var groupA, groupB bool
	for _, m := range first {
		if m.Position <= half {
			groupA = true
		} else {
			groupB = true
		}
	}
	if groupA {
		b.nodes = append(b.nodes, b.groupLabel(GroupANodeID, "A", b.layout.groupOrigin(false, half)))
	}
	if groupB {
		b.nodes = append(b.nodes, b.groupLabel(GroupBNodeID, "B", b.layout.groupOrigin(true, half)))
	}

	for i, round := range b.rounds {
		b.centers[round] = make(map[int]float64)
		b.hasAny[round] = make(map[int]bool)
		roundHalf := halfCount(len(b.byRound[round]))

		for _, m := range b.byRound[round] {
			center := b.pairCenter(i, m.Position, half, roundHalf)
			b.centers[round][m.Position] = center
			top := center - b.layout.pairHeight()/2

			for _, slot := range []int{1, 2} {
				p := b.slotParticipant(i, m, slot)
				y := top
				if slot == 2 {
					y = top + b.layout.NodeHeight + b.layout.PairGap
				}
				b.placeSlot(m, slot, p, models.Position{X: b.layout.columnX(i), Y: y})
			}
		}
	}

	b.placeChampion()
}

// pairCenter: в первом раунде по смещению группы, дальше среднее центров двух
// пар-источников предыдущего раунда.
func (b *builder) pairCenter(roundIdx, position, firstHalf, roundHalf int) float64 {
	if roundIdx == 0 {
		return b.layout.groupCenter(position, firstHalf, firstHalf)
	}

	prev := b.centers[b.rounds[roundIdx-1]]
	c1, ok1 := prev[2*position-1]
	c2, ok2 := prev[2*position]
	switch {
	case ok1 && ok2:
		return (c1 + c2) / 2
	case ok1:
		return c1
	case ok2:
		return c2
	}
	return b.layout.groupCenter(position, roundHalf, firstHalf)
}

// slotParticipant resolves who occupies a slot. In later rounds the slot holds the
// winner of the feeder match; when the feeder record is absent the match's own
// field is used, which is how bye entrants show up.
func (b *builder) slotParticipant(roundIdx int, m *models.Match, slot int) models.Participant {
	if roundIdx == 0 {
		return m.Slot(slot, b.teamMode)
	}
	feeder := b.index[b.rounds[roundIdx-1]][2*m.Position-2+slot]
	if feeder == nil {
		return m.Slot(slot, b.teamMode)
	}
	return present(b.res.Winner(feeder))
}

func (b *builder) placeSlot(m *models.Match, slot int, p models.Participant, pos models.Position) {
	key := slotKey{round: m.Round, position: m.Position, slot: slot}
	matchID := m.ID
	data := models.NodeData{
		Round:         m.Round,
		Position:      m.Position,
		Slot:          slot,
		ActivationRef: &matchID,
	}
	node := models.GraphNode{
		Position:       pos,
		SourcePosition: models.SideRight,
		TargetPosition: models.SideLeft,
	}

	if p == nil {
		node.ID = fmt.Sprintf("empty-r%d-m%d-pos%d", m.Round, m.Position, slot)
		node.Type = models.NodeTypeEmpty
		data.Name = b.res.Name(nil)
		data.Region = b.res.Region(nil)
		data.Label = data.Name
	} else {
		b.hasAny[m.Round][m.Position] = true
		num := b.number(p)
		info := b.directory[p.ParticipantID()]
		winner := present(b.res.Winner(m))

		node.ID = fmt.Sprintf("p%d-r%d-m%d-pos%d", num, m.Round, m.Position, slot)
		node.Type = models.NodeTypeParticipant
		data.Name = info.Name
		data.Region = info.Region
		data.DisplayNumber = num
		data.Label = fmt.Sprintf("%d. %s", num, info.Name)
		data.IsWinner = winner != nil && winner.ParticipantID() == p.ParticipantID()
		b.slotWinner[key] = data.IsWinner
	}

	node.Data = data
	b.slotIDs[key] = node.ID
	b.nodes = append(b.nodes, node)
}

func (b *builder) placeChampion() {
	final := b.rounds[len(b.rounds)-1]
	finalMatch := b.byRound[final][0]
	winner := present(b.res.Winner(finalMatch))
	if winner == nil {
		return
	}

	center, ok := b.centers[final][finalMatch.Position]
	if !ok && len(b.rounds) > 1 {
		semis := b.centers[b.rounds[len(b.rounds)-2]]
		center = (semis[1] + semis[2]) / 2
	}

	num := b.number(winner)
	info := b.directory[winner.ParticipantID()]
	col := b.layout.columnX(len(b.rounds))
	matchID := finalMatch.ID

	b.nodes = append(b.nodes,
		models.GraphNode{
			ID:       WinnerHeaderNodeID,
			Type:     models.NodeTypeHeader,
			Position: models.Position{X: col, Y: b.layout.HeaderY},
			Data:     models.NodeData{Label: "Winner"},
		},
		models.GraphNode{
			ID:             ChampionNodeID,
			Type:           models.NodeTypeChampion,
			Position:       models.Position{X: col, Y: center - b.layout.NodeHeight/2},
			TargetPosition: models.SideLeft,
			Data: models.NodeData{
				Label:         fmt.Sprintf("%d. %s", num, info.Name),
				Name:          info.Name,
				Region:        info.Region,
				DisplayNumber: num,
				IsWinner:      true,
				IsFinalWinner: true,
				Round:         final,
				Position:      finalMatch.Position,
				ActivationRef: &matchID,
			},
		},
	)
}

func (b *builder) wireEdges() {
	for i := 0; i < len(b.rounds)-1; i++ {
		round, next := b.rounds[i], b.rounds[i+1]
		for _, m := range b.byRound[round] {
			if !b.hasAny[round][m.Position] {
				continue
			}
			targetSlot := 2
			if m.Position%2 == 1 {
				targetSlot = 1
			}
			nextPos := (m.Position + 1) / 2
			target, ok := b.slotIDs[slotKey{round: next, position: nextPos, slot: targetSlot}]
			if !ok {
				// Матча следующего раунда нет в данных: ребро ведет на id пустого слота,
				// чтобы дерево оставалось связным.
				target = fmt.Sprintf("empty-r%d-m%d-pos%d", next, nextPos, targetSlot)
			}
			for _, slot := range []int{1, 2} {
				b.addEdge(slotKey{round: round, position: m.Position, slot: slot}, target)
			}
		}
	}

	if !b.hasChampion() {
		return
	}
	final := b.byRound[b.rounds[len(b.rounds)-1]][0]
	for _, slot := range []int{1, 2} {
		b.addEdge(slotKey{round: final.Round, position: final.Position, slot: slot}, ChampionNodeID)
	}
}

func (b *builder) addEdge(from slotKey, target string) {
	source := b.slotIDs[from]
	style := edgeStyleDefault
	if b.slotWinner[from] {
		style = edgeStyleWinner
	}
	b.edges = append(b.edges, models.GraphEdge{
		ID:     "e-" + source + "-" + target,
		Source: source,
		Target: target,
		Type:   edgeType,
		Style:  style,
	})
}

func (b *builder) hasChampion() bool {
	n := len(b.nodes)
	return n > 0 && b.nodes[n-1].ID == ChampionNodeID
}

func (b *builder) groupLabel(id, label string, y float64) models.GraphNode {
	return models.GraphNode{
		ID:       id,
		Type:     models.NodeTypeGroupLabel,
		Position: models.Position{X: 0, Y: y},
		Data:     models.NodeData{Label: label},
	}
}

func halfCount(n int) int {
	return (n + 1) / 2
}

// present normalizes typed nil pointers returned by resolvers to an untyped nil.
func present(p models.Participant) models.Participant {
	switch v := p.(type) {
	case *models.Athlete:
		if v == nil {
			return nil
		}
	case *models.Team:
		if v == nil {
			return nil
		}
	}
	return p
}
