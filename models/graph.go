package models

// Типы узлов графа сетки.
const (
	NodeTypeParticipant = "participant"
	NodeTypeEmpty       = "empty"
	NodeTypeChampion    = "champion"
	NodeTypeHeader      = "header"
	NodeTypeGroupLabel  = "group-label"
)

// Стороны подключения ребер к узлу.
const (
	SideLeft  = "left"
	SideRight = "right"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload rendered inside a node.
type NodeData struct {
	Label         string `json:"label"`
	Name          string `json:"name,omitempty"`
	Region        string `json:"region,omitempty"`
	DisplayNumber int    `json:"display_number,omitempty"`
	IsWinner      bool   `json:"is_winner"`
	IsFinalWinner bool   `json:"is_final_winner"`
	Round         int    `json:"round,omitempty"`
	Position      int    `json:"position,omitempty"`
	Slot          int    `json:"slot,omitempty"`

	// ActivationRef is the match a UI should open when the node is activated.
	ActivationRef *int `json:"activation_ref,omitempty"`
}

type GraphNode struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Position       Position `json:"position"`
	Data           NodeData `json:"data"`
	SourcePosition string   `json:"source_position,omitempty"`
	TargetPosition string   `json:"target_position,omitempty"`
}

type EdgeStyle struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
}

type GraphEdge struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Target string    `json:"target"`
	Type   string    `json:"type"`
	Style  EdgeStyle `json:"style"`
}

// ParticipantInfo: строка справочника участников: стабильный номер на время одного построения.
type ParticipantInfo struct {
	ParticipantID int    `json:"participant_id"`
	DisplayNumber int    `json:"display_number"`
	Name          string `json:"name"`
	Region        string `json:"region"`
}

// BracketGraph is the render-ready bracket: positioned nodes, directed edges and
// the participant directory keyed by participant id.
type BracketGraph struct {
	Nodes     []GraphNode             `json:"nodes"`
	Edges     []GraphEdge             `json:"edges"`
	Directory map[int]ParticipantInfo `json:"participant_directory"`
}
