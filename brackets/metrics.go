package brackets

// Layout holds the layout metrics in abstract canvas units. Coordinates produced by
// Build are the top-left corners of nodes.
type Layout struct {
	NodeWidth        float64 `toml:"node_width" json:"node_width"`
	NodeHeight       float64 `toml:"node_height" json:"node_height"`
	HorizontalGap    float64 `toml:"horizontal_gap" json:"horizontal_gap"`
	PairGap          float64 `toml:"pair_gap" json:"pair_gap"`
	PairSpacing      float64 `toml:"pair_spacing" json:"pair_spacing"`
	GroupGap         float64 `toml:"group_gap" json:"group_gap"`
	LabelColumnWidth float64 `toml:"label_column_width" json:"label_column_width"`
	TopOffset        float64 `toml:"top_offset" json:"top_offset"`
	HeaderY          float64 `toml:"header_y" json:"header_y"`
}

func DefaultLayout() Layout {
	return Layout{
		NodeWidth:        220,
		NodeHeight:       40,
		HorizontalGap:    80,
		PairGap:          10,
		PairSpacing:      30,
		GroupGap:         60,
		LabelColumnWidth: 40,
		TopOffset:        60,
		HeaderY:          0,
	}
}

func (l Layout) pairHeight() float64 {
	return 2*l.NodeHeight + l.PairGap
}

func (l Layout) pairStride() float64 {
	return l.pairHeight() + l.PairSpacing
}

func (l Layout) columnX(roundIdx int) float64 {
	return l.LabelColumnWidth + float64(roundIdx)*(l.NodeWidth+l.HorizontalGap)
}

// groupOrigin: верхняя граница группы A или B. Группа B начинается после
// firstHalf пар группы A и отступа между группами.
func (l Layout) groupOrigin(groupB bool, firstHalf int) float64 {
	if !groupB {
		return l.TopOffset
	}
	return l.TopOffset + float64(firstHalf)*l.pairStride() + l.GroupGap
}

// groupCenter places pair number position: positions up to half go to group A,
// the rest to group B, stacked from the group's origin.
func (l Layout) groupCenter(position, half, firstHalf int) float64 {
	groupB := position > half
	idx := position - 1
	if groupB {
		idx = position - half - 1
	}
	return l.groupOrigin(groupB, firstHalf) + float64(idx)*l.pairStride() + l.pairHeight()/2
}
