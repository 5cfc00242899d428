package widget

import "github.com/matthewbaird/dashkit/internal/ruleset"

// Placement is a widget's computed slot: starting line and span on
// both axes. The zero value means no explicit placement — the widget
// flows naturally.
type Placement struct {
	RowStart int `json:"rowStart,omitempty"`
	ColStart int `json:"colStart,omitempty"`
	RowSpan  int `json:"rowSpan,omitempty"`
	ColSpan  int `json:"colSpan,omitempty"`
}

// Explicit reports whether the placement pins the widget to a grid
// slot.
func (p Placement) Explicit() bool {
	return p.RowStart > 0 || p.ColStart > 0
}

// ComputePlacement translates a widget's declared grid position into
// starting line and span for both axes. Only grid layouts place
// explicitly; any other layout type flows. Unspecified spans default
// to 1.
func ComputePlacement(layout ruleset.Layout, pos ruleset.GridPosition) Placement {
	if layout.Type != "grid" {
		return Placement{}
	}
	if pos.Row == 0 && pos.Col == 0 {
		return Placement{}
	}
	p := Placement{
		RowStart: pos.Row,
		ColStart: pos.Col,
		RowSpan:  pos.RowSpan,
		ColSpan:  pos.ColSpan,
	}
	if p.RowSpan < 1 {
		p.RowSpan = 1
	}
	if p.ColSpan < 1 {
		p.ColSpan = 1
	}
	return p
}
