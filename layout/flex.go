package layout

// Flex selects how leftover space after constraint resolution is placed
// around and between children.
type Flex uint8

const (
	// FlexLegacy packs children at the start, leftover space trails.
	FlexLegacy Flex = iota
	// FlexStart behaves like FlexLegacy: children at the start.
	FlexStart
	// FlexEnd packs children at the end, leftover space leads.
	FlexEnd
	// FlexCenter splits leftover space evenly before and after.
	FlexCenter
	// FlexSpaceBetween puts equal gaps strictly between children. A single
	// child is centered.
	FlexSpaceBetween
	// FlexSpaceAround surrounds each child with a gap unit, half a unit at
	// each edge.
	FlexSpaceAround
	// FlexSpaceEvenly creates count+1 equal gaps including both edges.
	FlexSpaceEvenly
)

// Direction selects the axis a layout splits along.
type Direction uint8

const (
	// DirectionVertical stacks children top to bottom, dividing height.
	DirectionVertical Direction = iota
	// DirectionHorizontal places children left to right, dividing width.
	DirectionHorizontal
)
