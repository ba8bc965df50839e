// Package layout partitions rectangular areas among children under sizing
// constraints. Split is pure: identical inputs always produce identical
// outputs, so callers may cache results.
package layout

// MaxConstraints bounds how many children one split resolves. Longer
// constraint lists are truncated.
const MaxConstraints = 32

const intMax = int(^uint(0) >> 1)

// Layout describes one split: the axis to divide, the alignment mode for
// leftover space, and one constraint per child.
type Layout struct {
	Direction   Direction
	Flex        Flex
	Constraints []Constraint
}

// Horizontal returns a layout dividing width across the constraints.
func Horizontal(constraints ...Constraint) Layout {
	return Layout{Direction: DirectionHorizontal, Constraints: constraints}
}

// Vertical returns a layout dividing height across the constraints.
func Vertical(constraints ...Constraint) Layout {
	return Layout{Direction: DirectionVertical, Constraints: constraints}
}

// WithFlex returns a copy of the layout using the given alignment mode.
func (l Layout) WithFlex(f Flex) Layout {
	l.Flex = f
	return l
}

// Shrink priority when allocations exceed the area: fill children collapse
// before any fixed-size child is touched.
var shrinkOrder = [...]ConstraintKind{
	KindFill, KindMax, KindPercentage, KindRatio, KindLength, KindMin,
}

// Split partitions area along the layout direction, returning one rect per
// constraint in order. Resolution runs in four phases: base allocation,
// fill distribution, overflow shrink, alignment placement. The sum of
// result extents along the split axis never exceeds the area's extent.
func (l Layout) Split(area Rect) []Rect {
	constraints := l.Constraints
	if len(constraints) > MaxConstraints {
		constraints = constraints[:MaxConstraints]
	}
	n := len(constraints)
	if n == 0 {
		return nil
	}

	available := area.Width
	if l.Direction == DirectionVertical {
		available = area.Height
	}
	if available < 0 {
		available = 0
	}

	sizes := make([]int, n)

	// Phase 1: base allocation. Fill children are deferred, their weights
	// summed for phase 2.
	allocated := 0
	fillWeight := 0
	for i, c := range constraints {
		switch c.Kind {
		case KindLength, KindMin:
			sizes[i] = c.Value
		case KindMax:
			sizes[i] = min(c.Value, available)
		case KindRatio:
			if c.Den == 0 {
				sizes[i] = 0
			} else {
				sizes[i] = min(satMul(available, c.Num)/c.Den, available)
			}
		case KindPercentage:
			sizes[i] = min(satMul(available, c.Value)/100, available)
		case KindFill:
			fillWeight = satAdd(fillWeight, c.Value)
			continue
		}
		allocated = satAdd(allocated, sizes[i])
	}

	// Phase 2: split the remaining space across fill children proportional
	// to weight. The flooring remainder goes entirely to the first fill.
	if fillWeight > 0 {
		remaining := satSub(available, allocated)
		distributed := 0
		firstFill := -1
		for i, c := range constraints {
			if c.Kind != KindFill {
				continue
			}
			if firstFill < 0 {
				firstFill = i
			}
			sizes[i] = satMul(remaining, c.Value) / fillWeight
			distributed += sizes[i]
		}
		sizes[firstFill] += remaining - distributed
	}

	// Phase 3: when allocations overflow the area, shrink category by
	// category in priority order, each consuming as much of the excess as
	// its sizes permit. Nothing goes negative.
	total := 0
	for _, s := range sizes {
		total = satAdd(total, s)
	}
	if total > available {
		excess := total - available
		for _, kind := range shrinkOrder {
			if excess == 0 {
				break
			}
			for i, c := range constraints {
				if c.Kind != kind {
					continue
				}
				cut := min(sizes[i], excess)
				sizes[i] -= cut
				excess -= cut
				if excess == 0 {
					break
				}
			}
		}
	}

	// Phase 4: place children, spreading any leftover space into gaps per
	// the alignment mode.
	used := 0
	for _, s := range sizes {
		used += s
	}
	gaps := spreadGaps(l.Flex, n, satSub(available, used))

	rects := make([]Rect, n)
	pos := area.X
	if l.Direction == DirectionVertical {
		pos = area.Y
	}
	for i := 0; i < n; i++ {
		pos += gaps[i]
		if l.Direction == DirectionHorizontal {
			rects[i] = Rect{X: pos, Y: area.Y, Width: sizes[i], Height: area.Height}
		} else {
			rects[i] = Rect{X: area.X, Y: pos, Width: area.Width, Height: sizes[i]}
		}
		pos += sizes[i]
	}
	return rects
}

// spreadGaps returns n+1 gap extents: before the first child, between
// consecutive children, after the last. Each mode assigns weights to the
// gap slots; leftover is divided proportionally with flooring remainders
// handed one unit at a time to the earliest weighted gaps.
func spreadGaps(flex Flex, n, leftover int) []int {
	gaps := make([]int, n+1)
	if leftover <= 0 {
		return gaps
	}

	weights := make([]int, n+1)
	switch flex {
	case FlexLegacy, FlexStart:
		// Children stay packed at the start, leftover trails
		return gaps
	case FlexEnd:
		weights[0] = 1
	case FlexCenter:
		weights[0] = 1
		weights[n] = 1
	case FlexSpaceBetween:
		if n == 1 {
			weights[0] = 1
			weights[1] = 1
		} else {
			for i := 1; i < n; i++ {
				weights[i] = 1
			}
		}
	case FlexSpaceAround:
		weights[0] = 1
		weights[n] = 1
		for i := 1; i < n; i++ {
			weights[i] = 2
		}
	case FlexSpaceEvenly:
		for i := range weights {
			weights[i] = 1
		}
	}

	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}
	if totalWeight == 0 {
		return gaps
	}

	distributed := 0
	for i, w := range weights {
		gaps[i] = satMul(leftover, w) / totalWeight
		distributed += gaps[i]
	}
	rem := leftover - distributed
	for i := 0; rem > 0 && i <= n; i++ {
		if weights[i] > 0 {
			gaps[i]++
			rem--
		}
	}
	return gaps
}

// satAdd adds non-negative ints, saturating at the int maximum.
func satAdd(a, b int) int {
	s := a + b
	if s < a {
		return intMax
	}
	return s
}

// satSub subtracts b from a, flooring at zero.
func satSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

// satMul multiplies non-negative ints, saturating at the int maximum.
func satMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/b != a {
		return intMax
	}
	return p
}
