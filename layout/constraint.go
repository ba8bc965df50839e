package layout

import "fmt"

// ConstraintKind tags the sizing rule a Constraint carries.
type ConstraintKind uint8

const (
	// KindLength requests an exact extent.
	KindLength ConstraintKind = iota
	// KindMin requests at least the given extent.
	KindMin
	// KindMax requests at most the given extent.
	KindMax
	// KindRatio requests floor(available * num / den).
	KindRatio
	// KindPercentage requests floor(available * p / 100).
	KindPercentage
	// KindFill shares leftover space proportional to its weight.
	KindFill
)

// Constraint is one child's sizing rule along the split axis. Compared
// structurally; it has no identity.
type Constraint struct {
	Kind     ConstraintKind
	Value    int // length, min, max, percentage, fill weight
	Num, Den int // ratio only
}

// Length requests exactly n cells.
func Length(n int) Constraint {
	return Constraint{Kind: KindLength, Value: clampNonNegative(n)}
}

// Min requests at least n cells.
func Min(n int) Constraint {
	return Constraint{Kind: KindMin, Value: clampNonNegative(n)}
}

// Max requests at most n cells.
func Max(n int) Constraint {
	return Constraint{Kind: KindMax, Value: clampNonNegative(n)}
}

// Ratio requests floor(available * num / den). A zero denominator resolves
// to zero cells.
func Ratio(num, den int) Constraint {
	return Constraint{Kind: KindRatio, Num: clampNonNegative(num), Den: clampNonNegative(den)}
}

// Percentage requests floor(available * p / 100). Values outside 0..100
// clamp to the nearest bound.
func Percentage(p int) Constraint {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return Constraint{Kind: KindPercentage, Value: p}
}

// Fill shares space left after all other constraints, proportional to
// weight. Fill children shrink to zero before any fixed-size child does.
func Fill(weight int) Constraint {
	return Constraint{Kind: KindFill, Value: clampNonNegative(weight)}
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// String renders the constraint for test failures and logs.
func (c Constraint) String() string {
	switch c.Kind {
	case KindLength:
		return fmt.Sprintf("Length(%d)", c.Value)
	case KindMin:
		return fmt.Sprintf("Min(%d)", c.Value)
	case KindMax:
		return fmt.Sprintf("Max(%d)", c.Value)
	case KindRatio:
		return fmt.Sprintf("Ratio(%d,%d)", c.Num, c.Den)
	case KindPercentage:
		return fmt.Sprintf("Percentage(%d)", c.Value)
	case KindFill:
		return fmt.Sprintf("Fill(%d)", c.Value)
	}
	return fmt.Sprintf("Constraint(kind=%d)", c.Kind)
}
