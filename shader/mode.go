// Package shader holds the per-node graphics state of the scene graph and the
// rules that combine a node's declared state with its ancestors' resolved
// state.
package shader

import "fmt"

// InheritMode says how a state slot interacts with the same slot of the
// parent's resolved state.
type InheritMode uint8

const (
	// Public slots are kept unless the parent forces its value.
	Public InheritMode = iota
	// Override forces the value onto Public and Override descendants.
	Override
	// Protected slots are never replaced by an ancestor.
	Protected
	// OverrideProtected forces descendants and cannot itself be replaced.
	OverrideProtected
	// Hidden slots behave as if they were not declared.
	Hidden
)

func (m InheritMode) String() string {
	switch m {
	case Public:
		return "public"
	case Override:
		return "override"
	case Protected:
		return "protected"
	case OverrideProtected:
		return "override-protected"
	case Hidden:
		return "hidden"
	}
	return fmt.Sprintf("InheritMode(%d)", int(m))
}

func (m InheritMode) overrides() bool {
	return m == Override || m == OverrideProtected
}

// Decision is the outcome of resolving one slot.
type Decision uint8

const (
	Clear   Decision = iota // slot ends up absent
	Keep                    // child's own value and mode
	Inherit                 // parent's resolved value and mode
)

func (d Decision) String() string {
	switch d {
	case Clear:
		return "clear"
	case Keep:
		return "keep"
	case Inherit:
		return "inherit"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// Decide applies the inheritance table to a single slot.
func Decide(childPresent bool, child InheritMode, parentPresent bool, parent InheritMode) Decision {
	if !childPresent || child == Hidden {
		if !parentPresent || parent == Hidden {
			return Clear
		}
		return Inherit
	}
	switch child {
	case Protected, OverrideProtected:
		return Keep
	}
	// Public and Override share one table.
	if parentPresent && parent.overrides() {
		return Inherit
	}
	return Keep
}
