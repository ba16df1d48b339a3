package shader

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideTable(t *testing.T) {
	tests := []struct {
		childPresent  bool
		child         InheritMode
		parentPresent bool
		parent        InheritMode
		want          Decision
	}{
		// child absent
		{false, Public, false, Public, Clear},
		{false, Public, true, Hidden, Clear},
		{false, Public, true, Public, Inherit},
		{false, Public, true, Protected, Inherit},
		// child hidden
		{true, Hidden, false, Public, Clear},
		{true, Hidden, true, Hidden, Clear},
		{true, Hidden, true, Override, Inherit},
		{true, Hidden, true, Public, Inherit},
		// public
		{true, Public, false, Public, Keep},
		{true, Public, true, Override, Inherit},
		{true, Public, true, OverrideProtected, Inherit},
		{true, Public, true, Public, Keep},
		{true, Public, true, Protected, Keep},
		{true, Public, true, Hidden, Keep},
		// override
		{true, Override, false, Public, Keep},
		{true, Override, true, Override, Inherit},
		{true, Override, true, OverrideProtected, Inherit},
		{true, Override, true, Protected, Keep},
		// protected
		{true, Protected, false, Public, Keep},
		{true, Protected, true, Override, Keep},
		{true, Protected, true, OverrideProtected, Keep},
		{true, Protected, true, Hidden, Keep},
		// override-protected
		{true, OverrideProtected, false, Public, Keep},
		{true, OverrideProtected, true, Override, Keep},
		{true, OverrideProtected, true, OverrideProtected, Keep},
		{true, OverrideProtected, true, Public, Keep},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("child=%v/%s parent=%v/%s", tt.childPresent, tt.child, tt.parentPresent, tt.parent)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.childPresent, tt.child, tt.parentPresent, tt.parent))
		})
	}
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "override-protected", OverrideProtected.String())
	assert.Equal(t, "inherit", Inherit.String())
	assert.Equal(t, "InheritMode(9)", InheritMode(9).String())
}
