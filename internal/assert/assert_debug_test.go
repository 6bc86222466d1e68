//go:build helix_debug

package assert

import "testing"

func TestTrue_PanicsOnFalseCondition(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on false condition")
		}
	}()
	True(false, "invariant broken")
}

func TestTrue_NoPanicOnTrueCondition(t *testing.T) {
	True(true, "should not panic")
}
