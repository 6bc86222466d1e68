//go:build !helix_debug

// Package assert provides debug-build-only invariant checks. Built
// without the helix_debug tag, True is a no-op so release builds pay
// nothing for it; build with -tags helix_debug (assert_debug_test.go runs
// only under that tag) to make a broken invariant panic immediately.
package assert

// True panics with msg if cond is false, but only in a helix_debug build.
func True(cond bool, msg string) {}
