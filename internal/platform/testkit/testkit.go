// Package testkit carries the helpers the test suites share: seam swapping
// and panic assertion
package testkit

import "testing"

// Swap replaces a seam (an addressable value, typically a function field used
// for deterministic IDs or clocks) for one test and restores it on cleanup
func Swap[T any](t *testing.T, seam *T, with T) {
	t.Helper()
	saved := *seam
	*seam = with
	t.Cleanup(func() { *seam = saved })
}

// MustPanic fails the test unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic")
		}
	}()
	fn()
}
