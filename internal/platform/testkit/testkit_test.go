package testkit

import "testing"

func TestSwapRestoresFunctionSeam(t *testing.T) {
	newID := func() string { return "real-id" }

	t.Run("swapped", func(t *testing.T) {
		Swap(t, &newID, func() string { return "fixed-id" })
		if newID() != "fixed-id" {
			t.Fatalf("seam not swapped")
		}
	})

	if newID() != "real-id" {
		t.Fatalf("seam not restored after cleanup")
	}
}

func TestSwapPlainValue(t *testing.T) {
	window := 80

	t.Run("swapped", func(t *testing.T) {
		Swap(t, &window, 10)
		if window != 10 {
			t.Fatalf("value not swapped, got %d", window)
		}
	})

	if window != 80 {
		t.Fatalf("value not restored, got %d", window)
	}
}

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("missing env var") })
}
