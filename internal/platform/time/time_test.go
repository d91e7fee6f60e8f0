package time

import (
	"testing"
	stdtime "time"
)

func TestPtr(t *testing.T) {
	if Ptr(stdtime.Time{}) != nil {
		t.Fatalf("zero time should yield nil")
	}
	now := stdtime.Now()
	if p := Ptr(now); p == nil || !p.Equal(now) {
		t.Fatalf("non-zero time should round-trip")
	}
}
