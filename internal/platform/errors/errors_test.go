package errors

import (
	stderrs "errors"
	"testing"
)

func TestWrapAndCodeOf(t *testing.T) {
	base := stderrs.New("boom")
	err := Wrapf(base, ErrorCodeUnavailable, "llm call failed")

	if got := CodeOf(err); got != ErrorCodeUnavailable {
		t.Fatalf("CodeOf = %d, want ErrorCodeUnavailable", got)
	}
	if !stderrs.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
	if Root(err) != base {
		t.Fatalf("Root should return the deepest cause")
	}
}

func TestCodeOfForeignError(t *testing.T) {
	if got := CodeOf(stderrs.New("plain")); got != ErrorCodeUnknown {
		t.Fatalf("foreign error should map to Unknown, got %d", got)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unavailable", Unavailablef("timeout"), true},
		{"budget", TooManyRequestsf("escalation budget exhausted"), true},
		{"bad json", JSONErrf("non-json collaborator response"), true},
		{"validation", Validationf("bad field"), false},
		{"not found", NotFoundf("missing"), false},
		{"foreign", stderrs.New("x"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Fatalf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithOpAndField(t *testing.T) {
	err := Validationf("bad start_datetime")
	err = WithOp(err, "llm.decode")
	err = WithField(err, "start_datetime")

	e, ok := As(err)
	if !ok {
		t.Fatalf("expected *Error")
	}
	if e.Op() != "llm.decode" || e.Field() != "start_datetime" {
		t.Fatalf("op/field not attached: %q %q", e.Op(), e.Field())
	}
}
