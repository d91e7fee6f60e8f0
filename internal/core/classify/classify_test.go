package classify

import (
	"testing"

	"scran/internal/core/lexicon"
)

func mustClassifier(t *testing.T, opts Options) *Classifier {
	t.Helper()
	p, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	return New(p, opts)
}

func TestEvaluateLadder(t *testing.T) {
	c := mustClassifier(t, Options{})

	tests := []struct {
		name    string
		text    string
		outcome Outcome
		keyword string
	}{
		{"strong term", "pizza in newman d022 this friday", Strong, "pizza"},
		{"strong phrase", "free food for all members after the talk", Strong, "free food"},
		{"weak with adjacent modifier", "snacks provided at the agm", WeakModified, "snacks"},
		{"weak alone is borderline", "tea and a chat with the committee", Borderline, "tea"},
		{"no signal", "chess tournament in the common room", None, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Evaluate(tt.text)
			if got.Outcome != tt.outcome {
				t.Fatalf("outcome = %s, want %s", got.Outcome, tt.outcome)
			}
			if got.Keyword != tt.keyword {
				t.Fatalf("keyword = %q, want %q", got.Keyword, tt.keyword)
			}
		})
	}
}

func TestProximityWindow(t *testing.T) {
	text := "cake at the annual general meeting, all welcome, free"

	// within the default window the pair counts as one signal
	wide := mustClassifier(t, Options{})
	if got := wide.Evaluate(text); got.Outcome != WeakModified {
		t.Fatalf("default window: outcome = %s, want weak_modified", got.Outcome)
	}

	// a tight window separates them and the weak term stands alone
	tight := mustClassifier(t, Options{ProximityWindow: 10})
	if got := tight.Evaluate(text); got.Outcome != Borderline {
		t.Fatalf("tight window: outcome = %s, want borderline", got.Outcome)
	}
}

func TestProximityIsPairwiseOverOccurrences(t *testing.T) {
	c := mustClassifier(t, Options{ProximityWindow: 15})
	// the first "drinks" is far from any modifier; the second is adjacent
	got := c.Evaluate("drinks reception details to follow for the annual gala, more drinks provided after")
	if got.Outcome != WeakModified {
		t.Fatalf("outcome = %s, want weak_modified", got.Outcome)
	}
	if got.Modifier != "provided" {
		t.Fatalf("modifier = %q, want provided", got.Modifier)
	}
}

func TestAccepted(t *testing.T) {
	if !Strong.Accepted() || !WeakModified.Accepted() {
		t.Fatalf("rule-accept outcomes not accepted")
	}
	if Borderline.Accepted() || None.Accepted() {
		t.Fatalf("non-accept outcomes accepted")
	}
}
