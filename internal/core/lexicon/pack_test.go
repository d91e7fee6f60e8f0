package lexicon

import (
	"strings"
	"testing"
)

func mustPack(t *testing.T) *Pack {
	t.Helper()
	p, err := Load()
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	return p
}

func TestLoadCompilesLists(t *testing.T) {
	p := mustPack(t)

	if len(p.StrongFood) == 0 || len(p.WeakFood) == 0 || len(p.Modifiers) == 0 {
		t.Fatalf("food tiers must be non-empty")
	}
	if len(p.Religious) == 0 || len(p.Nightlife) == 0 || len(p.PaidSignals) == 0 {
		t.Fatalf("exclusion lists must be non-empty")
	}
	for _, ph := range p.Religious {
		if !strings.Contains(ph, " ") {
			t.Fatalf("religious phrase %q is single-word; the filter must be multi-word only", ph)
		}
	}
	for _, s := range p.StrongFood {
		if s != strings.ToLower(s) {
			t.Fatalf("phrase %q not lowercased", s)
		}
	}
}

func TestAliasLookupNormalized(t *testing.T) {
	p := mustPack(t)
	if got := p.Aliases["newman building"]; got != "NEWMAN" {
		t.Fatalf("newman building -> %q", got)
	}
	// longest-first scan order
	if len(p.AliasNames) < 2 || len(p.AliasNames[0]) < len(p.AliasNames[len(p.AliasNames)-1]) {
		t.Fatalf("alias names must be sorted longest-first")
	}
}

func TestAmounts(t *testing.T) {
	p := mustPack(t)
	tests := []struct {
		in   string
		want []float64
	}{
		{"tickets €20 at the door", []float64{20}},
		{"membership only 3€", []float64{3}},
		{"just 2.50 euro in", []float64{2.5}},
		{"€5,50 early bird, €8 after", []float64{5.5, 8}},
		{"no money mentioned", nil},
		{"room 204 is not a price", nil},
	}
	for _, tt := range tests {
		got := p.Amounts(tt.in)
		if len(got) != len(tt.want) {
			t.Fatalf("Amounts(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("Amounts(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestMergeOverlay(t *testing.T) {
	p := mustPack(t)
	before := len(p.Modifiers)

	overlay := `
food:
  modifiers:
    - "sponsored by"
    - "free"          # duplicate, must dedup
paid:
  free_overrides:
    - "gratis"
locations:
  aliases:
    NEWMAN:
      - "the arts café"
`
	if err := p.MergeOverlay(strings.NewReader(overlay)); err != nil {
		t.Fatalf("merge overlay: %v", err)
	}
	if len(p.Modifiers) != before+1 {
		t.Fatalf("expected exactly one new modifier, got %d -> %d", before, len(p.Modifiers))
	}
	if !ContainsAny("event sponsored by the maths soc", p.Modifiers) {
		t.Fatalf("overlay modifier not merged")
	}
	if got := p.Aliases["the arts café"]; got != "NEWMAN" {
		t.Fatalf("overlay alias not merged: %q", got)
	}
}

func TestPhraseBoundaries(t *testing.T) {
	tests := []struct {
		text, phrase string
		want         bool
	}{
		{"free food for all", "free food", true},
		{"carefree foodie meetup", "free food", false},
		{"tickets available", "ticket", false}, // "tickets" is its own token
		{"a ticket each", "ticket", true},
		{"bbq!", "bbq", true},
		{"rubbbq nonsense", "bbq", false},
	}
	for _, tt := range tests {
		if got := ContainsPhrase(tt.text, tt.phrase); got != tt.want {
			t.Fatalf("ContainsPhrase(%q, %q) = %v, want %v", tt.text, tt.phrase, got, tt.want)
		}
	}
}
