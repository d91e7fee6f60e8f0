package normalize

import "testing"

func TestNormalizeFoldsCaseAndWidth(t *testing.T) {
	n := New()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "FREE PIZZA in Newman", "free pizza in newman"},
		{"fullwidth", "ＦＲＥＥ ｐｉｚｚａ", "free pizza"},
		{"accents stripped", "crêpes soirée", "crepes soiree"},
		{"whitespace runs", "free   food \t provided", "free food provided"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePreservesLineBreaks(t *testing.T) {
	n := New()
	in := "MONDAY\n\nfree pizza D022\r\n\r\nTUESDAY\n\ncoffee morning"
	got := n.Normalize(in)
	want := "monday\nfree pizza d022\ntuesday\ncoffee morning"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeKeepsClockDigits(t *testing.T) {
	n := New()
	// digits must never be folded to letters; time extraction depends on it
	if got := n.Normalize("Doors at 4pm, room D022"); got != "doors at 4pm, room d022" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestSanitizeDropsControls(t *testing.T) {
	in := "free\x00 food\x7f now"
	if got := Sanitize(in); got != "free food now" {
		t.Fatalf("Sanitize = %q", got)
	}
}
