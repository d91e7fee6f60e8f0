// Package classify evaluates the deterministic rungs of the food-signal
// ladder over a single normalized segment. It is pure keyword logic: the
// hard-filter chain has already run, and whether a Borderline outcome
// escalates to a collaborator is the orchestrator's call
package classify

import (
	"scran/internal/core/lexicon"
)

// Outcome is the deterministic ladder verdict for one segment
type Outcome int

const (
	// None means no food signal at all
	None Outcome = iota
	// Borderline means a weak term with no supporting context modifier;
	// candidate for collaborator escalation
	Borderline
	// WeakModified means a weak term with a context modifier in proximity;
	// rule accept
	WeakModified
	// Strong means a strong food term; rule accept, no collaborator needed
	Strong
)

func (o Outcome) String() string {
	switch o {
	case Strong:
		return "strong"
	case WeakModified:
		return "weak_modified"
	case Borderline:
		return "borderline"
	default:
		return "none"
	}
}

// Accepted reports whether the outcome is a rule accept on its own
func (o Outcome) Accepted() bool { return o == Strong || o == WeakModified }

// Result carries the matched evidence alongside the outcome so every accept
// is attributable to a concrete phrase
type Result struct {
	Outcome  Outcome
	Keyword  string
	Modifier string
}

// Options tunes the ladder
type Options struct {
	// ProximityWindow is the max byte distance between a weak term and a
	// context modifier for the pair to count as one signal
	ProximityWindow int
}

// DefaultProximityWindow covers roughly one sentence of separation
const DefaultProximityWindow = 80

// Classifier evaluates the ladder against a compiled pack. Stateless and safe
// for concurrent use
type Classifier struct {
	pack   *lexicon.Pack
	window int
}

func New(p *lexicon.Pack, opts Options) *Classifier {
	w := opts.ProximityWindow
	if w <= 0 {
		w = DefaultProximityWindow
	}
	return &Classifier{pack: p, window: w}
}

// Evaluate runs the rungs in order over normalized text: strong term, then
// weak term with a modifier in proximity, then weak term alone, then nothing
func (c *Classifier) Evaluate(text string) Result {
	if kw, i := lexicon.FirstMatch(text, c.pack.StrongFood); i >= 0 {
		return Result{Outcome: Strong, Keyword: kw}
	}

	weak, wi := lexicon.FirstMatch(text, c.pack.WeakFood)
	if wi < 0 {
		return Result{Outcome: None}
	}

	// proximity is measured pairwise over every occurrence of every weak
	// term and modifier, not just the first of each
	for _, w := range c.pack.WeakFood {
		for _, pos := range indices(text, w) {
			if mod, ok := c.modifierNear(text, pos, len(w)); ok {
				return Result{Outcome: WeakModified, Keyword: w, Modifier: mod}
			}
		}
	}
	return Result{Outcome: Borderline, Keyword: weak}
}

// modifierNear finds a context modifier within the window of a weak-term
// occurrence at [pos, pos+n)
func (c *Classifier) modifierNear(text string, pos, n int) (string, bool) {
	for _, mod := range c.pack.Modifiers {
		for _, mi := range indices(text, mod) {
			if distance(pos, pos+n, mi, mi+len(mod)) <= c.window {
				return mod, true
			}
		}
	}
	return "", false
}

// distance is the byte gap between two spans, zero when they touch or overlap
func distance(aStart, aEnd, bStart, bEnd int) int {
	switch {
	case aEnd <= bStart:
		return bStart - aEnd
	case bEnd <= aStart:
		return aStart - bEnd
	default:
		return 0
	}
}

// indices returns every boundary-aligned occurrence of phrase in text
func indices(text, phrase string) []int {
	var out []int
	off := 0
	for off < len(text) {
		i := lexicon.IndexPhrase(text[off:], phrase)
		if i < 0 {
			break
		}
		out = append(out, off+i)
		off += i + len(phrase)
	}
	return out
}
