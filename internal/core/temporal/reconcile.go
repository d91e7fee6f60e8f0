package temporal

import (
	"time"
)

// Reconciliation outcomes, used for audit logging and metrics labels
const (
	OutcomeAgree     = "agree"
	OutcomeLLMOnly   = "llm_only"
	OutcomeRegexOnly = "regex_only"
	OutcomeDisagree  = "disagree"
	OutcomeNone      = "none"
)

// Reasons a collaborator timestamp was discarded before reconciliation
const (
	DiscardPast       = "past"
	DiscardFarFuture  = "far_future"
	DiscardNoEvidence = "no_date_evidence"
)

// Reconciled is the reconciliation result. ResolvedAt is nil when no
// trustworthy datetime could be established; Modifier scales the draft's
// confidence. Missing evidence is a valid outcome, never an error
type Reconciled struct {
	ResolvedAt *time.Time
	Modifier   float64
	Outcome    string
	// LLMDiscarded names why the collaborator timestamp was dropped, empty
	// when it was absent or survived validation
	LLMDiscarded string
	// TimeNeutralized is set when the collaborator time-of-day had no textual
	// support and was replaced by neutral midday
	TimeNeutralized bool
	// WeekdayMismatch carries the date extractor's explicit-date-wins flag so
	// callers can log it
	WeekdayMismatch bool
}

// neutralHour is the time-of-day substituted when no clock evidence backs a
// collaborator timestamp, and the fallback when regex finds a date but no time
const neutralHour = 12

// Reconcile cross-validates a collaborator-proposed start timestamp against
// regex evidence extracted from text, relative to the post's reference time.
//
// The collaborator timestamp is validated first (hallucination guard): it is
// discarded when it sits more than PastGrace in the past, beyond the
// plausibility window in the future, or when text contains no date pattern at
// all. A surviving timestamp whose time-of-day has no clock pattern in text is
// stripped to neutral midday.
//
// The surviving sides then reconcile:
//
//	both, dates within one day  -> collaborator timestamp, modifier 1.0
//	collaborator only           -> collaborator timestamp, modifier 0.75
//	regex only                  -> regex date + regex time (midday when no
//	                               time evidence), modifier 0.85
//	both, dates disagree        -> regex date + collaborator time-of-day when
//	                               trusted, else regex time, else midday,
//	                               modifier 0.85
//	neither                     -> nil, modifier 0.0
func Reconcile(llmAt *time.Time, text string, ref time.Time, opts Options) Reconciled {
	opts = opts.withDefaults()
	loc := ref.Location()

	dateEv := ExtractDate(text, ref, opts)
	timeEv := ExtractTime(text)

	llm, discarded, neutralized := validateLLM(llmAt, text, ref, opts)

	mismatch := dateEv != nil && dateEv.WeekdayMismatch

	switch {
	case llm != nil && dateEv != nil:
		if sameWithinDay(*llm, dateEv.Value) {
			return Reconciled{ResolvedAt: llm, Modifier: 1.0, Outcome: OutcomeAgree, TimeNeutralized: neutralized, WeekdayMismatch: mismatch}
		}
		// dates disagree: regex date wins, collaborator keeps only its
		// time-of-day and only when that time was textually supported
		h, min := neutralHour, 0
		if !neutralized {
			h, min = llm.Hour(), llm.Minute()
		} else if timeEv != nil {
			h, min = timeEv.Hour, timeEv.Minute
		}
		at := combine(dateEv.Value, h, min, loc)
		return Reconciled{ResolvedAt: &at, Modifier: 0.85, Outcome: OutcomeDisagree, TimeNeutralized: neutralized, WeekdayMismatch: mismatch}

	case llm != nil:
		return Reconciled{ResolvedAt: llm, Modifier: 0.75, Outcome: OutcomeLLMOnly, LLMDiscarded: discarded, TimeNeutralized: neutralized}

	case dateEv != nil:
		h, min := neutralHour, 0
		if timeEv != nil {
			h, min = timeEv.Hour, timeEv.Minute
		}
		at := combine(dateEv.Value, h, min, loc)
		return Reconciled{ResolvedAt: &at, Modifier: 0.85, Outcome: OutcomeRegexOnly, LLMDiscarded: discarded, WeekdayMismatch: mismatch}

	default:
		return Reconciled{Modifier: 0.0, Outcome: OutcomeNone, LLMDiscarded: discarded}
	}
}

// validateLLM applies the hallucination guard. It returns the surviving
// timestamp (possibly with its time-of-day neutralized), the discard reason
// when dropped, and whether the time-of-day was neutralized
func validateLLM(llmAt *time.Time, text string, ref time.Time, opts Options) (*time.Time, string, bool) {
	if llmAt == nil {
		return nil, "", false
	}
	at := llmAt.In(ref.Location())
	switch {
	case at.Before(ref.Add(-opts.PastGrace)):
		return nil, DiscardPast, false
	case at.After(ref.AddDate(0, 0, opts.PlausibilityDays)):
		return nil, DiscardFarFuture, false
	case !HasDatePattern(text):
		return nil, DiscardNoEvidence, false
	}
	if !HasTimePattern(text) {
		neutral := combine(dateOnly(at), neutralHour, 0, ref.Location())
		return &neutral, "", true
	}
	return &at, "", false
}

// sameWithinDay reports whether two timestamps fall on the same or adjacent
// calendar dates
func sameWithinDay(a, b time.Time) bool {
	da, db := dateOnly(a), dateOnly(b.In(a.Location()))
	diff := da.Sub(db)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 24*time.Hour
}

func combine(day time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
}
