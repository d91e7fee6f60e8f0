// Package temporal extracts date and clock-time evidence from normalized post
// text and reconciles it with a collaborator-proposed timestamp. Pattern
// families are explicit ordered lists evaluated first-match-wins so the
// priority order is itself a reviewable artifact
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Options tunes plausibility validation
type Options struct {
	// PlausibilityDays is the forward window: candidate dates further out are
	// discarded as implausible
	PlausibilityDays int
	// PastGrace is how far in the past a collaborator timestamp may sit before
	// it is discarded ("happening now" posts)
	PastGrace time.Duration
}

// Defaults for Options fields left zero
const (
	DefaultPlausibilityDays = 30
	DefaultPastGrace        = time.Hour
)

func (o Options) withDefaults() Options {
	if o.PlausibilityDays <= 0 {
		o.PlausibilityDays = DefaultPlausibilityDays
	}
	if o.PastGrace <= 0 {
		o.PastGrace = DefaultPastGrace
	}
	return o
}

// DateEvidence is a calendar date extracted from text. Value is midnight in
// the reference location. Absence of evidence is a valid outcome (nil)
type DateEvidence struct {
	Value time.Time
	Tier  float64
	Kind  string
	// WeekdayMismatch is set when an explicit weekday disagrees with the
	// computed date; the explicit date wins and the caller logs the mismatch
	WeekdayMismatch bool
}

const (
	monthPat   = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`
	weekdayPat = `(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`
	dayPat     = `([0-9]{1,2})(?:st|nd|rd|th)?`
)

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var weekdayNames = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
	"sunday": time.Sunday,
}

// dateFamily is one priority tier of date patterns
type dateFamily struct {
	kind    string
	tier    float64
	re      *regexp.Regexp
	resolve func(m []string, ref time.Time, opts Options) *DateEvidence
}

// numericDateRes back the numeric families below and the clock range guard,
// which must not read "06-03-2026" as a 6-to-3 span
var numericDateRes = []*regexp.Regexp{
	// "02/03", "2.3.2026": slash or dot separated, year optional
	regexp.MustCompile(`\b([0-9]{1,2})[/.]([0-9]{1,2})(?:[/.]([0-9]{2,4}))?\b`),
	// "06-03-2026": dash separated. The year part is mandatory here so that
	// "6-8" stays available as a clock range
	regexp.MustCompile(`\b([0-9]{1,2})-([0-9]{1,2})-([0-9]{2,4})\b`),
}

// dateFamilies in priority order, highest confidence first
var dateFamilies = []dateFamily{
	{
		// "friday 6th march", "friday, 6 of march 2026"
		kind: "day_month_weekday", tier: 1.0,
		re:      regexp.MustCompile(`\b` + weekdayPat + `,? (?:the )?` + dayPat + `(?: of)? ` + monthPat + `(?: ([0-9]{4}))?\b`),
		resolve: resolveWeekdayDayMonth,
	},
	{
		// "friday march 6th"
		kind: "day_month_weekday", tier: 1.0,
		re:      regexp.MustCompile(`\b` + weekdayPat + `,? ` + monthPat + ` ` + dayPat + `(?: ([0-9]{4}))?\b`),
		resolve: resolveWeekdayMonthDay,
	},
	{
		// "6th march", "6 of march 2026"
		kind: "day_month", tier: 0.9,
		re:      regexp.MustCompile(`\b(?:the )?` + dayPat + `(?: of)? ` + monthPat + `(?: ([0-9]{4}))?\b`),
		resolve: resolveDayMonth,
	},
	{
		// "march 6th"
		kind: "day_month", tier: 0.9,
		re:      regexp.MustCompile(`\b` + monthPat + ` ` + dayPat + `(?: ([0-9]{4}))?\b`),
		resolve: resolveMonthDay,
	},
	{
		// "02/03", "2.3.2026": always day before month, never month first.
		// Silent data corruption otherwise, so this is non-negotiable
		kind: "day_month_numeric", tier: 0.9,
		re:      numericDateRes[0],
		resolve: resolveNumeric,
	},
	{
		// "06-03-2026": same day-first rule, dash separated
		kind: "day_month_numeric", tier: 0.9,
		re:      numericDateRes[1],
		resolve: resolveNumeric,
	},
	{
		// "friday the 6th" (month inferred from the reference time)
		kind: "weekday_day", tier: 0.75,
		re:      regexp.MustCompile(`\b` + weekdayPat + ` (?:the )?([0-9]{1,2})(?:st|nd|rd|th)\b`),
		resolve: resolveWeekdayDay,
	},
	{
		// "today", "tonight", "tomorrow", "this friday", "next friday", "friday"
		kind: "relative", tier: 0.7,
		re:      regexp.MustCompile(`\b(today|tonight|tomorrow|(?:this |next |on )?(?:` + strings.Trim(weekdayPat, `()`) + `))\b`),
		resolve: resolveRelative,
	},
	{
		// "on the 6th" (bare day of month, ordinal suffix required)
		kind: "bare_day", tier: 0.5,
		re:      regexp.MustCompile(`\bon the ([0-9]{1,2})(?:st|nd|rd|th)\b`),
		resolve: resolveBareDay,
	},
}

// ExtractDate returns the highest-priority plausible date evidence in text, or
// nil. text is assumed normalized (lowercased). An implausible candidate is
// dropped and lower-priority families still get a chance
func ExtractDate(text string, ref time.Time, opts Options) *DateEvidence {
	opts = opts.withDefaults()
	for _, f := range dateFamilies {
		m := f.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		ev := f.resolve(m, ref, opts)
		if ev == nil {
			continue
		}
		ev.Kind = f.kind
		ev.Tier = f.tier
		if !plausibleDate(ev.Value, ref, opts) {
			continue
		}
		return ev
	}
	return nil
}

// HasDatePattern reports whether text contains any date-expression pattern,
// regardless of whether it resolves to a plausible date. The reconciler uses
// this as the hallucination guard: a collaborator date with zero textual
// support is never trusted
func HasDatePattern(text string) bool {
	for _, f := range dateFamilies {
		if f.re.MatchString(text) {
			return true
		}
	}
	return false
}

// plausibleDate allows same-day and future dates within the window
func plausibleDate(d, ref time.Time, opts Options) bool {
	refDay := dateOnly(ref)
	if d.Before(refDay) {
		return false
	}
	return !d.After(refDay.AddDate(0, 0, opts.PlausibilityDays))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// inferYear picks ref year, or the next one when that lands the date far in
// the past (a december post about january)
func inferYear(day int, month time.Month, yearStr string, ref time.Time) time.Time {
	loc := ref.Location()
	if yearStr != "" {
		y, _ := strconv.Atoi(yearStr)
		if y < 100 {
			y += 2000
		}
		return time.Date(y, month, day, 0, 0, 0, 0, loc)
	}
	d := time.Date(ref.Year(), month, day, 0, 0, 0, 0, loc)
	if d.Before(dateOnly(ref).AddDate(0, 0, -7)) {
		return time.Date(ref.Year()+1, month, day, 0, 0, 0, 0, loc)
	}
	return d
}

// validDay rejects normalization artifacts (time.Date would fold "31 feb" into march)
func validDay(d time.Time, day int, month time.Month) bool {
	return d.Day() == day && d.Month() == month
}

func resolveWeekdayDayMonth(m []string, ref time.Time, _ Options) *DateEvidence {
	return resolveExplicit(m[1], m[2], m[3], m[4], ref)
}

func resolveWeekdayMonthDay(m []string, ref time.Time, _ Options) *DateEvidence {
	return resolveExplicit(m[1], m[3], m[2], m[4], ref)
}

// resolveExplicit handles weekday + day + month. When the explicit weekday
// disagrees with the computed date the explicit date wins; the mismatch is
// surfaced, never silently corrected by trusting the weekday
func resolveExplicit(wdStr, dayStr, monStr, yearStr string, ref time.Time) *DateEvidence {
	day, _ := strconv.Atoi(dayStr)
	month, ok := months[monStr]
	if !ok || day < 1 || day > 31 {
		return nil
	}
	d := inferYear(day, month, yearStr, ref)
	if !validDay(d, day, month) {
		return nil
	}
	ev := &DateEvidence{Value: d}
	if wd, ok := weekdayNames[wdStr]; ok && d.Weekday() != wd {
		ev.WeekdayMismatch = true
	}
	return ev
}

func resolveDayMonth(m []string, ref time.Time, _ Options) *DateEvidence {
	return resolveExplicit("", m[1], m[2], m[3], ref)
}

func resolveMonthDay(m []string, ref time.Time, _ Options) *DateEvidence {
	return resolveExplicit("", m[2], m[1], m[3], ref)
}

func resolveNumeric(m []string, ref time.Time, _ Options) *DateEvidence {
	day, _ := strconv.Atoi(m[1])
	monthNum, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 || monthNum < 1 || monthNum > 12 {
		return nil
	}
	month := time.Month(monthNum)
	d := inferYear(day, month, m[3], ref)
	if !validDay(d, day, month) {
		return nil
	}
	return &DateEvidence{Value: d}
}

func resolveWeekdayDay(m []string, ref time.Time, opts Options) *DateEvidence {
	day, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 {
		return nil
	}
	// infer month: this month, or next when the day already passed
	d := time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, ref.Location())
	if !validDay(d, day, ref.Month()) || d.Before(dateOnly(ref)) {
		d = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 1, day-1)
		if d.Day() != day {
			return nil
		}
	}
	ev := &DateEvidence{Value: d}
	if wd, ok := weekdayNames[m[1]]; ok && d.Weekday() != wd {
		ev.WeekdayMismatch = true
	}
	return ev
}

func resolveRelative(m []string, ref time.Time, _ Options) *DateEvidence {
	token := m[1]
	refDay := dateOnly(ref)
	switch token {
	case "today", "tonight":
		return &DateEvidence{Value: refDay}
	case "tomorrow":
		return &DateEvidence{Value: refDay.AddDate(0, 0, 1)}
	}
	// "(this |next |on )?<weekday>": coming occurrence, same-day counts
	name := token
	for _, prefix := range []string{"this ", "next ", "on "} {
		name = strings.TrimPrefix(name, prefix)
	}
	wd, ok := weekdayNames[name]
	if !ok {
		return nil
	}
	ahead := (int(wd) - int(refDay.Weekday()) + 7) % 7
	return &DateEvidence{Value: refDay.AddDate(0, 0, ahead)}
}

func resolveBareDay(m []string, ref time.Time, opts Options) *DateEvidence {
	return resolveWeekdayDay([]string{m[0], "", m[1]}, ref, opts)
}
