package temporal

import (
	"regexp"
	"strconv"
)

// TimeEvidence is a clock time extracted from text, 24h clock. HasEnd marks a
// range ("6-8pm"); End fields are meaningful only then
type TimeEvidence struct {
	Hour      int
	Minute    int
	EndHour   int
	EndMinute int
	HasEnd    bool
	Tier      float64
	Kind      string
}

const (
	clockPat  = `([0-9]{1,2})(?::([0-9]{2}))?`
	meridiem  = `(am|pm)`
	rangeLink = `(?:-|–|to|till|until)`
)

var (
	// "6pm-8pm", "6:30 - 8pm", "6 to 8:30pm"
	rangeRe = regexp.MustCompile(`\b` + clockPat + ` ?` + meridiem + `? ?` + rangeLink + ` ?` + clockPat + ` ?` + meridiem + `?\b`)
	// "6:30pm"
	singleMinutesRe = regexp.MustCompile(`\b([0-9]{1,2}):([0-9]{2}) ?` + meridiem + `\b`)
	// "6pm"
	singleMarkerRe = regexp.MustCompile(`\b([0-9]{1,2}) ?` + meridiem + `\b`)
	// "at 6", "from 6:30", "doors 7": a bare hour needs a context word
	singleContextRe = regexp.MustCompile(`\b(?:at|@|from|doors(?: at| open)?) ?([0-9]{1,2})(?::([0-9]{2}))?\b`)
	// "18:00" (two-digit 24h clock)
	clock24Re = regexp.MustCompile(`\b([01][0-9]|2[0-3]):([0-5][0-9])\b`)
	// spelled-out anchors
	keywordRe = regexp.MustCompile(`\b(noon|midday|midnight)\b`)
)

// ExtractTime returns the highest-priority valid clock time in text, or nil.
// Invalid hours or minutes drop the candidate, never clamp it. A bare hour
// with no am/pm defaults to PM (campus events cluster in the afternoon and
// evening)
func ExtractTime(text string) *TimeEvidence {
	if ev := extractRange(text); ev != nil {
		return ev
	}
	if m := singleMinutesRe.FindStringSubmatch(text); m != nil {
		if h, min, ok := toClock(m[1], m[2], m[3], false); ok {
			return &TimeEvidence{Hour: h, Minute: min, Tier: 0.85, Kind: "single_minutes"}
		}
	}
	if m := singleMarkerRe.FindStringSubmatch(text); m != nil {
		if h, min, ok := toClock(m[1], "", m[2], false); ok {
			return &TimeEvidence{Hour: h, Minute: min, Tier: 0.7, Kind: "single"}
		}
	}
	if m := singleContextRe.FindStringSubmatch(text); m != nil {
		if h, min, ok := toClock(m[1], m[2], "", true); ok {
			return &TimeEvidence{Hour: h, Minute: min, Tier: 0.7, Kind: "single"}
		}
	}
	if m := clock24Re.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		return &TimeEvidence{Hour: h, Minute: min, Tier: 0.65, Kind: "clock24"}
	}
	if m := keywordRe.FindStringSubmatch(text); m != nil {
		h := 12
		if m[1] == "midnight" {
			h = 0
		}
		return &TimeEvidence{Hour: h, Tier: 0.5, Kind: "keyword"}
	}
	return nil
}

// HasTimePattern reports whether text contains any clock-time expression. The
// reconciler uses this to decide whether a collaborator time-of-day has
// textual support
func HasTimePattern(text string) bool {
	return hasRangePattern(text) ||
		singleMinutesRe.MatchString(text) ||
		singleMarkerRe.MatchString(text) ||
		singleContextRe.MatchString(text) ||
		clock24Re.MatchString(text) ||
		keywordRe.MatchString(text)
}

// numericDateSpans locates numeric date expressions so range matching can
// skip them; the digits of "06-03-2026" belong to the date families
func numericDateSpans(text string) [][]int {
	var spans [][]int
	for _, re := range numericDateRes {
		spans = append(spans, re.FindAllStringIndex(text, -1)...)
	}
	return spans
}

func overlapsAny(start, end int, spans [][]int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}

func hasRangePattern(text string) bool {
	dates := numericDateSpans(text)
	for _, s := range rangeRe.FindAllStringIndex(text, -1) {
		if !overlapsAny(s[0], s[1], dates) {
			return true
		}
	}
	return false
}

// extractRange handles "6-8pm" style spans. A start with no am/pm marker
// inherits the end marker, so "6-8pm" reads as 18:00-20:00. Matches that sit
// inside a numeric date expression are skipped
func extractRange(text string) *TimeEvidence {
	dates := numericDateSpans(text)
	for _, idx := range rangeRe.FindAllStringSubmatchIndex(text, -1) {
		if overlapsAny(idx[0], idx[1], dates) {
			continue
		}
		group := func(i int) string {
			if idx[2*i] < 0 {
				return ""
			}
			return text[idx[2*i]:idx[2*i+1]]
		}
		startMark, endMark := group(3), group(6)
		if startMark == "" {
			startMark = endMark
		}
		sh, sm, ok := toClock(group(1), group(2), startMark, true)
		if !ok {
			continue
		}
		eh, em, ok := toClock(group(4), group(5), endMark, true)
		if !ok {
			continue
		}
		tier, kind := 0.9, "range"
		if group(2) != "" || group(5) != "" {
			tier, kind = 1.0, "range_minutes"
		}
		return &TimeEvidence{Hour: sh, Minute: sm, EndHour: eh, EndMinute: em, HasEnd: true, Tier: tier, Kind: kind}
	}
	return nil
}

// toClock converts hour/minute/marker captures to a 24h clock. defaultPM
// shifts unmarked hours 1..11 into the afternoon
func toClock(hourStr, minStr, mark string, defaultPM bool) (hour, minute int, ok bool) {
	hour, _ = strconv.Atoi(hourStr)
	if minStr != "" {
		minute, _ = strconv.Atoi(minStr)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, false
	}
	switch mark {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, 0, false
		}
		if defaultPM && hour >= 1 && hour <= 11 {
			hour += 12
		}
	}
	return hour, minute, true
}
