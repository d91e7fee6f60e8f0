package module

import (
	"time"

	"scran/internal/core/classify"
	"scran/internal/core/filters"
	"scran/internal/core/segment"
	"scran/internal/core/temporal"
	"scran/internal/platform/config"
)

// Options holds configuration settings for the extract module
type Options struct {
	ProximityWindow  int
	PlausibilityDays int
	PastGrace        time.Duration
	MembershipFeeMax float64
	MinSegmentLen    int
	MaxSegments      int
	LowYieldLen      int
	OverlayPath      string
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	ef := cfg.Prefix("ENGINE_")
	return Options{
		ProximityWindow:  ef.MayInt("PROXIMITY_WINDOW", classify.DefaultProximityWindow),
		PlausibilityDays: ef.MayInt("PLAUSIBILITY_DAYS", temporal.DefaultPlausibilityDays),
		PastGrace:        ef.MayDuration("PAST_GRACE", temporal.DefaultPastGrace),
		MembershipFeeMax: ef.MayFloat64("MEMBERSHIP_FEE_MAX", filters.DefaultMembershipFeeMax),
		MinSegmentLen:    ef.MayInt("MIN_SEGMENT_LEN", segment.DefaultMinSegmentLen),
		MaxSegments:      ef.MayInt("MAX_SEGMENTS", segment.DefaultMaxSegments),
		LowYieldLen:      ef.MayInt("LOW_YIELD_LEN", 0),
		OverlayPath:      ef.MayString("LEXICON_OVERLAY", ""),
	}
}
