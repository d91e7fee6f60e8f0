// Package filters implements the hard filter chain: an ordered sequence of
// category-exclusion predicates evaluated first-reject-wins. The chain encodes
// what a segment must NOT be; food-keyword presence is the classifier's job
package filters

import (
	"scran/internal/core/lexicon"
)

// Verdict is the named outcome of a chain evaluation. A filter either fully
// accepts or fully rejects; Reason is set only on reject and is carried
// through to audit logging, never dropped
type Verdict struct {
	Passed bool
	Reason string
}

// Named filter reasons, stable identifiers for audit logs and metrics
const (
	ReasonReligious        = "religious_restricted"
	ReasonRecap            = "past_tense_recap"
	ReasonStaffOnly        = "staff_only"
	ReasonOtherInstitution = "other_institution"
	ReasonOffCampus        = "off_campus"
	ReasonOnlineOnly       = "online_only"
	ReasonPaid             = "paid_event"
	ReasonNightlife        = "nightlife"
	ReasonGiveaway         = "giveaway_contest"
)

// LocationProbe reports whether text mentions any campus location. Injected
// so the online-only filter can tell "Zoom only" from "Zoom plus a room"
type LocationProbe func(text string) bool

// Options tunes the compound filters
type Options struct {
	// MembershipFeeMax is the euro threshold under which a membership fee is
	// not treated as a paid-event signal
	MembershipFeeMax float64
}

// DefaultMembershipFeeMax is the default small-fee threshold in euro
const DefaultMembershipFeeMax = 5.0

type filter struct {
	reason string
	reject func(text string) bool
}

// Chain evaluates filters in a fixed order and short-circuits on first reject.
// Cheap high-precision filters run before anything that could otherwise reach
// an expensive collaborator escalation
type Chain struct {
	filters []filter
}

// NewChain builds the chain over a compiled pack. The order is part of the
// contract: religious, recap, staff-only, other-institution, off-campus,
// online-only, paid, nightlife, giveaway
func NewChain(p *lexicon.Pack, probe LocationProbe, opts Options) *Chain {
	feeMax := opts.MembershipFeeMax
	if feeMax <= 0 {
		feeMax = DefaultMembershipFeeMax
	}

	anyOf := func(list []string) func(string) bool {
		return func(text string) bool { return lexicon.ContainsAny(text, list) }
	}

	return &Chain{filters: []filter{
		{ReasonReligious, anyOf(p.Religious)},
		{ReasonRecap, anyOf(p.Recap)},
		{ReasonStaffOnly, anyOf(p.StaffOnly)},
		{ReasonOtherInstitution, anyOf(p.OtherInstitutions)},
		{ReasonOffCampus, anyOf(p.OffCampus)},
		{ReasonOnlineOnly, func(text string) bool {
			if !lexicon.ContainsAny(text, p.Online) {
				return false
			}
			return probe == nil || !probe(text)
		}},
		{ReasonPaid, paidReject(p, feeMax)},
		{ReasonNightlife, anyOf(p.Nightlife)},
		{ReasonGiveaway, anyOf(p.Giveaway)},
	}}
}

// Evaluate runs the chain over normalized text. First reject wins and returns
// that filter's named reason
func (c *Chain) Evaluate(text string) Verdict {
	for _, f := range c.filters {
		if f.reject(text) {
			return Verdict{Passed: false, Reason: f.reason}
		}
	}
	return Verdict{Passed: true}
}

// Reasons returns the chain's filter reasons in evaluation order
func (c *Chain) Reasons() []string {
	out := make([]string, len(c.filters))
	for i, f := range c.filters {
		out[i] = f.reason
	}
	return out
}

// Violations runs every filter without short-circuiting and returns each
// reason that would fire. Evaluate(text).Passed == (len(Violations(text)) == 0)
func (c *Chain) Violations(text string) []string {
	var out []string
	for _, f := range c.filters {
		if f.reject(text) {
			out = append(out, f.reason)
		}
	}
	return out
}

// paidReject implements the compound paid-event filter:
//   - an explicit free-override phrase neutralizes every paid signal
//   - membership fees at or under the threshold pass
//   - ticket/admission language, or any amount above the threshold, rejects
func paidReject(p *lexicon.Pack, feeMax float64) func(string) bool {
	return func(text string) bool {
		if lexicon.ContainsAny(text, p.FreeOverrides) {
			return false
		}

		amounts := p.Amounts(text)
		maxAmount := 0.0
		for _, a := range amounts {
			if a > maxAmount {
				maxAmount = a
			}
		}

		hasTicketLang := lexicon.ContainsAny(text, p.PaidSignals)
		isMembership := lexicon.ContainsAny(text, p.MembershipTerms)

		// Small membership fee with no ticket language is not a paid event
		if isMembership && !hasTicketLang && maxAmount <= feeMax {
			return false
		}
		if hasTicketLang {
			return true
		}
		return maxAmount > feeMax
	}
}
