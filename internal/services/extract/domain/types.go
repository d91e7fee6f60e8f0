// Package domain defines the core types and interfaces for the extract service
package domain

import "time"

// RawPost is one scraped society post as handed to the engine. Scraping and
// OCR happen upstream; the engine only ever sees this shape
type RawPost struct {
	ID        string    `json:"id"`
	Society   string    `json:"society,omitempty"`
	Caption   string    `json:"caption"`
	ImageText string    `json:"image_text,omitempty"` // OCR output, may be empty
	ImageRefs []string  `json:"image_refs,omitempty"` // image URLs for the vision path
	// IsImageTextLowYield is the OCR step's own verdict that ImageText carries
	// little usable text; it qualifies the post for vision escalation even when
	// the caption is long
	IsImageTextLowYield bool      `json:"is_image_text_low_yield,omitempty"`
	PostedAt            time.Time `json:"posted_at"` // reference time for date resolution
}

// Classification sources, stamped on every terminal decision
const (
	SourceRule   = "rule"
	SourceLLM    = "llm"
	SourceVision = "vision"
	SourceFilter = "filter"
)

// Location is a canonicalized campus location
type Location struct {
	Building string `json:"building"`
	Room     string `json:"room,omitempty"`
}

// EventDraft is one extracted free-food event candidate. Nullable fields stay
// nil when no trustworthy evidence exists; Confidence already folds the
// datetime reconciliation modifier and the location factor together
type EventDraft struct {
	ID           string     `json:"id"` // uuid, for downstream dedup
	PostID       string     `json:"post_id"`
	Society      string     `json:"society,omitempty"`
	SegmentIndex int        `json:"segment_index"`
	Title        string     `json:"title"`
	Location     *Location  `json:"location,omitempty"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	Confidence   float64    `json:"confidence"`
	MembersOnly  bool       `json:"members_only"`
	Source       string     `json:"source"`  // rule | llm | vision
	Keyword      string     `json:"keyword"` // matched phrase for rule accepts
	Segment      string     `json:"segment"` // source segment text, kept for audit
}

// Rejection stages
const (
	StageFilter     = "filter"
	StageClassify   = "classify"
	StageEscalation = "escalation"
)

// RejectedSegment records a terminal reject with its stage and named reason.
// Retryable marks collaborator failures where a later re-run may succeed, as
// opposed to deterministic rejects which are final
type RejectedSegment struct {
	PostID       string `json:"post_id"`
	SegmentIndex int    `json:"segment_index"`
	Segment      string `json:"segment"`
	Stage        string `json:"stage"`
	Reason       string `json:"reason"`
	Retryable    bool   `json:"retryable"`
}

// ExtractResult is the per-post outcome: every segment lands in exactly one
// of the two lists
type ExtractResult struct {
	PostID   string            `json:"post_id"`
	Drafts   []EventDraft      `json:"drafts,omitempty"`
	Rejected []RejectedSegment `json:"rejected,omitempty"`
}
