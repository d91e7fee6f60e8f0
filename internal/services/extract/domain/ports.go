package domain

import (
	"context"
	"time"
)

// CollabResult is a collaborator verdict after defensive decoding. Raw keeps
// the undecoded payload for audit. Zero values mean the field was absent or
// malformed; the reconciler decides what to trust
type CollabResult struct {
	IsFoodEvent   bool
	Title         string
	StartDatetime *time.Time
	EndDatetime   *time.Time
	Location      string
	ImageText     string
	MembersOnly   bool
	Raw           []byte
}

// ClassifierPort is the text escalation collaborator
type ClassifierPort interface {
	ClassifyText(ctx context.Context, text string, ref time.Time) (CollabResult, error)
}

// VisionPort is the image escalation collaborator
type VisionPort interface {
	ClassifyImages(ctx context.Context, caption string, refs []string, ref time.Time) (CollabResult, error)
}

// ExtractorPort is the engine's single entry point. Stateless per post; safe
// to call from many goroutines
type ExtractorPort interface {
	ExtractPost(ctx context.Context, post RawPost) (ExtractResult, error)
}

// Ports bundles the collaborator dependencies injected into the module.
// Either may be nil, which disables that escalation path
type Ports struct {
	Text   ClassifierPort
	Vision VisionPort
}
