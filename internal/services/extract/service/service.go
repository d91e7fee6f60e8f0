// Package service implements the extract service: the per-post orchestrator
// that composes sanitization, segmentation, the hard filter chain, the
// classification ladder, collaborator escalation, datetime reconciliation,
// and location canonicalization into event drafts
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scran/internal/core/classify"
	"scran/internal/core/filters"
	"scran/internal/core/lexicon"
	"scran/internal/core/location"
	"scran/internal/core/normalize"
	"scran/internal/core/segment"
	"scran/internal/core/temporal"
	perr "scran/internal/platform/errors"
	"scran/internal/platform/logger"
	"scran/internal/platform/metrics"
	str "scran/internal/platform/strings"
	"scran/internal/services/extract/domain"
)

// Config for the extract service
type Config struct {
	ProximityWindow  int
	PlausibilityDays int
	PastGrace        time.Duration
	MembershipFeeMax float64
	MinSegmentLen    int
	MaxSegments      int
	// LowYieldLen is the normalized-caption byte length under which a post
	// with images qualifies for vision escalation
	LowYieldLen int
	// TitleMax bounds titles derived from the segment's first line
	TitleMax int
}

// DefaultLowYieldLen assumes anything shorter than a sentence is a caption
// that leans on its image
const DefaultLowYieldLen = 40

// DefaultTitleMax bounds derived titles
const DefaultTitleMax = 80

// Service implements domain.ExtractorPort. Stateless per post; one instance
// serves any number of goroutines
type Service struct {
	norm   *normalize.Normalizer
	chain  *filters.Chain
	ladder *classify.Classifier
	canon  *location.Canonicalizer
	ports  domain.Ports
	cfg    Config

	newID func() string    // seam for deterministic tests
	now   func() time.Time // reference fallback for posts without a timestamp
}

// New constructs the extract service over a compiled pack
func New(p *lexicon.Pack, ports domain.Ports, cfg Config) *Service {
	if cfg.LowYieldLen <= 0 {
		cfg.LowYieldLen = DefaultLowYieldLen
	}
	if cfg.TitleMax <= 0 {
		cfg.TitleMax = DefaultTitleMax
	}
	canon := location.New(p)
	return &Service{
		norm:   normalize.New(),
		chain:  filters.NewChain(p, canon.Probe, filters.Options{MembershipFeeMax: cfg.MembershipFeeMax}),
		ladder: classify.New(p, classify.Options{ProximityWindow: cfg.ProximityWindow}),
		canon:  canon,
		ports:  ports,
		cfg:    cfg,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// ExtractPost runs the full pipeline over one post. Every segment lands in
// exactly one of the result's two lists; the error return is reserved for
// unusable input, never for rejects
func (s *Service) ExtractPost(ctx context.Context, post domain.RawPost) (domain.ExtractResult, error) {
	res := domain.ExtractResult{PostID: post.ID}
	if post.ID == "" {
		return res, perr.InvalidArgf("extract: post id required")
	}

	ref := post.PostedAt
	if ref.IsZero() {
		ref = s.now()
	}

	// segmentation runs on the sanitized but un-normalized text: folding
	// would destroy the ALL-CAPS headings and blank lines it keys on
	raw := normalize.Sanitize(post.Caption)
	segs := segment.Split(raw, segment.Options{
		MinSegmentLen: s.cfg.MinSegmentLen,
		MaxSegments:   s.cfg.MaxSegments,
	})

	for i, seg := range segs {
		sctx := logger.WithPost(ctx, post.ID, i)
		draft, rej := s.processSegment(sctx, post, i, seg, ref)
		if rej != nil {
			res.Rejected = append(res.Rejected, *rej)
			continue
		}
		res.Drafts = append(res.Drafts, *draft)
	}
	return res, nil
}

// processSegment takes one segment to a terminal decision
func (s *Service) processSegment(ctx context.Context, post domain.RawPost, idx int, seg string, ref time.Time) (*domain.EventDraft, *domain.RejectedSegment) {
	working := seg
	if post.ImageText != "" {
		working += "\n" + post.ImageText
	}
	norm := s.norm.Normalize(working)

	if v := s.chain.Evaluate(norm); !v.Passed {
		return nil, s.reject(ctx, post, idx, seg, domain.StageFilter, domain.SourceFilter, v.Reason, false)
	}

	collab, source, keyword, rej := s.classifySegment(ctx, post, idx, seg, &working, &norm, ref)
	if rej != nil {
		return nil, rej
	}

	rec := temporal.Reconcile(collab.StartDatetime, norm, ref, temporal.Options{
		PlausibilityDays: s.cfg.PlausibilityDays,
		PastGrace:        s.cfg.PastGrace,
	})
	metrics.DatetimeOutcomes.WithLabelValues(rec.Outcome).Inc()
	if rec.WeekdayMismatch {
		logger.C(ctx).Warn().Msg("stated weekday disagrees with explicit date, keeping the date")
	}
	if rec.LLMDiscarded != "" {
		logger.C(ctx).Debug().Str("reason", rec.LLMDiscarded).Msg("collaborator timestamp discarded")
	}

	starts := rec.ResolvedAt
	var ends *time.Time
	if starts != nil {
		ends = s.resolveEnd(collab.EndDatetime, norm, *starts)
	}

	loc := s.resolveLocation(collab.Location, norm)

	locFactor := 0.8
	if loc != nil {
		locFactor = 1.0
	}

	title := collab.Title
	if title == "" {
		title = str.FirstLine(seg, s.cfg.TitleMax)
	}

	draft := &domain.EventDraft{
		ID:           s.newID(),
		PostID:       post.ID,
		Society:      post.Society,
		SegmentIndex: idx,
		Title:        title,
		Location:     loc,
		StartsAt:     starts,
		EndsAt:       ends,
		Confidence:   locFactor * rec.Modifier,
		MembersOnly:  collab.MembersOnly,
		Source:       source,
		Keyword:      keyword,
		Segment:      seg,
	}

	metrics.SegmentsClassified.WithLabelValues("accept", source).Inc()
	metrics.DraftsEmitted.Inc()
	logger.C(ctx).Info().
		Str("source", source).
		Str("outcome", rec.Outcome).
		Float64("confidence", draft.Confidence).
		Msg("event draft emitted")
	return draft, nil
}

// classifySegment walks the ladder and runs collaborator escalation where the
// deterministic rungs don't settle it. working and norm are updated in place
// when vision folds transcribed image text into the segment
func (s *Service) classifySegment(ctx context.Context, post domain.RawPost, idx int, seg string, working, norm *string, ref time.Time) (domain.CollabResult, string, string, *domain.RejectedSegment) {
	var collab domain.CollabResult

	r := s.ladder.Evaluate(*norm)
	switch r.Outcome {
	case classify.Strong, classify.WeakModified:
		return collab, domain.SourceRule, r.Keyword, nil

	case classify.Borderline:
		if s.ports.Text == nil {
			return collab, "", "", s.reject(ctx, post, idx, seg, domain.StageEscalation, domain.SourceRule, "escalation_disabled", false)
		}
		cr, err := s.ports.Text.ClassifyText(ctx, *working, ref)
		if err != nil {
			logger.C(ctx).Warn().Err(err).Msg("text escalation failed")
			return collab, "", "", s.reject(ctx, post, idx, seg, domain.StageEscalation, domain.SourceLLM, "collaborator_failure", perr.Retryable(err))
		}
		if !cr.IsFoodEvent {
			return collab, "", "", s.reject(ctx, post, idx, seg, domain.StageClassify, domain.SourceLLM, "llm_not_food_event", false)
		}
		return cr, domain.SourceLLM, r.Keyword, nil

	default: // classify.None
		// the OCR step's own low-yield verdict qualifies the post; a short
		// caption is the fallback signal when that verdict is absent
		lowYield := post.IsImageTextLowYield || len(*norm) < s.cfg.LowYieldLen
		if len(post.ImageRefs) == 0 || !lowYield || s.ports.Vision == nil {
			return collab, "", "", s.reject(ctx, post, idx, seg, domain.StageClassify, domain.SourceRule, "no_food_signal", false)
		}
		cr, err := s.ports.Vision.ClassifyImages(ctx, *working, post.ImageRefs, ref)
		if err != nil {
			logger.C(ctx).Warn().Err(err).Msg("vision escalation failed")
			return collab, "", "", s.reject(ctx, post, idx, seg, domain.StageEscalation, domain.SourceVision, "collaborator_failure", perr.Retryable(err))
		}
		if !cr.IsFoodEvent {
			return collab, "", "", s.reject(ctx, post, idx, seg, domain.StageClassify, domain.SourceVision, "vision_not_food_event", false)
		}
		// fold transcribed image text into the working text; the chain binds
		// on the enlarged text too
		if cr.ImageText != "" {
			*working += "\n" + cr.ImageText
			*norm = s.norm.Normalize(*working)
			if v := s.chain.Evaluate(*norm); !v.Passed {
				return collab, "", "", s.reject(ctx, post, idx, seg, domain.StageFilter, domain.SourceVision, v.Reason, false)
			}
		}
		return cr, domain.SourceVision, "", nil
	}
}

// resolveEnd validates a collaborator end timestamp against the resolved
// start, falling back to a regex time range. An end that isn't after the
// start, or drifts past a day, is dropped rather than repaired
func (s *Service) resolveEnd(collabEnd *time.Time, norm string, start time.Time) *time.Time {
	if collabEnd != nil {
		e := collabEnd.In(start.Location())
		if e.After(start) && e.Sub(start) <= 24*time.Hour {
			return &e
		}
	}
	if te := temporal.ExtractTime(norm); te != nil && te.HasEnd {
		e := time.Date(start.Year(), start.Month(), start.Day(), te.EndHour, te.EndMinute, 0, 0, start.Location())
		if e.After(start) {
			return &e
		}
	}
	return nil
}

// resolveLocation prefers the collaborator's quoted location string, then a
// scan of the whole normalized segment
func (s *Service) resolveLocation(quoted, norm string) *domain.Location {
	if quoted != "" {
		if c := s.canon.Canonicalize(quoted); c != nil {
			return &domain.Location{Building: c.Building, Room: c.Room}
		}
	}
	if c := s.canon.Canonicalize(norm); c != nil {
		return &domain.Location{Building: c.Building, Room: c.Room}
	}
	return nil
}

// reject records a terminal reject with metrics and audit logging
func (s *Service) reject(ctx context.Context, post domain.RawPost, idx int, seg, stage, source, reason string, retryable bool) *domain.RejectedSegment {
	if stage == domain.StageFilter {
		metrics.FilterRejects.WithLabelValues(reason).Inc()
	}
	metrics.SegmentsClassified.WithLabelValues("reject", source).Inc()
	logger.C(ctx).Debug().
		Str("stage", stage).
		Str("reason", reason).
		Bool("retryable", retryable).
		Msg("segment rejected")
	return &domain.RejectedSegment{
		PostID:       post.ID,
		SegmentIndex: idx,
		Segment:      seg,
		Stage:        stage,
		Reason:       reason,
		Retryable:    retryable,
	}
}
