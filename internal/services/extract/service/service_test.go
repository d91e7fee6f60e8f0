package service

import (
	"context"
	"testing"
	"time"

	"scran/internal/core/lexicon"
	perr "scran/internal/platform/errors"
	"scran/internal/platform/testkit"
	"scran/internal/services/extract/domain"
)

// 2026-03-01 is a Sunday
var ref = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

type fakeText struct {
	res   domain.CollabResult
	err   error
	calls int
}

func (f *fakeText) ClassifyText(_ context.Context, _ string, _ time.Time) (domain.CollabResult, error) {
	f.calls++
	return f.res, f.err
}

type fakeVision struct {
	res   domain.CollabResult
	err   error
	calls int
}

func (f *fakeVision) ClassifyImages(_ context.Context, _ string, _ []string, _ time.Time) (domain.CollabResult, error) {
	f.calls++
	return f.res, f.err
}

func newService(t *testing.T, ports domain.Ports) *Service {
	t.Helper()
	p, err := lexicon.Load()
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	return New(p, ports, Config{})
}

func post(caption string) domain.RawPost {
	return domain.RawPost{ID: "post-1", Society: "foodsoc", Caption: caption, PostedAt: ref}
}

func TestRuleAcceptFullPipeline(t *testing.T) {
	s := newService(t, domain.Ports{})
	testkit.Swap(t, &s.newID, func() string { return "draft-fixed" })

	res, err := s.ExtractPost(context.Background(), post("Free pizza this Friday at 6pm in Newman D022!"))
	if err != nil {
		t.Fatalf("ExtractPost: %v", err)
	}
	if len(res.Drafts) != 1 || len(res.Rejected) != 0 {
		t.Fatalf("drafts/rejected = %d/%d, want 1/0 (%+v)", len(res.Drafts), len(res.Rejected), res.Rejected)
	}

	d := res.Drafts[0]
	if d.ID != "draft-fixed" {
		t.Fatalf("draft id = %q", d.ID)
	}
	if d.Source != domain.SourceRule || d.Keyword != "free pizza" {
		t.Fatalf("source/keyword = %s/%q", d.Source, d.Keyword)
	}
	if d.Location == nil || d.Location.Building != "NEWMAN" || d.Location.Room != "D022" {
		t.Fatalf("location = %+v, want NEWMAN D022", d.Location)
	}
	if d.StartsAt == nil || d.StartsAt.Day() != 6 || d.StartsAt.Hour() != 18 {
		t.Fatalf("starts = %v, want 2026-03-06 18:00", d.StartsAt)
	}
	// regex-only datetime (0.85) with a resolved location (1.0)
	if d.Confidence != 0.85 {
		t.Fatalf("confidence = %v, want 0.85", d.Confidence)
	}
	if d.Title != "Free pizza this Friday at 6pm in Newman D022!" {
		t.Fatalf("title = %q", d.Title)
	}
}

func TestFilterRejectPrecedesKeyword(t *testing.T) {
	s := newService(t, domain.Ports{})

	res, err := s.ExtractPost(context.Background(), post("Free pizza! Tickets: €20 at the door"))
	if err != nil {
		t.Fatalf("ExtractPost: %v", err)
	}
	if len(res.Drafts) != 0 || len(res.Rejected) != 1 {
		t.Fatalf("drafts/rejected = %d/%d, want 0/1", len(res.Drafts), len(res.Rejected))
	}
	r := res.Rejected[0]
	if r.Stage != domain.StageFilter || r.Reason != "paid_event" || r.Retryable {
		t.Fatalf("reject = %+v", r)
	}
}

func TestBorderlineEscalatesAndAgrees(t *testing.T) {
	start := time.Date(2026, time.March, 6, 18, 0, 0, 0, time.UTC)
	ft := &fakeText{res: domain.CollabResult{
		IsFoodEvent:   true,
		Title:         "AGM Tea",
		StartDatetime: &start,
		Location:      "Astra Hall",
		MembersOnly:   true,
	}}
	s := newService(t, domain.Ports{Text: ft})

	res, err := s.ExtractPost(context.Background(), post("tea and biscuits at our agm, friday 6th march at 6pm"))
	if err != nil {
		t.Fatalf("ExtractPost: %v", err)
	}
	if ft.calls != 1 {
		t.Fatalf("escalations = %d, want 1", ft.calls)
	}
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, rejected = %+v", len(res.Drafts), res.Rejected)
	}

	d := res.Drafts[0]
	if d.Source != domain.SourceLLM || d.Title != "AGM Tea" || !d.MembersOnly {
		t.Fatalf("draft = %+v", d)
	}
	// collaborator and regex agree on the day: full modifier, located
	if d.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", d.Confidence)
	}
	if d.StartsAt == nil || d.StartsAt.Hour() != 18 {
		t.Fatalf("starts = %v", d.StartsAt)
	}
	if d.Location == nil || d.Location.Building != "ASTRA_HALL" {
		t.Fatalf("location = %+v", d.Location)
	}
}

func TestBorderlineRejectedByCollaborator(t *testing.T) {
	ft := &fakeText{res: domain.CollabResult{IsFoodEvent: false}}
	s := newService(t, domain.Ports{Text: ft})

	res, _ := s.ExtractPost(context.Background(), post("tea and a chat with the committee this friday"))
	if len(res.Rejected) != 1 {
		t.Fatalf("rejected = %+v", res)
	}
	r := res.Rejected[0]
	if r.Stage != domain.StageClassify || r.Reason != "llm_not_food_event" || r.Retryable {
		t.Fatalf("reject = %+v", r)
	}
}

func TestCollaboratorFailureIsRetryableReject(t *testing.T) {
	ft := &fakeText{err: perr.Unavailablef("boom")}
	s := newService(t, domain.Ports{Text: ft})

	res, _ := s.ExtractPost(context.Background(), post("tea and a chat with the committee this friday"))
	if len(res.Rejected) != 1 {
		t.Fatalf("rejected = %+v", res)
	}
	r := res.Rejected[0]
	if r.Stage != domain.StageEscalation || !r.Retryable {
		t.Fatalf("reject = %+v, want retryable escalation reject", r)
	}
}

func TestBorderlineWithoutCollaboratorRejects(t *testing.T) {
	s := newService(t, domain.Ports{})

	res, _ := s.ExtractPost(context.Background(), post("tea and a chat with the committee this friday"))
	if len(res.Rejected) != 1 || res.Rejected[0].Reason != "escalation_disabled" {
		t.Fatalf("rejected = %+v", res.Rejected)
	}
	if res.Rejected[0].Retryable {
		t.Fatalf("disabled escalation is deterministic, not retryable")
	}
}

func TestNoSignalRejects(t *testing.T) {
	s := newService(t, domain.Ports{})

	res, _ := s.ExtractPost(context.Background(), post("chess tournament this friday, all levels welcome"))
	if len(res.Rejected) != 1 || res.Rejected[0].Reason != "no_food_signal" {
		t.Fatalf("rejected = %+v", res.Rejected)
	}
}

func TestVisionPathFoldsImageText(t *testing.T) {
	fv := &fakeVision{res: domain.CollabResult{
		IsFoodEvent: true,
		ImageText:   "FREE PIZZA Thursday 5pm Newman D022",
	}}
	s := newService(t, domain.Ports{Vision: fv})

	p := post("!!")
	p.ImageRefs = []string{"https://example.test/poster.jpg"}
	res, err := s.ExtractPost(context.Background(), p)
	if err != nil {
		t.Fatalf("ExtractPost: %v", err)
	}
	if fv.calls != 1 {
		t.Fatalf("vision calls = %d, want 1", fv.calls)
	}
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, rejected = %+v", len(res.Drafts), res.Rejected)
	}

	d := res.Drafts[0]
	if d.Source != domain.SourceVision {
		t.Fatalf("source = %s, want vision", d.Source)
	}
	// temporal extraction runs over the folded image text
	if d.StartsAt == nil || d.StartsAt.Day() != 5 || d.StartsAt.Hour() != 17 {
		t.Fatalf("starts = %v, want 2026-03-05 17:00", d.StartsAt)
	}
	if d.Location == nil || d.Location.Building != "NEWMAN" {
		t.Fatalf("location = %+v", d.Location)
	}
}

func TestVisionGateHonoursLowYieldFlag(t *testing.T) {
	// caption well over the length heuristic, no food signal of its own
	caption := "our brand new poster is up around campus, all the details are on it"
	fv := &fakeVision{res: domain.CollabResult{
		IsFoodEvent: true,
		ImageText:   "FREE PIZZA Friday 6pm Astra Hall",
	}}

	// without the OCR low-yield verdict the long caption never escalates
	s := newService(t, domain.Ports{Vision: fv})
	p := post(caption)
	p.ImageRefs = []string{"https://example.test/poster.jpg"}
	res, _ := s.ExtractPost(context.Background(), p)
	if fv.calls != 0 {
		t.Fatalf("vision calls = %d, want 0", fv.calls)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Reason != "no_food_signal" {
		t.Fatalf("rejected = %+v", res.Rejected)
	}

	// the flag overrides the length heuristic
	p.IsImageTextLowYield = true
	res, err := s.ExtractPost(context.Background(), p)
	if err != nil {
		t.Fatalf("ExtractPost: %v", err)
	}
	if fv.calls != 1 {
		t.Fatalf("vision calls = %d, want 1", fv.calls)
	}
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d, rejected = %+v", len(res.Drafts), res.Rejected)
	}
	d := res.Drafts[0]
	if d.Source != domain.SourceVision {
		t.Fatalf("source = %s, want vision", d.Source)
	}
	if d.StartsAt == nil || d.StartsAt.Day() != 6 || d.StartsAt.Hour() != 18 {
		t.Fatalf("starts = %v, want 2026-03-06 18:00", d.StartsAt)
	}
	if d.Location == nil || d.Location.Building != "ASTRA_HALL" {
		t.Fatalf("location = %+v, want ASTRA_HALL", d.Location)
	}
}

func TestVisionFoldStillBoundByChain(t *testing.T) {
	fv := &fakeVision{res: domain.CollabResult{
		IsFoodEvent: true,
		ImageText:   "FREE PIZZA NIGHT tickets €20 at the door",
	}}
	s := newService(t, domain.Ports{Vision: fv})

	p := post("!!")
	p.ImageRefs = []string{"https://example.test/poster.jpg"}
	res, _ := s.ExtractPost(context.Background(), p)
	if len(res.Drafts) != 0 || len(res.Rejected) != 1 {
		t.Fatalf("vision verdict bypassed the filter chain: %+v", res)
	}
	if res.Rejected[0].Reason != "paid_event" || res.Rejected[0].Stage != domain.StageFilter {
		t.Fatalf("reject = %+v", res.Rejected[0])
	}
}

func TestMultiSegmentSchedule(t *testing.T) {
	s := newService(t, domain.Ports{})

	caption := "WHAT'S ON\n\nMONDAY\nFree pizza in Newman D022 at 6pm\n\nWEDNESDAY\nMovie night, tickets €5 at the door"
	res, err := s.ExtractPost(context.Background(), post(caption))
	if err != nil {
		t.Fatalf("ExtractPost: %v", err)
	}
	if len(res.Drafts) != 1 || len(res.Rejected) != 1 {
		t.Fatalf("drafts/rejected = %d/%d, want 1/1 (%+v)", len(res.Drafts), len(res.Rejected), res)
	}

	d := res.Drafts[0]
	if d.SegmentIndex != 0 {
		t.Fatalf("draft segment index = %d", d.SegmentIndex)
	}
	// "monday" from a sunday reference resolves to the next day
	if d.StartsAt == nil || d.StartsAt.Day() != 2 {
		t.Fatalf("starts = %v, want 2026-03-02", d.StartsAt)
	}

	r := res.Rejected[0]
	if r.SegmentIndex != 1 || r.Reason != "paid_event" {
		t.Fatalf("reject = %+v", r)
	}
}

func TestRangeEndResolved(t *testing.T) {
	s := newService(t, domain.Ports{})

	res, _ := s.ExtractPost(context.Background(), post("Free pizza this Friday 6-8pm in Newman"))
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d (%+v)", len(res.Drafts), res.Rejected)
	}
	d := res.Drafts[0]
	if d.StartsAt == nil || d.StartsAt.Hour() != 18 {
		t.Fatalf("starts = %v", d.StartsAt)
	}
	if d.EndsAt == nil || d.EndsAt.Hour() != 20 || d.EndsAt.Day() != 6 {
		t.Fatalf("ends = %v, want 2026-03-06 20:00", d.EndsAt)
	}
}

func TestMissingPostID(t *testing.T) {
	s := newService(t, domain.Ports{})
	if _, err := s.ExtractPost(context.Background(), domain.RawPost{Caption: "free pizza"}); err == nil {
		t.Fatalf("expected error for missing post id")
	}
}

func TestNoLocationLowersConfidence(t *testing.T) {
	s := newService(t, domain.Ports{})

	res, _ := s.ExtractPost(context.Background(), post("Free pizza this Friday at 6pm, location tba"))
	if len(res.Drafts) != 1 {
		t.Fatalf("drafts = %d (%+v)", len(res.Drafts), res.Rejected)
	}
	d := res.Drafts[0]
	if d.Location != nil {
		t.Fatalf("location = %+v, want nil", d.Location)
	}
	// 0.8 location factor x 0.85 regex-only modifier
	if d.Confidence < 0.679 || d.Confidence > 0.681 {
		t.Fatalf("confidence = %v, want 0.68", d.Confidence)
	}
}
