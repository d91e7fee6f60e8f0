package llm

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	perr "scran/internal/platform/errors"
	ptime "scran/internal/platform/time"
	"scran/internal/services/extract/domain"
)

// wire mirrors the structured-output schema. Decoding is field-by-field so
// one malformed field degrades to its zero value instead of poisoning the
// whole verdict
type wire struct {
	IsFoodEvent   bool   `json:"is_food_event"`
	Title         string `json:"title" validate:"max=200"`
	StartDatetime string `json:"start_datetime" validate:"max=64"`
	EndDatetime   string `json:"end_datetime" validate:"max=64"`
	Location      string `json:"location" validate:"max=200"`
	ImageText     string `json:"image_text" validate:"max=8000"`
	MembersOnly   bool   `json:"members_only"`
}

// timestamp layouts collaborators have been observed to produce
var tsLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// decodeResult turns a raw collaborator payload into a CollabResult. Non-JSON
// payloads and validation failures are contract violations surfaced as
// retryable errors; malformed individual fields decode to zero values
func decodeResult(raw []byte, loc *time.Location, validate *validator.Validate) (domain.CollabResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.CollabResult{}, perr.JSONErrf("collaborator payload is not json: %v", err)
	}

	var w wire
	get := func(key string, into any) {
		if v, ok := fields[key]; ok {
			_ = json.Unmarshal(v, into) // malformed field stays zero
		}
	}
	get("is_food_event", &w.IsFoodEvent)
	get("title", &w.Title)
	get("start_datetime", &w.StartDatetime)
	get("end_datetime", &w.EndDatetime)
	get("location", &w.Location)
	get("image_text", &w.ImageText)
	get("members_only", &w.MembersOnly)

	if err := validate.Struct(w); err != nil {
		return domain.CollabResult{}, perr.JSONErrf("collaborator payload failed validation: %v", err)
	}

	return domain.CollabResult{
		IsFoodEvent:   w.IsFoodEvent,
		Title:         w.Title,
		StartDatetime: parseTimestamp(w.StartDatetime, loc),
		EndDatetime:   parseTimestamp(w.EndDatetime, loc),
		Location:      w.Location,
		ImageText:     w.ImageText,
		MembersOnly:   w.MembersOnly,
		Raw:           raw,
	}, nil
}

// parseTimestamp tries the known layouts; unparseable or zero input is
// treated as absent, never guessed at
func parseTimestamp(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range tsLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ptime.Ptr(t)
		}
	}
	return nil
}
