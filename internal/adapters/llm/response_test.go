package llm

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func TestDecodeResultDefensive(t *testing.T) {
	v := validator.New()

	// a malformed field degrades to its zero value, the rest still decodes
	res, err := decodeResult([]byte(`{"is_food_event":true,"title":42,"location":"Astra Hall"}`), time.UTC, v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.IsFoodEvent || res.Title != "" || res.Location != "Astra Hall" {
		t.Fatalf("decoded = %+v", res)
	}

	// an unparseable timestamp is absent, never guessed
	res, err = decodeResult([]byte(`{"is_food_event":true,"start_datetime":"next friday ish"}`), time.UTC, v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.StartDatetime != nil {
		t.Fatalf("garbage timestamp parsed to %v", res.StartDatetime)
	}
}

func TestDecodeResultLayouts(t *testing.T) {
	v := validator.New()
	tests := []struct {
		in   string
		hour int
	}{
		{"2026-03-06T18:00:00Z", 18},
		{"2026-03-06T18:00:00", 18},
		{"2026-03-06T18:00", 18},
		{"2026-03-06 18:00", 18},
		{"2026-03-06", 0},
	}
	for _, tt := range tests {
		res, err := decodeResult([]byte(`{"is_food_event":true,"start_datetime":"`+tt.in+`"}`), time.UTC, v)
		if err != nil {
			t.Fatalf("decode %q: %v", tt.in, err)
		}
		if res.StartDatetime == nil || res.StartDatetime.Hour() != tt.hour {
			t.Fatalf("parse %q = %v, want hour %d", tt.in, res.StartDatetime, tt.hour)
		}
	}
}
