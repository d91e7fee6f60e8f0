// Package segment splits a post's text into independent candidate event
// segments when it detects a multi-event schedule layout. It is always safe to
// call: with fewer than two qualifying boundaries the whole text comes back as
// one segment, so segmentation can never be worse than not segmenting
package segment

import (
	"strings"
	"unicode"
)

// Options bounds the segmenter
type Options struct {
	// MinSegmentLen is the noise floor in bytes; shorter fragments (stray OCR
	// lines, trailing hashtags) are discarded
	MinSegmentLen int
	// MaxSegments caps output against pathological input
	MaxSegments int
	// MinHeadingLen is the minimum length for an all-caps line to count as a
	// schedule heading
	MinHeadingLen int
}

// Defaults for Options fields left zero
const (
	DefaultMinSegmentLen = 20
	DefaultMaxSegments   = 8
	DefaultMinHeadingLen = 4
)

var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Split returns the candidate event segments of text. Boundaries are blank
// lines immediately followed by an all-caps heading or a weekday name
func Split(text string, opts Options) []string {
	if opts.MinSegmentLen <= 0 {
		opts.MinSegmentLen = DefaultMinSegmentLen
	}
	if opts.MaxSegments <= 0 {
		opts.MaxSegments = DefaultMaxSegments
	}
	if opts.MinHeadingLen <= 0 {
		opts.MinHeadingLen = DefaultMinHeadingLen
	}

	whole := []string{text}
	if strings.TrimSpace(text) == "" {
		return whole
	}

	lines := strings.Split(text, "\n")

	// boundary line indexes: line follows a blank line and looks like a heading
	var boundaries []int
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i-1]) != "" {
			continue
		}
		if isHeading(lines[i], opts.MinHeadingLen) {
			boundaries = append(boundaries, i)
		}
	}
	if len(boundaries) < 2 {
		return whole
	}

	var segs []string
	appendSeg := func(from, to int) {
		s := strings.TrimSpace(strings.Join(lines[from:to], "\n"))
		if len(s) >= opts.MinSegmentLen {
			segs = append(segs, s)
		}
	}

	// preamble before the first boundary, then one segment per boundary
	appendSeg(0, boundaries[0])
	for bi, start := range boundaries {
		end := len(lines)
		if bi+1 < len(boundaries) {
			end = boundaries[bi+1]
		}
		appendSeg(start, end)
	}

	if len(segs) == 0 {
		return whole
	}
	if len(segs) > opts.MaxSegments {
		segs = segs[:opts.MaxSegments]
	}
	return segs
}

// isHeading reports whether line opens a schedule block: an all-caps run of at
// least minLen letters, or a leading weekday name
func isHeading(line string, minLen int) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}

	lower := strings.ToLower(s)
	for _, wd := range weekdays {
		if strings.HasPrefix(lower, wd) {
			return true
		}
	}

	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			letters++
		}
	}
	return letters >= minLen
}
