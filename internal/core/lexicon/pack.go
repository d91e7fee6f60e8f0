// Package lexicon loads and compiles the keyword pack from the embedded
// lexicon.json. Phrase lists are static configuration data: loaded once at
// process start and passed by reference into the pure classifier/filter code
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.json
var embedded []byte

type rawFood struct {
	Strong    []string `json:"strong"`
	Weak      []string `json:"weak"`
	Modifiers []string `json:"modifiers"`
}

type rawPaid struct {
	Signals       []string `json:"signals"`
	Membership    []string `json:"membership"`
	FreeOverrides []string `json:"free_overrides"`
}

type rawExclusions struct {
	Nightlife         []string `json:"nightlife"`
	OffCampus         []string `json:"off_campus"`
	Religious         []string `json:"religious"`
	StaffOnly         []string `json:"staff_only"`
	OtherInstitutions []string `json:"other_institutions"`
	Recap             []string `json:"recap"`
	Giveaway          []string `json:"giveaway"`
	Online            []string `json:"online"`
}

type rawAlias struct {
	ID    string   `json:"id"`
	Names []string `json:"names"`
}

type rawLocations struct {
	Aliases      []rawAlias        `json:"aliases"`
	RoomPrefixes map[string]string `json:"room_prefixes"`
}

type rawPack struct {
	Version    int               `json:"version"`
	Meta       map[string]string `json:"meta"`
	Food       rawFood           `json:"food"`
	Paid       rawPaid           `json:"paid"`
	Exclusions rawExclusions     `json:"exclusions"`
	Locations  rawLocations      `json:"locations"`
}

// Pack is the compiled lexicon consumed by the classifier, filter chain, and
// location canonicalizer. All phrase lists are lowercased, deduped, and sorted
type Pack struct {
	Version int
	Meta    map[string]string

	// Food keyword tiers
	StrongFood []string
	WeakFood   []string
	Modifiers  []string

	// Paid-event compound matching
	PaidSignals     []string
	MembershipTerms []string
	FreeOverrides   []string

	// Category exclusion phrase lists (one per hard filter)
	Nightlife         []string
	OffCampus         []string
	Religious         []string
	StaffOnly         []string
	OtherInstitutions []string
	Recap             []string
	Giveaway          []string
	Online            []string

	// Building alias map: normalized alias -> canonical building id.
	// AliasNames is the same key set sorted longest-first for substring scans
	Aliases    map[string]string
	AliasNames []string

	// Room code prefix -> canonical building id (e.g. "d" -> NEWMAN)
	RoomPrefixes map[string]string

	amountRe *regexp.Regexp
}

// amountPattern matches euro amounts in either "€12", "12€", or "12 euro" form
const amountPattern = `(?:€\s*([0-9]+(?:[.,][0-9]{1,2})?))|(?:([0-9]+(?:[.,][0-9]{1,2})?)\s*(?:€|euro\b|eur\b))`

// Load returns the compiled pack from the embedded lexicon.json
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("lexicon: parse lexicon.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("lexicon: unsupported lexicon.json version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version: rp.Version,
		Meta:    rp.Meta,

		StrongFood: cleanList(rp.Food.Strong),
		WeakFood:   cleanList(rp.Food.Weak),
		Modifiers:  cleanList(rp.Food.Modifiers),

		PaidSignals:     cleanList(rp.Paid.Signals),
		MembershipTerms: cleanList(rp.Paid.Membership),
		FreeOverrides:   cleanList(rp.Paid.FreeOverrides),

		Nightlife:         cleanList(rp.Exclusions.Nightlife),
		OffCampus:         cleanList(rp.Exclusions.OffCampus),
		Religious:         cleanList(rp.Exclusions.Religious),
		StaffOnly:         cleanList(rp.Exclusions.StaffOnly),
		OtherInstitutions: cleanList(rp.Exclusions.OtherInstitutions),
		Recap:             cleanList(rp.Exclusions.Recap),
		Giveaway:          cleanList(rp.Exclusions.Giveaway),
		Online:            cleanList(rp.Exclusions.Online),

		Aliases:      make(map[string]string, 64),
		RoomPrefixes: make(map[string]string, len(rp.Locations.RoomPrefixes)),

		amountRe: regexp.MustCompile(amountPattern),
	}

	// The religious filter must never fire on a bare common word
	for _, ph := range p.Religious {
		if !strings.Contains(ph, " ") {
			return nil, fmt.Errorf("lexicon: religious phrase %q must be multi-word", ph)
		}
	}

	for _, a := range rp.Locations.Aliases {
		id := strings.TrimSpace(a.ID)
		if id == "" {
			continue
		}
		for _, nm := range a.Names {
			nm = foldKey(nm)
			if nm == "" {
				continue
			}
			if prev, dup := p.Aliases[nm]; dup && prev != id {
				return nil, fmt.Errorf("lexicon: alias %q maps to both %s and %s", nm, prev, id)
			}
			p.Aliases[nm] = id
		}
	}
	p.rebuildAliasNames()

	for pre, id := range rp.Locations.RoomPrefixes {
		pre = foldKey(pre)
		if pre == "" || strings.TrimSpace(id) == "" {
			continue
		}
		p.RoomPrefixes[pre] = id
	}

	return p, nil
}

// Overlay holds tunable phrase lists merged on top of the embedded pack.
// The context-modifier set in particular is a judgment call, not a contract,
// so deployments can extend it without a rebuild
type Overlay struct {
	Food struct {
		Strong    []string `yaml:"strong"`
		Weak      []string `yaml:"weak"`
		Modifiers []string `yaml:"modifiers"`
	} `yaml:"food"`
	Paid struct {
		FreeOverrides []string `yaml:"free_overrides"`
	} `yaml:"paid"`
	Locations struct {
		Aliases map[string][]string `yaml:"aliases"` // canonical id -> extra names
	} `yaml:"locations"`
}

// MergeOverlay applies a YAML overlay read from r. Lists are appended and deduped
func (p *Pack) MergeOverlay(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("lexicon: read overlay: %w", err)
	}
	var ov Overlay
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return fmt.Errorf("lexicon: parse overlay: %w", err)
	}

	p.StrongFood = mergeList(p.StrongFood, ov.Food.Strong)
	p.WeakFood = mergeList(p.WeakFood, ov.Food.Weak)
	p.Modifiers = mergeList(p.Modifiers, ov.Food.Modifiers)
	p.FreeOverrides = mergeList(p.FreeOverrides, ov.Paid.FreeOverrides)

	for id, names := range ov.Locations.Aliases {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		for _, nm := range names {
			nm = foldKey(nm)
			if nm == "" {
				continue
			}
			p.Aliases[nm] = id
		}
	}
	p.rebuildAliasNames()
	return nil
}

// MergeOverlayFile is MergeOverlay over a file path
func (p *Pack) MergeOverlayFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("lexicon: open overlay: %w", err)
	}
	defer f.Close()
	return p.MergeOverlay(f)
}

// Amounts extracts euro amounts mentioned in text, in document order
func (p *Pack) Amounts(text string) []float64 {
	ms := p.amountRe.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return nil
	}
	out := make([]float64, 0, len(ms))
	for _, m := range ms {
		s := m[1]
		if s == "" {
			s = m[2]
		}
		s = strings.ReplaceAll(s, ",", ".")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func (p *Pack) rebuildAliasNames() {
	names := make([]string, 0, len(p.Aliases))
	for nm := range p.Aliases {
		names = append(names, nm)
	}
	// longest-first so "newman building" wins over "newman"; ties alphabetical
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	p.AliasNames = names
}

// foldKey lowercases and collapses internal whitespace for map keys
func foldKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// cleanList lowercases, trims, dedups, and sorts a phrase list
func cleanList(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = foldKey(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// mergeList appends extras onto base and re-cleans
func mergeList(base, extras []string) []string {
	if len(extras) == 0 {
		return base
	}
	return cleanList(append(append([]string{}, base...), extras...))
}
