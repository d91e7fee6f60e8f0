// Package location maps free-text location mentions to canonical campus
// building identifiers via alias lookup plus room-code pattern matching
package location

import (
	"regexp"
	"strings"

	"scran/internal/core/lexicon"
)

// Canonical identifies a campus building and optionally a room within it
type Canonical struct {
	Building string
	Room     string
}

// roomPattern matches short room codes like "d022", "q 14", "th-1". The
// suffix is digit-constrained: 1-3 digits with an optional trailing letter
const roomPattern = `\b([a-z]{1,2})[ -]?([0-9]{1,3}[a-z]?)\b`

// Canonicalizer resolves location mentions against the lexicon alias map
type Canonicalizer struct {
	pack   *lexicon.Pack
	roomRe *regexp.Regexp
}

// New builds a Canonicalizer over the compiled pack
func New(p *lexicon.Pack) *Canonicalizer {
	return &Canonicalizer{
		pack:   p,
		roomRe: regexp.MustCompile(roomPattern),
	}
}

// Canonicalize maps a free-text location mention to a canonical building id,
// or nil when nothing matches. No match is a lower-confidence outcome for the
// caller, never an error
func (c *Canonicalizer) Canonicalize(raw string) *Canonical {
	key := fold(raw)
	if key == "" {
		return nil
	}

	// Exact alias
	if id, ok := c.pack.Aliases[key]; ok {
		return &Canonical{Building: id, Room: c.roomIn(key)}
	}

	// Substring alias scan, longest alias first
	for _, nm := range c.pack.AliasNames {
		if lexicon.ContainsPhrase(key, nm) {
			return &Canonical{Building: c.pack.Aliases[nm], Room: c.roomIn(key)}
		}
	}

	// Room code alone implies its building
	if b, room := c.roomCode(key); b != "" {
		return &Canonical{Building: b, Room: room}
	}

	return nil
}

// Probe reports whether text mentions any campus location (alias or room code).
// Used by the online-only hard filter to tell "Zoom only" from "Zoom + room"
func (c *Canonicalizer) Probe(text string) bool {
	key := fold(text)
	if key == "" {
		return false
	}
	for _, nm := range c.pack.AliasNames {
		if lexicon.ContainsPhrase(key, nm) {
			return true
		}
	}
	b, _ := c.roomCode(key)
	return b != ""
}

// roomIn extracts a room code string from key when one is present
func (c *Canonicalizer) roomIn(key string) string {
	_, room := c.roomCode(key)
	return room
}

// roomCode finds the first room code whose prefix maps to a known building.
// Requires at least two digits so bare small numbers ("room a 1"? no) and
// ordinal fragments don't alias into rooms
func (c *Canonicalizer) roomCode(key string) (building, room string) {
	for _, m := range c.roomRe.FindAllStringSubmatch(key, -1) {
		prefix, digits := m[1], m[2]
		if len(strings.TrimRight(digits, "abcdefghijklmnopqrstuvwxyz")) < 2 {
			continue
		}
		if b, ok := c.pack.RoomPrefixes[prefix]; ok {
			return b, strings.ToUpper(prefix + digits)
		}
	}
	return "", ""
}

// fold lowercases and collapses whitespace the same way the alias map keys were built
func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
