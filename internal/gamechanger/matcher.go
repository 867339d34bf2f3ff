package gamechanger

import "strings"

// NameMatchFunc decides whether a roster display name refers to a parsed
// player. fullName is "first last" and lastName is the parsed last name, both
// lower-cased; rosterName is the lower-cased roster display name.
type NameMatchFunc func(fullName, lastName, rosterName string) bool

// LooseNameMatch accepts an exact full-name match, a roster name that contains
// the last name, or a full name that contains the roster name.
//
// Youth rosters are typed in by hand, so this rule is deliberately loose and
// will produce false positives (two brothers share a last name). Results
// matched this way should be shown to a person before import.
func LooseNameMatch(fullName, lastName, rosterName string) bool {
	if rosterName == "" {
		return false
	}
	if rosterName == fullName {
		return true
	}
	if lastName != "" && strings.Contains(rosterName, lastName) {
		return true
	}
	return strings.Contains(fullName, rosterName)
}

// Matcher pairs parsed rows with roster players.
type Matcher struct {
	nameMatch NameMatchFunc
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithNameMatch replaces the name fallback rule.
func WithNameMatch(fn NameMatchFunc) MatcherOption {
	return func(m *Matcher) {
		if fn != nil {
			m.nameMatch = fn
		}
	}
}

// NewMatcher returns a Matcher using LooseNameMatch unless overridden.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{nameMatch: LooseNameMatch}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match resolves every parsed row against roster using the default rules.
func Match(parsed []ParsedPlayerStats, roster []RosterPlayer) []MatchResult {
	return NewMatcher().Match(parsed, roster)
}

// Match returns exactly one result per parsed row, in the same order.
// Jersey number wins over name; the first qualifying roster player is used.
// roster is only read.
func (m *Matcher) Match(parsed []ParsedPlayerStats, roster []RosterPlayer) []MatchResult {
	results := make([]MatchResult, len(parsed))
	for i, p := range parsed {
		results[i] = m.matchOne(p, roster)
	}
	return results
}

func (m *Matcher) matchOne(p ParsedPlayerStats, roster []RosterPlayer) MatchResult {
	if rp, ok := findByJersey(p.JerseyNumber, roster); ok {
		return matched(p, rp, MatchJerseyNumber)
	}

	lastName := strings.ToLower(strings.TrimSpace(p.LastName))
	fullName := strings.ToLower(strings.TrimSpace(p.FirstName)) + " " + lastName

	for _, rp := range roster {
		rosterName := strings.ToLower(strings.TrimSpace(rp.Name))
		if m.nameMatch(fullName, lastName, rosterName) {
			return matched(p, rp, MatchName)
		}
	}

	return MatchResult{Parsed: p, MatchedBy: MatchNone}
}

func findByJersey(number int, roster []RosterPlayer) (RosterPlayer, bool) {
	for _, rp := range roster {
		if rp.JerseyNumber != nil && *rp.JerseyNumber == number {
			return rp, true
		}
	}
	return RosterPlayer{}, false
}

func matched(p ParsedPlayerStats, rp RosterPlayer, by MatchMethod) MatchResult {
	id := rp.ID
	name := rp.Name
	return MatchResult{
		Parsed:     p,
		PlayerID:   &id,
		PlayerName: &name,
		MatchedBy:  by,
	}
}
