package gamechanger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jersey(n int) *int { return &n }

func parsedPlayer(number int, first, last string) ParsedPlayerStats {
	return ParsedPlayerStats{JerseyNumber: number, FirstName: first, LastName: last}
}

func TestMatch_SeasonExportAgainstRoster(t *testing.T) {
	parsed, err := Parse(seasonExport(t))
	require.NoError(t, err)

	roster := []RosterPlayer{{ID: "p1", Name: "Ryan Chen", JerseyNumber: jersey(4)}}
	results := Match(parsed, roster)
	require.Len(t, results, 3)

	require.NotNil(t, results[0].PlayerID)
	assert.Equal(t, "p1", *results[0].PlayerID)
	assert.Equal(t, "Ryan Chen", *results[0].PlayerName)
	assert.Equal(t, MatchJerseyNumber, results[0].MatchedBy)

	for _, r := range results[1:] {
		assert.Nil(t, r.PlayerID)
		assert.Nil(t, r.PlayerName)
		assert.Equal(t, MatchNone, r.MatchedBy)
		assert.False(t, r.Matched())
	}
}

func TestMatch_PreservesOrderAndLength(t *testing.T) {
	parsed := []ParsedPlayerStats{
		parsedPlayer(9, "Ava", "Lopez"),
		parsedPlayer(4, "Ryan", "Chen"),
		parsedPlayer(9, "Ava", "Lopez"),
		parsedPlayer(30, "Nobody", "Here"),
	}
	roster := []RosterPlayer{
		{ID: "p1", Name: "Ryan Chen", JerseyNumber: jersey(4)},
		{ID: "p2", Name: "Ava Lopez", JerseyNumber: jersey(9)},
	}

	results := Match(parsed, roster)
	require.Len(t, results, len(parsed))
	for i, r := range results {
		assert.Equal(t, parsed[i], r.Parsed, "row %d", i)
		assert.Equal(t, r.PlayerID != nil, r.MatchedBy != MatchNone, "row %d", i)
	}

	// Duplicate rows resolve independently to the same player.
	assert.Equal(t, "p2", *results[0].PlayerID)
	assert.Equal(t, "p2", *results[2].PlayerID)
	assert.False(t, results[3].Matched())
}

func TestMatch_EmptyInputs(t *testing.T) {
	assert.Empty(t, Match(nil, []RosterPlayer{{ID: "p1", Name: "Ryan Chen"}}))

	results := Match([]ParsedPlayerStats{parsedPlayer(4, "Ryan", "Chen")}, nil)
	require.Len(t, results, 1)
	assert.False(t, results[0].Matched())
}

func TestMatch_JerseyBeatsName(t *testing.T) {
	parsed := []ParsedPlayerStats{parsedPlayer(7, "Cole", "Anderson")}
	roster := []RosterPlayer{
		{ID: "by-name", Name: "Cole Anderson", JerseyNumber: jersey(12)},
		{ID: "by-jersey", Name: "Somebody Else", JerseyNumber: jersey(7)},
	}

	results := Match(parsed, roster)
	require.True(t, results[0].Matched())
	assert.Equal(t, "by-jersey", *results[0].PlayerID)
	assert.Equal(t, MatchJerseyNumber, results[0].MatchedBy)
}

func TestMatch_FirstQualifyingPlayerWins(t *testing.T) {
	parsed := []ParsedPlayerStats{parsedPlayer(7, "Cole", "Anderson"), parsedPlayer(30, "Sam", "Ortiz")}
	roster := []RosterPlayer{
		{ID: "a", Name: "First Seven", JerseyNumber: jersey(7)},
		{ID: "b", Name: "Second Seven", JerseyNumber: jersey(7)},
		{ID: "c", Name: "Maria Ortiz"},
		{ID: "d", Name: "Sam Ortiz"},
	}

	results := Match(parsed, roster)
	assert.Equal(t, "a", *results[0].PlayerID)
	// "maria ortiz" contains the last name, so it qualifies before the exact match.
	assert.Equal(t, "c", *results[1].PlayerID)
	assert.Equal(t, MatchName, results[1].MatchedBy)
}

func TestMatch_NameFallback(t *testing.T) {
	tests := []struct {
		name       string
		first      string
		last       string
		rosterName string
		want       bool
	}{
		{name: "exact, case-insensitive", first: "cole", last: "anderson", rosterName: "Cole Anderson", want: true},
		{name: "surrounding whitespace", first: " Cole ", last: "Anderson ", rosterName: "  COLE ANDERSON", want: true},
		{name: "roster contains last name", first: "Cole", last: "Anderson", rosterName: "C. Anderson", want: true},
		{name: "full name contains roster name", first: "Cole", last: "Anderson", rosterName: "Cole", want: true},
		{name: "unrelated", first: "Cole", last: "Anderson", rosterName: "Maya Patel", want: false},
		{name: "blank roster name", first: "Cole", last: "Anderson", rosterName: "   ", want: false},
		{name: "blank last name does not match everything", first: "Cole", last: "", rosterName: "Maya Patel", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := []ParsedPlayerStats{parsedPlayer(50, tt.first, tt.last)}
			roster := []RosterPlayer{{ID: "r1", Name: tt.rosterName, JerseyNumber: jersey(1)}}

			results := Match(parsed, roster)
			require.Len(t, results, 1)
			assert.Equal(t, tt.want, results[0].Matched())
			if tt.want {
				assert.Equal(t, MatchName, results[0].MatchedBy)
				assert.Equal(t, tt.rosterName, *results[0].PlayerName)
			}
		})
	}
}

func TestMatch_NilJerseyNeverMatchesByJersey(t *testing.T) {
	parsed := []ParsedPlayerStats{parsedPlayer(0, "Zed", "Zero")}
	roster := []RosterPlayer{
		{ID: "nil-jersey", Name: "Someone", JerseyNumber: nil},
		{ID: "zero", Name: "Other", JerseyNumber: jersey(0)},
	}

	results := Match(parsed, roster)
	require.True(t, results[0].Matched())
	assert.Equal(t, "zero", *results[0].PlayerID)
	assert.Equal(t, MatchJerseyNumber, results[0].MatchedBy)

	results = Match(parsed, roster[:1])
	assert.False(t, results[0].Matched())
}

func TestMatch_DoesNotMutateRoster(t *testing.T) {
	roster := []RosterPlayer{
		{ID: "p1", Name: "Ryan Chen", JerseyNumber: jersey(4)},
		{ID: "p2", Name: "Cole Anderson"},
	}
	before := make([]RosterPlayer, len(roster))
	copy(before, roster)

	results := Match([]ParsedPlayerStats{parsedPlayer(4, "Ryan", "Chen"), parsedPlayer(7, "Cole", "Anderson")}, roster)
	*results[0].PlayerID = "changed"
	*results[1].PlayerName = "changed"

	assert.Equal(t, before, roster)
	assert.Equal(t, 4, *roster[0].JerseyNumber)
}

func TestMatcher_WithNameMatch(t *testing.T) {
	exact := func(fullName, _, rosterName string) bool { return fullName == rosterName }
	m := NewMatcher(WithNameMatch(exact))

	parsed := []ParsedPlayerStats{parsedPlayer(50, "Cole", "Anderson")}
	roster := []RosterPlayer{
		{ID: "brother", Name: "Max Anderson"},
		{ID: "cole", Name: "Cole Anderson"},
	}

	results := m.Match(parsed, roster)
	assert.Equal(t, "cole", *results[0].PlayerID)

	// The default rule takes the first roster entry sharing a last name.
	results = Match(parsed, roster)
	assert.Equal(t, "brother", *results[0].PlayerID)

	// A nil option leaves the default in place.
	results = NewMatcher(WithNameMatch(nil)).Match(parsed, roster)
	assert.Equal(t, "brother", *results[0].PlayerID)
}

func TestMatchResult_JSON(t *testing.T) {
	results := Match(
		[]ParsedPlayerStats{parsedPlayer(4, "Ryan", "Chen"), parsedPlayer(8, "No", "Match")},
		[]RosterPlayer{{ID: "p1", Name: "Ryan Chen", JerseyNumber: jersey(4)}},
	)

	data, err := json.Marshal(results)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)

	assert.Equal(t, "p1", raw[0]["player_id"])
	assert.Equal(t, "jersey_number", raw[0]["matched_by"])
	assert.Nil(t, raw[1]["player_id"])
	assert.Nil(t, raw[1]["player_name"])
	assert.Contains(t, raw[1], "matched_by")
	assert.Nil(t, raw[1]["matched_by"])

	var decoded []MatchResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MatchJerseyNumber, decoded[0].MatchedBy)
	assert.Equal(t, MatchNone, decoded[1].MatchedBy)
	assert.Nil(t, decoded[1].Parsed.Pitching)
}
