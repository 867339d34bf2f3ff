package gamechanger

import "encoding/json"

// ParsedBattingStats is one season line of batting statistics.
// Rate stats are 0 when the player had no at-bats.
type ParsedBattingStats struct {
	GP      int     `json:"gp"`
	PA      int     `json:"pa"`
	AB      int     `json:"ab"`
	AVG     float64 `json:"avg"`
	OBP     float64 `json:"obp"`
	SLG     float64 `json:"slg"`
	OPS     float64 `json:"ops"`
	H       int     `json:"h"`
	Singles int     `json:"singles"`
	Doubles int     `json:"doubles"`
	Triples int     `json:"triples"`
	HR      int     `json:"hr"`
	RBI     int     `json:"rbi"`
	R       int     `json:"r"`
	BB      int     `json:"bb"`
	SO      int     `json:"so"`
	HBP     int     `json:"hbp"`
	SB      int     `json:"sb"`
	CS      int     `json:"cs"`
}

// ParsedFieldingStats is one season line of fielding statistics.
type ParsedFieldingStats struct {
	TC   int     `json:"tc"`
	A    int     `json:"a"`
	PO   int     `json:"po"`
	FPCT float64 `json:"fpct"`
	E    int     `json:"e"`
	DP   int     `json:"dp"`
}

// ParsedPitchingStats is one season line of pitching statistics.
// IP keeps GameChanger's thirds notation: 6.2 means six and two thirds.
type ParsedPitchingStats struct {
	IP   float64 `json:"ip"`
	ERA  float64 `json:"era"`
	WHIP float64 `json:"whip"`
	SO   int     `json:"so"`
	BB   int     `json:"bb"`
	H    int     `json:"h"`
	R    int     `json:"r"`
	ER   int     `json:"er"`
}

// ParsedPlayerStats is a single player row from an export.
// Pitching is nil for players who did not pitch.
type ParsedPlayerStats struct {
	JerseyNumber int                  `json:"number"`
	LastName     string               `json:"last"`
	FirstName    string               `json:"first"`
	Batting      ParsedBattingStats   `json:"batting"`
	Fielding     ParsedFieldingStats  `json:"fielding"`
	Pitching     *ParsedPitchingStats `json:"pitching"`
}

// FullName returns "First Last" as it appears in the export.
func (p ParsedPlayerStats) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// RosterPlayer is a player already on the team, supplied by the caller.
type RosterPlayer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	JerseyNumber *int   `json:"jersey_number"`
}

// MatchMethod records how a parsed row was paired with a roster player.
type MatchMethod string

const (
	MatchNone         MatchMethod = ""
	MatchJerseyNumber MatchMethod = "jersey_number"
	MatchName         MatchMethod = "name"
)

// MarshalJSON encodes MatchNone as null.
func (m MatchMethod) MarshalJSON() ([]byte, error) {
	if m == MatchNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

// UnmarshalJSON accepts null as MatchNone.
func (m *MatchMethod) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = MatchNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = MatchMethod(s)
	return nil
}

// MatchResult pairs a parsed row with the roster player it resolved to.
// PlayerID is non-nil exactly when MatchedBy is not MatchNone.
type MatchResult struct {
	Parsed     ParsedPlayerStats `json:"parsed"`
	PlayerID   *string           `json:"player_id"`
	PlayerName *string           `json:"player_name"`
	MatchedBy  MatchMethod       `json:"matched_by"`
}

// Matched reports whether the row resolved to a roster player.
func (r MatchResult) Matched() bool {
	return r.PlayerID != nil
}
