package core

import (
	"fmt"
	"strings"

	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
)

// ResolutionAction is the coach's decision for one preview row.
type ResolutionAction string

const (
	// ActionImport keeps the row's automatic match.
	ActionImport ResolutionAction = "import"
	// ActionAssign attaches the row to an explicit roster player.
	ActionAssign ResolutionAction = "assign"
	// ActionCreate adds the row's player to the roster.
	ActionCreate ResolutionAction = "create"
	// ActionSkip leaves the row out of the import.
	ActionSkip ResolutionAction = "skip"
)

// Resolution overrides the default decision for one row.
type Resolution struct {
	Row      int              `json:"row" validate:"min=0"`
	Action   ResolutionAction `json:"action" validate:"required,oneof=import assign create skip"`
	PlayerID string           `json:"player_id,omitempty" validate:"required_if=Action assign,max=64"`
}

// CommitRequest carries the overrides for a preview. Rows without a
// resolution are imported when matched and skipped otherwise.
type CommitRequest struct {
	Resolutions []Resolution `json:"resolutions" validate:"omitempty,max=200,dive"`
}

// CommitResult summarizes a committed import.
type CommitResult struct {
	ImportID       string                     `json:"import_id"`
	TeamID         string                     `json:"team_id"`
	Season         string                     `json:"season"`
	Imported       int                        `json:"imported"`
	Created        int                        `json:"created"`
	Skipped        int                        `json:"skipped"`
	Pitchers       int                        `json:"pitchers"`
	CreatedPlayers []gamechanger.RosterPlayer `json:"created_players"`
}

// planLines applies resolutions to the preview rows and returns the stat
// lines to persist plus the number of skipped rows. roster is used to check
// assigned player ids.
func planLines(p *ImportPreview, resolutions []Resolution, roster []gamechanger.RosterPlayer) ([]StatLine, int, error) {
	decisions := make([]Resolution, len(p.Rows))
	for i, row := range p.Rows {
		if row.Matched() {
			decisions[i] = Resolution{Row: i, Action: ActionImport, PlayerID: *row.PlayerID}
		} else {
			decisions[i] = Resolution{Row: i, Action: ActionSkip}
		}
	}

	onRoster := make(map[string]bool, len(roster))
	for _, rp := range roster {
		onRoster[rp.ID] = true
	}

	seen := make(map[int]bool, len(resolutions))
	for _, res := range resolutions {
		row, ok := p.Row(res.Row)
		if !ok {
			return nil, 0, fmt.Errorf("%w: row %d does not exist", ErrInvalidResolution, res.Row)
		}
		if seen[res.Row] {
			return nil, 0, fmt.Errorf("%w: row %d resolved more than once", ErrInvalidResolution, res.Row)
		}
		seen[res.Row] = true

		switch res.Action {
		case ActionImport:
			if !row.Matched() {
				return nil, 0, fmt.Errorf("%w: row %d has no matched player to import", ErrInvalidResolution, res.Row)
			}
			decisions[res.Row] = Resolution{Row: res.Row, Action: ActionImport, PlayerID: *row.PlayerID}
		case ActionAssign:
			if !onRoster[res.PlayerID] {
				return nil, 0, fmt.Errorf("%w: player %s is not on the roster", ErrInvalidResolution, res.PlayerID)
			}
			decisions[res.Row] = res
		case ActionCreate:
			if strings.TrimSpace(row.Parsed.FullName()) == "" {
				return nil, 0, fmt.Errorf("%w: row %d has no name to create a player from", ErrInvalidResolution, res.Row)
			}
			decisions[res.Row] = Resolution{Row: res.Row, Action: ActionCreate}
		case ActionSkip:
			decisions[res.Row] = Resolution{Row: res.Row, Action: ActionSkip}
		default:
			return nil, 0, fmt.Errorf("%w: unknown action %q", ErrInvalidResolution, res.Action)
		}
	}

	var (
		lines   []StatLine
		skipped int
		claimed = make(map[string]int)
	)
	for i, d := range decisions {
		row := p.Rows[i]
		switch d.Action {
		case ActionSkip:
			skipped++
			continue
		case ActionCreate:
			number := row.Parsed.JerseyNumber
			lines = append(lines, StatLine{
				Row:       i,
				NewPlayer: &NewPlayer{Name: strings.TrimSpace(row.Parsed.FullName()), JerseyNumber: &number},
				Stats:     row.Parsed,
			})
			continue
		}

		if prev, dup := claimed[d.PlayerID]; dup {
			return nil, 0, fmt.Errorf("%w: rows %d and %d both resolve to player %s",
				ErrInvalidResolution, prev, i, d.PlayerID)
		}
		claimed[d.PlayerID] = i
		lines = append(lines, StatLine{Row: i, PlayerID: d.PlayerID, Stats: row.Parsed})
	}

	return lines, skipped, nil
}
