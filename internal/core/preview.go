package core

import (
	"sort"
	"time"

	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
)

// PreviewRow is one parsed export row and the roster player it matched.
type PreviewRow struct {
	Index int `json:"index"`
	gamechanger.MatchResult
}

// PreviewSummary counts rows by how they matched.
type PreviewSummary struct {
	Total     int `json:"total"`
	ByJersey  int `json:"by_jersey"`
	ByName    int `json:"by_name"`
	Unmatched int `json:"unmatched"`
	Pitchers  int `json:"pitchers"`
}

// Conflict is a roster player claimed by more than one export row. It must
// be resolved before the preview can be committed.
type Conflict struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Rows       []int  `json:"rows"`
}

// ImportPreview is the result of parsing and matching one export, held until
// the coach commits or it expires.
type ImportPreview struct {
	ID        string         `json:"id"`
	TeamID    string         `json:"team_id"`
	Season    string         `json:"season"`
	FileName  string         `json:"file_name"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	Rows      []PreviewRow   `json:"rows"`
	Summary   PreviewSummary `json:"summary"`
	Conflicts []Conflict     `json:"conflicts"`
}

// HasConflicts reports whether any roster player is claimed twice.
func (p *ImportPreview) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// Row returns the row at index i.
func (p *ImportPreview) Row(i int) (PreviewRow, bool) {
	if i < 0 || i >= len(p.Rows) {
		return PreviewRow{}, false
	}
	return p.Rows[i], true
}

func buildPreviewRows(results []gamechanger.MatchResult) []PreviewRow {
	rows := make([]PreviewRow, len(results))
	for i, r := range results {
		rows[i] = PreviewRow{Index: i, MatchResult: r}
	}
	return rows
}

func summarize(rows []PreviewRow) PreviewSummary {
	s := PreviewSummary{Total: len(rows)}
	for _, r := range rows {
		switch r.MatchedBy {
		case gamechanger.MatchJerseyNumber:
			s.ByJersey++
		case gamechanger.MatchName:
			s.ByName++
		default:
			s.Unmatched++
		}
		if r.Parsed.Pitching != nil {
			s.Pitchers++
		}
	}
	return s
}

// findConflicts lists roster players matched by two or more rows, ordered by
// the first row that claimed them.
func findConflicts(rows []PreviewRow) []Conflict {
	claims := make(map[string][]int)
	names := make(map[string]string)
	for _, r := range rows {
		if !r.Matched() {
			continue
		}
		id := *r.PlayerID
		claims[id] = append(claims[id], r.Index)
		names[id] = *r.PlayerName
	}

	conflicts := []Conflict{}
	for id, idx := range claims {
		if len(idx) > 1 {
			conflicts = append(conflicts, Conflict{PlayerID: id, PlayerName: names[id], Rows: idx})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Rows[0] < conflicts[j].Rows[0]
	})
	return conflicts
}
