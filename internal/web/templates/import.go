package templates

import (
	"context"
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/martyvasquez/lineupai-sub000/internal/core"
	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
)

// ImportPageParams is everything the import page shows.
type ImportPageParams struct {
	TeamID      string
	Roster      []gamechanger.RosterPlayer
	History     []core.ImportRecord
	MaxFileSize int64
}

// ImportPage is the full page: upload form, preview target, roster and
// import history.
func ImportPage(p ImportPageParams) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.rawf(`<title>Import season stats - %s</title>`, p.TeamID)
		h.rawf(`<script src="%s"></script>`, htmxSrc)
		h.raw(`</head><body><main>`)
		h.raw(`<h1>Import GameChanger season stats</h1>`)

		h.rawf(`<form id="upload" hx-post="/api/teams/%s/imports/preview" hx-encoding="multipart/form-data" hx-target="#preview" hx-swap="innerHTML">`, p.TeamID)
		h.raw(`<label>Season <input type="text" name="season" required maxlength="32" placeholder="Spring 2026"></label>`)
		h.raw(`<label>Export <input type="file" name="file" accept=".csv,text/csv" required></label>`)
		if p.MaxFileSize > 0 {
			h.rawf(`<small>Up to %d KB.</small>`, p.MaxFileSize/1024)
		}
		h.raw(`<button type="submit">Preview</button></form>`)
		h.raw(`<section id="preview"></section>`)

		h.component(ctx, RosterList(p.Roster))
		h.component(ctx, HistoryTable(p.History))
		h.raw(`</main></body></html>`)
	})
}

// RosterList renders the team roster.
func RosterList(roster []gamechanger.RosterPlayer) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section id="roster"><h2>Roster</h2>`)
		if len(roster) == 0 {
			h.raw(`<p class="empty">No players yet. Unmatched rows can be added during import.</p></section>`)
			return
		}
		h.raw(`<ul>`)
		for _, rp := range roster {
			h.rawf(`<li><span class="jersey">%s</span> %s</li>`, jerseyText(rp.JerseyNumber), rp.Name)
		}
		h.raw(`</ul></section>`)
	})
}

// HistoryTable renders past imports, newest first.
func HistoryTable(history []core.ImportRecord) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section id="history"><h2>Previous imports</h2>`)
		if len(history) == 0 {
			h.raw(`<p class="empty">No imports yet.</p></section>`)
			return
		}
		h.raw(`<table><thead><tr><th>When</th><th>Season</th><th>File</th><th>Imported</th><th>Created</th><th>Skipped</th></tr></thead><tbody>`)
		for _, rec := range history {
			h.rawf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>`,
				rec.ImportedAt.Format("2006-01-02 15:04"), rec.Season, rec.FileName,
				rec.Imported, rec.Created, rec.Skipped)
		}
		h.raw(`</tbody></table></section>`)
	})
}

// PreviewTable renders a preview as a commit form. Each row gets an action
// select named action_<row> and, for assignments, player_<row>.
func PreviewTable(p *core.ImportPreview, roster []gamechanger.RosterPlayer) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		s := p.Summary
		h.rawf(`<div class="preview" data-preview-id="%s">`, p.ID)
		h.rawf(`<h2>%s: %s</h2>`, p.Season, p.FileName)
		h.rawf(`<p class="summary">%d players: %d matched by jersey, %d by name, %d unmatched, %d pitched.</p>`,
			s.Total, s.ByJersey, s.ByName, s.Unmatched, s.Pitchers)

		if p.HasConflicts() {
			h.raw(`<div class="alert alert-warning"><p>Some roster players are claimed by more than one row. Reassign or skip the extra rows before importing.</p><ul>`)
			for _, c := range p.Conflicts {
				h.rawf(`<li>%s: rows %s</li>`, c.PlayerName, joinRows(c.Rows))
			}
			h.raw(`</ul></div>`)
		}

		h.rawf(`<form hx-post="/api/teams/%s/imports/%s/commit" hx-target="#preview" hx-swap="innerHTML">`, p.TeamID, p.ID)
		h.raw(`<table><thead><tr><th>Row</th><th>#</th><th>Name</th><th>GP</th><th>AVG</th><th>IP</th><th>Match</th><th>Action</th></tr></thead><tbody>`)
		for _, row := range p.Rows {
			previewRow(h, row, roster, conflicted(p.Conflicts, row.Index))
		}
		h.raw(`</tbody></table>`)
		h.rawf(`<p class="expires">Preview expires at %s.</p>`, p.ExpiresAt.Format("15:04"))
		h.raw(`<button type="submit">Import</button></form></div>`)
	})
}

func previewRow(h *htmlWriter, row core.PreviewRow, roster []gamechanger.RosterPlayer, conflict bool) {
	class := "unmatched"
	if row.Matched() {
		class = "matched"
	}
	if conflict {
		class += " conflict"
	}

	ip := "-"
	if row.Parsed.Pitching != nil {
		ip = strconv.FormatFloat(row.Parsed.Pitching.IP, 'f', 1, 64)
	}

	h.rawf(`<tr class="%s"><td>%d</td><td>%d</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td>`,
		class, row.Index+1, row.Parsed.JerseyNumber, row.Parsed.FullName(),
		row.Parsed.Batting.GP, formatRate(row.Parsed.Batting.AVG), ip)

	switch row.MatchedBy {
	case gamechanger.MatchJerseyNumber:
		h.rawf(`<td>%s (jersey)</td>`, *row.PlayerName)
	case gamechanger.MatchName:
		h.rawf(`<td>%s (name)</td>`, *row.PlayerName)
	default:
		h.raw(`<td>No match</td>`)
	}

	h.raw(`<td>`)
	h.raw(fmt.Sprintf(`<select name="action_%d">`, row.Index))
	if row.Matched() {
		h.raw(`<option value="import" selected>Import</option>`)
	}
	h.raw(`<option value="assign">Assign to</option>`)
	h.raw(`<option value="create">Add to roster</option>`)
	if row.Matched() {
		h.raw(`<option value="skip">Skip</option>`)
	} else {
		h.raw(`<option value="skip" selected>Skip</option>`)
	}
	h.raw(`</select>`)

	h.raw(fmt.Sprintf(`<select name="player_%d"><option value=""></option>`, row.Index))
	for _, rp := range roster {
		h.rawf(`<option value="%s">%s %s</option>`, rp.ID, jerseyText(rp.JerseyNumber), rp.Name)
	}
	h.raw(`</select></td></tr>`)
}

func conflicted(conflicts []core.Conflict, row int) bool {
	for _, c := range conflicts {
		for _, r := range c.Rows {
			if r == row {
				return true
			}
		}
	}
	return false
}

func joinRows(rows []int) string {
	out := ""
	for i, r := range rows {
		if i > 0 {
			out += ", "
		}
		out += strconv.Itoa(r + 1)
	}
	return out
}

// CommitSummary reports a finished import.
func CommitSummary(res *core.CommitResult) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="alert alert-success" role="status">`)
		h.rawf(`<p>Imported %s stats for %d players.</p>`, res.Season, res.Imported)
		h.rawf(`<p>%d added to the roster, %d skipped, %d pitchers.</p>`, res.Created, res.Skipped, res.Pitchers)
		if len(res.CreatedPlayers) > 0 {
			h.raw(`<ul class="created">`)
			for _, rp := range res.CreatedPlayers {
				h.rawf(`<li>%s %s</li>`, jerseyText(rp.JerseyNumber), rp.Name)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</div>`)
	})
}
