package core

import (
	"context"
	"time"

	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
)

// Repository is the persistence the import service needs. internal/store
// implements it on PostgreSQL.
type Repository interface {
	// ListRoster returns the team's players ordered by name.
	ListRoster(ctx context.Context, teamID string) ([]gamechanger.RosterPlayer, error)

	// CreatePlayer adds one player to the team roster.
	CreatePlayer(ctx context.Context, teamID string, p NewPlayer) (gamechanger.RosterPlayer, error)

	// SaveSeasonStats upserts every line for the season in one transaction,
	// creating roster players for lines that carry NewPlayer. It returns the
	// players it created.
	SaveSeasonStats(ctx context.Context, imp SeasonImport) ([]gamechanger.RosterPlayer, error)

	// RecordImport appends to the team's import history.
	RecordImport(ctx context.Context, rec ImportRecord) error

	// ListImports returns the most recent imports first, at most limit.
	ListImports(ctx context.Context, teamID string, limit int) ([]ImportRecord, error)
}

// NewPlayer describes a roster player to create.
type NewPlayer struct {
	Name         string `json:"name" validate:"required,max=100"`
	JerseyNumber *int   `json:"jersey_number" validate:"omitempty,min=0,max=999"`
}

// StatLine is one player's season stats to persist. Exactly one of PlayerID
// and NewPlayer is set.
type StatLine struct {
	Row       int
	PlayerID  string
	NewPlayer *NewPlayer
	Stats     gamechanger.ParsedPlayerStats
}

// SeasonImport is everything SaveSeasonStats writes for one commit.
type SeasonImport struct {
	ImportID string
	TeamID   string
	Season   string
	Lines    []StatLine
}

// ImportRecord is one entry of a team's import history.
type ImportRecord struct {
	ID         string    `json:"id"`
	TeamID     string    `json:"team_id"`
	Season     string    `json:"season"`
	FileName   string    `json:"file_name"`
	PreviewID  string    `json:"preview_id"`
	Imported   int       `json:"imported"`
	Created    int       `json:"created"`
	Skipped    int       `json:"skipped"`
	Pitchers   int       `json:"pitchers"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}
