// Package store persists rosters, season stats and import history in
// PostgreSQL. It implements core.Repository.
package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/martyvasquez/lineupai-sub000/internal/config"
	"github.com/martyvasquez/lineupai-sub000/internal/core"
	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
)

//go:embed schema.sql
var schemaSQL string

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL implementation of core.Repository.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.Repository = (*Store)(nil)

// New returns a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a connection pool sized from cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate creates any missing tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const listRosterSQL = `
SELECT id, name, jersey_number
FROM players
WHERE team_id = $1
ORDER BY lower(name), id`

func (s *Store) ListRoster(ctx context.Context, teamID string) ([]gamechanger.RosterPlayer, error) {
	rows, err := s.pool.Query(ctx, listRosterSQL, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := []gamechanger.RosterPlayer{}
	for rows.Next() {
		var (
			id     pgtype.UUID
			name   string
			jersey pgtype.Int4
		)
		if err := rows.Scan(&id, &name, &jersey); err != nil {
			return nil, err
		}
		roster = append(roster, gamechanger.RosterPlayer{
			ID:           pgUUIDString(id),
			Name:         name,
			JerseyNumber: intPtr(jersey),
		})
	}
	return roster, rows.Err()
}

const insertPlayerSQL = `
INSERT INTO players (id, team_id, name, jersey_number)
VALUES ($1, $2, $3, $4)`

func (s *Store) CreatePlayer(ctx context.Context, teamID string, p core.NewPlayer) (gamechanger.RosterPlayer, error) {
	return insertPlayer(ctx, s.pool, teamID, p)
}

func insertPlayer(ctx context.Context, q dbtx, teamID string, p core.NewPlayer) (gamechanger.RosterPlayer, error) {
	id := uuid.New()
	name := strings.TrimSpace(p.Name)
	jersey, err := toPgInt4Ptr(p.JerseyNumber)
	if err != nil {
		return gamechanger.RosterPlayer{}, fmt.Errorf("%w: jersey for %q: %v", core.ErrInvalidResolution, name, err)
	}
	_, err = q.Exec(ctx, insertPlayerSQL,
		pgtype.UUID{Bytes: id, Valid: true},
		teamID,
		name,
		jersey,
	)
	if err != nil {
		return gamechanger.RosterPlayer{}, fmt.Errorf("insert player %q: %w", name, err)
	}
	return gamechanger.RosterPlayer{ID: id.String(), Name: name, JerseyNumber: p.JerseyNumber}, nil
}

const teamPlayersSQL = `
SELECT id
FROM players
WHERE team_id = $1 AND id = ANY($2::uuid[])`

// SaveSeasonStats writes every line in one transaction. Stat rows are keyed
// by (player_id, season), so importing the same season again replaces the
// previous numbers.
func (s *Store) SaveSeasonStats(ctx context.Context, imp core.SeasonImport) ([]gamechanger.RosterPlayer, error) {
	importID := toPgUUID(imp.ImportID)
	if !importID.Valid {
		return nil, fmt.Errorf("invalid import id %q", imp.ImportID)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if err := checkTeamPlayers(ctx, tx, imp); err != nil {
		return nil, err
	}

	created := []gamechanger.RosterPlayer{}
	playerIDs := make([]pgtype.UUID, len(imp.Lines))
	for i, line := range imp.Lines {
		if line.NewPlayer != nil {
			rp, err := insertPlayer(ctx, tx, imp.TeamID, *line.NewPlayer)
			if err != nil {
				return nil, err
			}
			created = append(created, rp)
			playerIDs[i] = toPgUUID(rp.ID)
			continue
		}
		playerIDs[i] = toPgUUID(line.PlayerID)
	}

	batch := &pgx.Batch{}
	for i, line := range imp.Lines {
		queueStatLine(batch, playerIDs[i], imp.Season, importID, line.Stats)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, fmt.Errorf("write stats: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("write stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return created, nil
}

// checkTeamPlayers rejects lines that point at a player outside the team.
func checkTeamPlayers(ctx context.Context, q dbtx, imp core.SeasonImport) error {
	var ids []pgtype.UUID
	for _, line := range imp.Lines {
		if line.NewPlayer != nil {
			continue
		}
		id := toPgUUID(line.PlayerID)
		if !id.Valid {
			return fmt.Errorf("%w: player id %q is not valid", core.ErrInvalidResolution, line.PlayerID)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := q.Query(ctx, teamPlayersSQL, imp.TeamID, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := make(map[[16]byte]bool, len(ids))
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		found[id.Bytes] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if !found[id.Bytes] {
			return fmt.Errorf("%w: player %s is not on team %s", core.ErrInvalidResolution, pgUUIDString(id), imp.TeamID)
		}
	}
	return nil
}

const upsertBattingSQL = `
INSERT INTO player_batting_stats (
    player_id, season, import_id,
    gp, pa, ab, avg, obp, slg, ops,
    h, singles, doubles, triples, hr, rbi, r, bb, so, hbp, sb, cs
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
ON CONFLICT (player_id, season) DO UPDATE SET
    import_id = EXCLUDED.import_id,
    gp = EXCLUDED.gp, pa = EXCLUDED.pa, ab = EXCLUDED.ab,
    avg = EXCLUDED.avg, obp = EXCLUDED.obp, slg = EXCLUDED.slg, ops = EXCLUDED.ops,
    h = EXCLUDED.h, singles = EXCLUDED.singles, doubles = EXCLUDED.doubles,
    triples = EXCLUDED.triples, hr = EXCLUDED.hr, rbi = EXCLUDED.rbi, r = EXCLUDED.r,
    bb = EXCLUDED.bb, so = EXCLUDED.so, hbp = EXCLUDED.hbp, sb = EXCLUDED.sb, cs = EXCLUDED.cs,
    updated_at = now()`

const upsertFieldingSQL = `
INSERT INTO player_fielding_stats (player_id, season, import_id, tc, a, po, fpct, e, dp)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (player_id, season) DO UPDATE SET
    import_id = EXCLUDED.import_id,
    tc = EXCLUDED.tc, a = EXCLUDED.a, po = EXCLUDED.po,
    fpct = EXCLUDED.fpct, e = EXCLUDED.e, dp = EXCLUDED.dp,
    updated_at = now()`

const upsertPitchingSQL = `
INSERT INTO player_pitching_stats (player_id, season, import_id, ip, era, whip, so, bb, h, r, er)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (player_id, season) DO UPDATE SET
    import_id = EXCLUDED.import_id,
    ip = EXCLUDED.ip, era = EXCLUDED.era, whip = EXCLUDED.whip,
    so = EXCLUDED.so, bb = EXCLUDED.bb, h = EXCLUDED.h, r = EXCLUDED.r, er = EXCLUDED.er,
    updated_at = now()`

const deletePitchingSQL = `
DELETE FROM player_pitching_stats WHERE player_id = $1 AND season = $2`

// queueStatLine adds the batting, fielding and pitching writes for one
// player. A player who no longer pitched loses any earlier pitching line for
// the season.
func queueStatLine(b *pgx.Batch, playerID pgtype.UUID, season string, importID pgtype.UUID, st gamechanger.ParsedPlayerStats) {
	b.Queue(upsertBattingSQL, battingArgs(playerID, season, importID, st.Batting)...)
	b.Queue(upsertFieldingSQL, fieldingArgs(playerID, season, importID, st.Fielding)...)
	if st.Pitching != nil {
		b.Queue(upsertPitchingSQL, pitchingArgs(playerID, season, importID, *st.Pitching)...)
	} else {
		b.Queue(deletePitchingSQL, playerID, season)
	}
}

func battingArgs(playerID pgtype.UUID, season string, importID pgtype.UUID, b gamechanger.ParsedBattingStats) []any {
	return []any{
		playerID, season, importID,
		b.GP, b.PA, b.AB, b.AVG, b.OBP, b.SLG, b.OPS,
		b.H, b.Singles, b.Doubles, b.Triples, b.HR, b.RBI, b.R, b.BB, b.SO, b.HBP, b.SB, b.CS,
	}
}

func fieldingArgs(playerID pgtype.UUID, season string, importID pgtype.UUID, f gamechanger.ParsedFieldingStats) []any {
	return []any{playerID, season, importID, f.TC, f.A, f.PO, f.FPCT, f.E, f.DP}
}

func pitchingArgs(playerID pgtype.UUID, season string, importID pgtype.UUID, p gamechanger.ParsedPitchingStats) []any {
	return []any{playerID, season, importID, p.IP, p.ERA, p.WHIP, p.SO, p.BB, p.H, p.R, p.ER}
}

const insertImportSQL = `
INSERT INTO stat_imports (
    id, team_id, season, file_name, preview_id,
    imported, created, skipped, pitchers,
    ip_address, user_agent, imported_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, COALESCE($12, now()))`

func (s *Store) RecordImport(ctx context.Context, rec core.ImportRecord) error {
	id := toPgUUID(rec.ID)
	if !id.Valid {
		return fmt.Errorf("invalid import id %q", rec.ID)
	}
	_, err := s.pool.Exec(ctx, insertImportSQL,
		id,
		rec.TeamID,
		rec.Season,
		toPgText(rec.FileName),
		toPgUUID(rec.PreviewID),
		rec.Imported,
		rec.Created,
		rec.Skipped,
		rec.Pitchers,
		toPgText(rec.IPAddress),
		toPgText(rec.UserAgent),
		toPgTimestamptz(rec.ImportedAt),
	)
	if err != nil {
		return fmt.Errorf("insert import record: %w", err)
	}
	return nil
}

const listImportsSQL = `
SELECT id, team_id, season, file_name, preview_id,
       imported, created, skipped, pitchers,
       ip_address, user_agent, imported_at
FROM stat_imports
WHERE team_id = $1
ORDER BY imported_at DESC
LIMIT $2`

func (s *Store) ListImports(ctx context.Context, teamID string, limit int) ([]core.ImportRecord, error) {
	rows, err := s.pool.Query(ctx, listImportsSQL, teamID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []core.ImportRecord{}
	for rows.Next() {
		var (
			rec                           core.ImportRecord
			id, previewID                 pgtype.UUID
			fileName, ipAddress, userAgent pgtype.Text
			importedAt                    pgtype.Timestamptz
		)
		if err := rows.Scan(
			&id, &rec.TeamID, &rec.Season, &fileName, &previewID,
			&rec.Imported, &rec.Created, &rec.Skipped, &rec.Pitchers,
			&ipAddress, &userAgent, &importedAt,
		); err != nil {
			return nil, err
		}
		rec.ID = pgUUIDString(id)
		rec.PreviewID = pgUUIDString(previewID)
		rec.FileName = fileName.String
		rec.IPAddress = ipAddress.String
		rec.UserAgent = userAgent.String
		rec.ImportedAt = importedAt.Time
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
