package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/martyvasquez/lineupai-sub000/internal/config"
	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
	"github.com/martyvasquez/lineupai-sub000/internal/logging"
)

// Import errors.
var (
	ErrPreviewNotFound   = errors.New("preview not found")
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrNoPlayerRows      = errors.New("no player rows in export")
	ErrInvalidRequest    = errors.New("invalid import request")
	ErrEmptyFile         = errors.New("empty file")
	ErrFileTooLarge      = errors.New("file too large")
)

// historyLimit caps ImportHistory.
const historyLimit = 50

// Service runs GameChanger imports: parse and match into a preview, then
// commit the coach's decisions to the repository.
type Service struct {
	repo     Repository
	previews PreviewStore
	limiter  *ImportLimiter
	matcher  *gamechanger.Matcher
	validate *validator.Validate
	cfg      config.ImportConfig
	now      func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithMatcher replaces the default roster matcher.
func WithMatcher(m *gamechanger.Matcher) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the import service. previews may be nil, in which case an
// in-memory store is used.
func NewService(repo Repository, previews PreviewStore, cfg config.ImportConfig, opts ...ServiceOption) *Service {
	if previews == nil {
		previews = NewMemoryPreviewStore()
	}
	s := &Service{
		repo:     repo,
		previews: previews,
		limiter:  NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		matcher:  gamechanger.NewMatcher(),
		validate: validator.New(),
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type previewInput struct {
	TeamID   string `validate:"required,max=64"`
	Season   string `validate:"required,max=32"`
	FileName string `validate:"max=255"`
}

// PreviewImport parses an export, matches it against the team roster and
// stores the result for a later CommitImport.
func (s *Service) PreviewImport(ctx context.Context, teamID, season, fileName string, data []byte) (*ImportPreview, error) {
	log := logging.ForImport(ctx, teamID, "")

	in := previewInput{TeamID: teamID, Season: strings.TrimSpace(season), FileName: fileName}
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.cfg.MaxFileSize > 0 && int64(len(data)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), s.cfg.MaxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := s.now()
	parsed, err := gamechanger.Parse(sanitizeUTF8(data))
	if err != nil {
		log.Warn("export rejected", "file", fileName, "error", err)
		return nil, fmt.Errorf("parse export: %w", err)
	}
	if len(parsed) == 0 {
		return nil, ErrNoPlayerRows
	}

	roster, err := s.repo.ListRoster(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	rows := buildPreviewRows(s.matcher.Match(parsed, roster))
	created := s.now()
	preview := &ImportPreview{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		Season:    in.Season,
		FileName:  fileName,
		CreatedAt: created,
		ExpiresAt: created.Add(s.cfg.PreviewTTL),
		Rows:      rows,
		Summary:   summarize(rows),
		Conflicts: findConflicts(rows),
	}

	if err := s.previews.Save(ctx, preview, s.cfg.PreviewTTL); err != nil {
		return nil, fmt.Errorf("save preview: %w", err)
	}

	log.Info("import previewed",
		"preview_id", preview.ID,
		"season", preview.Season,
		"rows", preview.Summary.Total,
		"by_jersey", preview.Summary.ByJersey,
		"by_name", preview.Summary.ByName,
		"unmatched", preview.Summary.Unmatched,
		"conflicts", len(preview.Conflicts),
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return preview, nil
}

// GetPreview returns a stored preview belonging to teamID.
func (s *Service) GetPreview(ctx context.Context, teamID, previewID string) (*ImportPreview, error) {
	p, err := s.previews.Get(ctx, previewID)
	if err != nil {
		return nil, err
	}
	if p.TeamID != teamID {
		return nil, ErrPreviewNotFound
	}
	return p, nil
}

// CommitImport applies req to a stored preview and persists the season stats.
func (s *Service) CommitImport(ctx context.Context, teamID, previewID string, req CommitRequest) (*CommitResult, error) {
	log := logging.ForImport(ctx, teamID, previewID)

	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResolution, err)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	preview, err := s.GetPreview(ctx, teamID, previewID)
	if err != nil {
		return nil, err
	}

	roster, err := s.repo.ListRoster(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	lines, skipped, err := planLines(preview, req.Resolutions, roster)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if l.NewPlayer == nil {
			continue
		}
		if err := s.validate.StructCtx(ctx, *l.NewPlayer); err != nil {
			return nil, fmt.Errorf("%w: row %d cannot be added to the roster: %v", ErrInvalidResolution, l.Row, err)
		}
	}

	imp := SeasonImport{
		ImportID: uuid.NewString(),
		TeamID:   teamID,
		Season:   preview.Season,
		Lines:    lines,
	}
	// Claim the preview so a concurrent commit of the same id stops here.
	if _, err := s.previews.Take(ctx, previewID); err != nil {
		return nil, err
	}

	createdPlayers, err := s.repo.SaveSeasonStats(ctx, imp)
	if err != nil {
		s.restorePreview(ctx, preview)
		return nil, fmt.Errorf("save season stats: %w", err)
	}

	result := &CommitResult{
		ImportID:       imp.ImportID,
		TeamID:         teamID,
		Season:         preview.Season,
		Imported:       len(lines),
		Created:        len(createdPlayers),
		Skipped:        skipped,
		CreatedPlayers: createdPlayers,
	}
	for _, l := range lines {
		if l.Stats.Pitching != nil {
			result.Pitchers++
		}
	}
	if result.CreatedPlayers == nil {
		result.CreatedPlayers = []gamechanger.RosterPlayer{}
	}

	ip, ua := ClientFromContext(ctx)
	rec := ImportRecord{
		ID:         imp.ImportID,
		TeamID:     teamID,
		Season:     preview.Season,
		FileName:   preview.FileName,
		PreviewID:  preview.ID,
		Imported:   result.Imported,
		Created:    result.Created,
		Skipped:    result.Skipped,
		Pitchers:   result.Pitchers,
		IPAddress:  ip,
		UserAgent:  ua,
		ImportedAt: s.now(),
	}
	// Stats are already committed; a missing history entry is not worth
	// failing the request over.
	if err := s.repo.RecordImport(ctx, rec); err != nil {
		log.Error("record import failed", "import_id", rec.ID, "error", err)
	}

	log.Info("import committed",
		"import_id", result.ImportID,
		"season", result.Season,
		"imported", result.Imported,
		"created", result.Created,
		"skipped", result.Skipped,
		"pitchers", result.Pitchers,
	)
	return result, nil
}

// restorePreview puts back a preview taken by a commit whose save failed, so
// the coach can retry until it expires.
func (s *Service) restorePreview(ctx context.Context, p *ImportPreview) {
	ttl := p.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.previews.Save(context.WithoutCancel(ctx), p, ttl); err != nil {
		logging.ForImport(ctx, p.TeamID, p.ID).Warn("restore preview failed", "error", err)
	}
}

// Roster returns the team's roster.
func (s *Service) Roster(ctx context.Context, teamID string) ([]gamechanger.RosterPlayer, error) {
	roster, err := s.repo.ListRoster(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return roster, nil
}

// AddPlayer adds a player to the team roster.
func (s *Service) AddPlayer(ctx context.Context, teamID string, p NewPlayer) (gamechanger.RosterPlayer, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := s.validate.StructCtx(ctx, p); err != nil {
		return gamechanger.RosterPlayer{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	rp, err := s.repo.CreatePlayer(ctx, teamID, p)
	if err != nil {
		return gamechanger.RosterPlayer{}, fmt.Errorf("create player: %w", err)
	}
	logging.WithFields(ctx, "team_id", teamID).Info("player added", "player_id", rp.ID)
	return rp, nil
}

// ImportHistory returns the team's most recent imports.
func (s *Service) ImportHistory(ctx context.Context, teamID string) ([]ImportRecord, error) {
	recs, err := s.repo.ListImports(ctx, teamID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return recs, nil
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// MaxFileSize is the largest export PreviewImport accepts.
func (s *Service) MaxFileSize() int64 {
	return s.cfg.MaxFileSize
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}
