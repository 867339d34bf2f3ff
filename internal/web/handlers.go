package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/martyvasquez/lineupai-sub000/internal/core"
	"github.com/martyvasquez/lineupai-sub000/internal/web/templates"
)

const (
	// defaultUploadLimit applies when no import size limit is configured.
	defaultUploadLimit = 32 << 20
	// multipartOverhead covers form fields and boundaries around the file.
	multipartOverhead = 64 << 10
	// maxJSONBody caps commit and roster request bodies.
	maxJSONBody = 1 << 20
)

const healthTimeout = 2 * time.Second

type healthResponse struct {
	Status  string                   `json:"status"`
	Checks  map[string]string        `json:"checks"`
	Imports core.ImportLimiterStatus `json:"imports"`
}

// handleHealth reports liveness plus the state of every registered
// dependency check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{}, Imports: s.service.LimiterStatus()}
	status := http.StatusOK
	for _, c := range s.checks {
		if err := c.check(ctx); err != nil {
			resp.Checks[c.name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.name] = "ok"
	}
	writeJSON(w, r, status, resp)
}

// handleImportPage renders the import page for a team.
func (s *Server) handleImportPage(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	roster, err := s.service.Roster(r.Context(), teamID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	history, err := s.service.ImportHistory(r.Context(), teamID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.ImportPage(templates.ImportPageParams{
		TeamID:      teamID,
		Roster:      roster,
		History:     history,
		MaxFileSize: s.service.MaxFileSize(),
	}).Render(r.Context(), w)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.service.Roster(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, roster)
}

// handleAddPlayer creates a roster player from a JSON core.NewPlayer.
func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var p core.NewPlayer
	if err := decodeJSON(w, r, &p); err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("%w: empty body", core.ErrInvalidRequest)
		}
		respondError(w, r, err)
		return
	}

	rp, err := s.service.AddPlayer(r.Context(), chi.URLParam(r, "teamID"), p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rp)
}

func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.service.ImportHistory(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, history)
}

func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	p, err := s.service.GetPreview(r.Context(), chi.URLParam(r, "teamID"), chi.URLParam(r, "previewID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

// handleImportQueueStatus returns the current state of the import limiter.
func (s *Server) handleImportQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.LimiterStatus())
}

// handlePreview parses an uploaded export (multipart "file" and "season")
// and returns the preview as JSON, or as the preview form for HTMX.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")

	maxSize := s.service.MaxFileSize()
	if maxSize <= 0 {
		maxSize = defaultUploadLimit
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			respondError(w, r, fmt.Errorf("%w: upload exceeds %d bytes", core.ErrFileTooLarge, maxSize))
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	ctx := withClient(r)
	preview, err := s.service.PreviewImport(ctx, teamID, r.FormValue("season"), filepath.Base(header.Filename), data)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if !isHTMX(r) {
		writeJSON(w, r, http.StatusOK, preview)
		return
	}

	roster, err := s.service.Roster(ctx, teamID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.PreviewTable(preview, roster).Render(ctx, w)
}

// handleCommit applies a commit request to a stored preview. JSON bodies
// carry a core.CommitRequest; form bodies come from the preview table.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCommitRequest(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx := withClient(r)
	res, err := s.service.CommitImport(ctx, chi.URLParam(r, "teamID"), chi.URLParam(r, "previewID"), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.CommitSummary(res).Render(ctx, w)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func decodeCommitRequest(w http.ResponseWriter, r *http.Request) (core.CommitRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var form url.Values
	switch mediaType {
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			return core.CommitRequest{}, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
		}
		form = r.PostForm
	case "multipart/form-data":
		// ParseForm leaves PostForm empty for multipart bodies.
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseMultipartForm(maxJSONBody); err != nil {
			return core.CommitRequest{}, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
		}
		form = url.Values(r.MultipartForm.Value)
	}
	if form != nil {
		resolutions, err := resolutionsFromForm(form)
		if err != nil {
			return core.CommitRequest{}, err
		}
		return core.CommitRequest{Resolutions: resolutions}, nil
	}

	var req core.CommitRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		return core.CommitRequest{}, err
	}
	return req, nil
}

// resolutionsFromForm reads action_<row> and player_<row> fields, ordered by
// row.
func resolutionsFromForm(form url.Values) ([]core.Resolution, error) {
	var out []core.Resolution
	for key, values := range form {
		suffix, ok := strings.CutPrefix(key, "action_")
		if !ok || len(values) == 0 {
			continue
		}
		row, err := strconv.Atoi(suffix)
		if err != nil {
			return nil, fmt.Errorf("%w: bad field %q", core.ErrInvalidRequest, key)
		}
		res := core.Resolution{Row: row, Action: core.ResolutionAction(values[0])}
		if res.Action == core.ActionAssign {
			res.PlayerID = form.Get("player_" + suffix)
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out, nil
}

// decodeJSON decodes one JSON value from a size-limited body. An empty body
// returns io.EOF unwrapped.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}
	return nil
}
