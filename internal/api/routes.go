package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clipforge/clipforge/internal/domain/suggest"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/session"
	"github.com/clipforge/clipforge/internal/types"
	"github.com/clipforge/clipforge/internal/usecase"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", createSessionHandler(cfg))
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", getSessionHandler(cfg))
			r.Delete("/", deleteSessionHandler(cfg))
			r.Post("/search", searchHandler(cfg))
			r.Post("/select", selectHandler(cfg))
			r.Post("/analyze", analyzeHandler(cfg))
			r.Get("/suggestions", suggestionsHandler(cfg))
			r.Post("/suggestions", addSuggestionHandler(cfg))
			r.Put("/suggestions/{idx}", editSuggestionHandler(cfg))
			r.Post("/download", downloadHandler(cfg))
		})
		r.Get("/clips", listClipsHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: "0.1.0",
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func createSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := cfg.Sessions.Create()
		WriteJSON(w, http.StatusCreated, SessionResponse{
			SessionID: sess.ID,
			CreatedAt: sess.CreatedAt.Format(time.RFC3339),
		})
	}
}

func deleteSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Sessions.Delete(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func searchHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(cfg, w, r)
		if !ok {
			return
		}

		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			WriteError(w, http.StatusBadRequest, "query is required", "BAD_REQUEST")
			return
		}
		filter, err := parseDurationFilter(req.DurationFilter)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		videos, err := cfg.Pipeline.Search(r.Context(), req.Query, ports.SearchOptions{
			MaxResults:     req.MaxResults,
			DurationFilter: filter,
		})
		if err != nil {
			WritePipelineError(w, err)
			return
		}

		_ = cfg.Sessions.Update(sess.ID, func(s *session.Session) {
			s.Query = req.Query
			s.Results = videos
			s.Selected = nil
			s.Suggestions = nil
		})

		resp := SearchResponse{Videos: make([]VideoResponse, 0, len(videos))}
		for _, v := range videos {
			resp.Videos = append(resp.Videos, VideoToResponse(v))
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func selectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(cfg, w, r)
		if !ok {
			return
		}

		var req SelectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.VideoID == "" {
			WriteError(w, http.StatusBadRequest, "video_id is required", "BAD_REQUEST")
			return
		}

		// Prefer the search result already in the session; fall back to a
		// metadata probe so a pasted video id works without a search step.
		var selected *types.VideoSummary
		for i := range sess.Results {
			if sess.Results[i].ID == req.VideoID {
				selected = &sess.Results[i]
				break
			}
		}
		if selected == nil {
			v, err := cfg.Pipeline.Lookup(r.Context(), req.VideoID)
			if err != nil {
				WritePipelineError(w, err)
				return
			}
			selected = &v
		}

		_ = cfg.Sessions.Update(sess.ID, func(s *session.Session) {
			s.Selected = selected
			s.Suggestions = nil
		})
		WriteJSON(w, http.StatusOK, VideoToResponse(*selected))
	}
}

func analyzeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(cfg, w, r)
		if !ok {
			return
		}
		if sess.Selected == nil {
			WriteError(w, http.StatusConflict, "no video selected", "NO_SELECTION")
			return
		}

		suggestions, err := cfg.Pipeline.Analyze(r.Context(), usecase.AnalyzeInput{
			Video:          *sess.Selected,
			MinClipSec:     cfg.MinClipSec,
			MaxClipSec:     cfg.MaxClipSec,
			MaxSuggestions: cfg.MaxSuggestions,
			WorkDir:        cfg.CacheDir,
		})
		if err != nil {
			WritePipelineError(w, err)
			return
		}

		_ = cfg.Sessions.Update(sess.ID, func(s *session.Session) {
			s.Suggestions = suggestions
		})
		WriteJSON(w, http.StatusOK, toSuggestionsResponse(suggestions))
	}
}

func getSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(cfg, w, r)
		if !ok {
			return
		}
		resp := SessionStateResponse{
			SessionID: sess.ID,
			CreatedAt: sess.CreatedAt.Format(time.RFC3339),
			Query:     sess.Query,
		}
		for _, v := range sess.Results {
			resp.Videos = append(resp.Videos, VideoToResponse(v))
		}
		if sess.Selected != nil {
			v := VideoToResponse(*sess.Selected)
			resp.Selected = &v
		}
		for _, s := range sess.Suggestions {
			resp.Suggestions = append(resp.Suggestions, SuggestionToResponse(s))
		}
		for _, c := range sess.Downloaded {
			resp.Clips = append(resp.Clips, ClipToResponse(c))
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func addSuggestionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(cfg, w, r)
		if !ok {
			return
		}
		if sess.Selected == nil {
			WriteError(w, http.StatusConflict, "no video selected", "NO_SELECTION")
			return
		}

		var req RangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		s, err := suggest.Manual(*sess.Selected, req.Start, req.End)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_RANGE")
			return
		}

		_ = cfg.Sessions.Update(sess.ID, func(st *session.Session) {
			st.Suggestions = append(st.Suggestions, s)
		})
		WriteJSON(w, http.StatusCreated, SuggestionToResponse(s))
	}
}

func editSuggestionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(cfg, w, r)
		if !ok {
			return
		}
		if sess.Selected == nil {
			WriteError(w, http.StatusConflict, "no video selected", "NO_SELECTION")
			return
		}
		idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
		if err != nil || idx < 0 || idx >= len(sess.Suggestions) {
			WriteError(w, http.StatusNotFound, "no such suggestion", "SUGGESTION_NOT_FOUND")
			return
		}

		var req RangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := suggest.ValidateRange(types.ClipRange{Start: req.Start, End: req.End}, sess.Selected.Duration); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_RANGE")
			return
		}

		var updated types.ClipSuggestion
		_ = cfg.Sessions.Update(sess.ID, func(st *session.Session) {
			st.Suggestions[idx].Start = req.Start
			st.Suggestions[idx].End = req.End
			updated = st.Suggestions[idx]
		})
		WriteJSON(w, http.StatusOK, SuggestionToResponse(updated))
	}
}

func suggestionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(cfg, w, r)
		if !ok {
			return
		}
		WriteJSON(w, http.StatusOK, toSuggestionsResponse(sess.Suggestions))
	}
}

func downloadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(cfg, w, r)
		if !ok {
			return
		}
		if sess.Selected == nil {
			WriteError(w, http.StatusConflict, "no video selected", "NO_SELECTION")
			return
		}

		var req DownloadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if len(req.Ranges) == 0 {
			WriteError(w, http.StatusBadRequest, "at least one range is required", "BAD_REQUEST")
			return
		}
		ranges := make([]types.ClipRange, 0, len(req.Ranges))
		for _, rr := range req.Ranges {
			cr := types.ClipRange{Start: rr.Start, End: rr.End}
			if err := suggest.ValidateRange(cr, sess.Selected.Duration); err != nil {
				WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_RANGE")
				return
			}
			ranges = append(ranges, cr)
		}

		clips, err := cfg.Pipeline.Download(r.Context(), usecase.DownloadInput{
			Video:    *sess.Selected,
			Ranges:   ranges,
			OutDir:   cfg.OutDir,
			CacheDir: cfg.CacheDir,
			TikTok:   req.TikTok,
		})
		if err != nil {
			WritePipelineError(w, err)
			return
		}

		_ = cfg.Sessions.Update(sess.ID, func(s *session.Session) {
			s.Downloaded = append(s.Downloaded, clips...)
		})
		WriteJSON(w, http.StatusOK, toClipsResponse(clips))
	}
}

func listClipsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Clips == nil {
			WriteJSON(w, http.StatusOK, ClipsResponse{Clips: []ClipResponse{}})
			return
		}
		var (
			clips []types.DownloadedClip
			err   error
		)
		if source := r.URL.Query().Get("source"); source != "" {
			clips, err = cfg.Clips.ListBySource(r.Context(), source)
		} else {
			clips, err = cfg.Clips.List(r.Context())
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, toClipsResponse(clips))
	}
}

func getSession(cfg ServerConfig, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := cfg.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "session not found", "SESSION_NOT_FOUND")
		} else {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
		}
		return nil, false
	}
	return sess, true
}

func parseDurationFilter(s string) (ports.DurationFilter, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return ports.DurationAny, nil
	case "short":
		return ports.DurationShort, nil
	case "medium":
		return ports.DurationMedium, nil
	case "long":
		return ports.DurationLong, nil
	default:
		return ports.DurationAny, errors.New("duration_filter must be one of any, short, medium, long")
	}
}

func toSuggestionsResponse(in []types.ClipSuggestion) SuggestionsResponse {
	resp := SuggestionsResponse{Suggestions: make([]SuggestionResponse, 0, len(in))}
	for _, s := range in {
		resp.Suggestions = append(resp.Suggestions, SuggestionToResponse(s))
	}
	return resp
}

func toClipsResponse(in []types.DownloadedClip) ClipsResponse {
	resp := ClipsResponse{Clips: make([]ClipResponse, 0, len(in))}
	for _, c := range in {
		resp.Clips = append(resp.Clips, ClipToResponse(c))
	}
	return resp
}
