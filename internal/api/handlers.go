package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/openredline/redline/core/doc"
	"github.com/openredline/redline/core/errors"
	"github.com/openredline/redline/core/revision"
	"github.com/openredline/redline/internal/logging"
	"github.com/openredline/redline/internal/query"
	"github.com/openredline/redline/internal/report"
)

// DiffRequest is the /diff request body. Options may be omitted.
type DiffRequest struct {
	Previous *doc.Document     `json:"previous"`
	Current  *doc.Document     `json:"current"`
	Options  *revision.Options `json:"options,omitempty"`
	StartID  int               `json:"start_id,omitempty"`
}

// DiffResponse is the /diff response body.
type DiffResponse struct {
	Document *doc.Document   `json:"document"`
	Records  []report.Record `json:"records"`
	Summary  report.Summary  `json:"summary"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "openredline",
		"health":  "/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req DiffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Previous == nil || req.Current == nil {
		writeError(w, http.StatusBadRequest, "previous and current documents required")
		return
	}

	opts := req.Options
	if req.StartID > 0 {
		if opts == nil {
			opts = &revision.Options{}
		}
		opts.Allocator = revision.NewAllocator(req.StartID)
	}

	start := time.Now()
	annotated := revision.Revisionize(req.Previous, req.Current, opts)
	records := report.Extract(annotated)
	logging.DiffComputed(len(annotated.Blocks), len(records), time.Since(start))
	s.hub.BroadcastComplete("diff", "diff computed", map[string]interface{}{
		"blocks":    len(annotated.Blocks),
		"revisions": len(records),
	})

	filter, err := query.Parse(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records = filter.Apply(records)

	writeJSON(w, http.StatusOK, DiffResponse{
		Document: annotated,
		Records:  records,
		Summary:  report.Summarize(records),
	})
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		infos, err := s.store.ListSnapshots(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, infos)
	default:
		writeError(w, http.StatusMethodNotAllowed, "GET required")
	}
}

func (s *Server) handleSnapshotByLabel(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimPrefix(r.URL.Path, "/snapshots/")
	if label == "" {
		writeError(w, http.StatusBadRequest, "snapshot label required")
		return
	}
	switch r.Method {
	case http.MethodGet:
		d, err := s.store.LoadSnapshot(r.Context(), label)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	case http.MethodPut, http.MethodPost:
		var d doc.Document
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		hash, err := s.store.SaveSnapshot(r.Context(), label, &d)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"label": label, "hash": hash})
	case http.MethodDelete:
		if err := s.store.DeleteSnapshot(r.Context(), label); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "GET, PUT or DELETE required")
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	infos, err := s.store.ListRuns(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/runs/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run ID")
		return
	}
	annotated, info, err := s.store.LoadRun(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	filter, err := query.Parse(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records := filter.Apply(report.Extract(annotated))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run":      info,
		"document": annotated,
		"records":  records,
		"summary":  report.Summarize(records),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
