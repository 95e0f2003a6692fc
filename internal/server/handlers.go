package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/panetree/pkg/buildinfo"
	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/geom"
	"github.com/matzehuels/panetree/pkg/panels"
	"github.com/matzehuels/panetree/pkg/partition"
	"github.com/matzehuels/panetree/pkg/pipeline"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

// changeResponse summarizes a mutation.
type changeResponse struct {
	Removed  int    `json:"removed"`
	Promoted bool   `json:"promoted"`
	Relayout bool   `json:"relayout"`
	Inserted string `json:"inserted,omitempty"`
	Leaves   int    `json:"leaves"`
}

// insertRequest is the body of POST /leaves.
type insertRequest struct {
	Target string `json:"target"`
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Axis   string `json:"axis"`
	Before bool   `json:"before,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := snapshot.Write(w, s.Snapshot()); err != nil {
		s.logger.Error("write snapshot", "error", err)
	}
}

func (s *Server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := s.opts
		opts.Formats = []string{format}
		if b, err := strconv.ParseBool(r.URL.Query().Get("branches")); err == nil {
			opts.Branches = b
		}
		artifacts, err := s.runner.RenderSnapshot(r.Context(), s.Snapshot(), opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(artifacts[format])
	}
}

func (s *Server) handleLeaves(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	out := make([]panels.Panel, 0, snap.ElementCount)
	for _, e := range snap.Elements() {
		out = append(out, panels.FromElement(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	ch := pipeline.RemoveLeaf(r.Context(), s.tree, id)
	resp := summarize(s.tree, ch)
	s.mu.Unlock()

	if ch.Empty() {
		s.logger.Debug("no leaf to remove", "id", id)
	} else {
		s.logger.Info("removed leaf", "id", id, "detached", resp.Removed, "promoted", resp.Promoted)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode insert request"))
		return
	}
	axis, err := geom.ParseAxis(req.Axis)
	if err != nil {
		s.writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "axis"))
		return
	}
	if req.ID == "" {
		req.ID = panels.NewID()
	}
	e := partition.Element{ID: req.ID, Label: req.Label}

	s.mu.Lock()
	ch, err := pipeline.InsertLeaf(r.Context(), s.tree, req.Target, e, axis, !req.Before)
	resp := summarize(s.tree, ch)
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, err)
		return
	}
	resp.Inserted = req.ID
	s.logger.Info("inserted leaf", "id", req.ID, "target", req.Target, "axis", axis)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("reset layout", "leaves", len(s.elements))
	w.WriteHeader(http.StatusNoContent)
}

// summarize must be called with s.mu held.
func summarize(t *partition.Tree, ch partition.Change) changeResponse {
	return changeResponse{
		Removed:  len(ch.Removed),
		Promoted: ch.Promoted != partition.NoNode,
		Relayout: ch.Relayout != partition.NoNode,
		Leaves:   len(t.Leaves()),
	}
}

type errorResponse struct {
	Code    perrors.Code `json:"code,omitempty"`
	Message string       `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(perrors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: perrors.GetCode(err), Message: perrors.UserMessage(err)})
}

func statusFor(code perrors.Code) int {
	switch code {
	case perrors.ErrCodeNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeDuplicateID:
		return http.StatusConflict
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidFormat, perrors.ErrCodeInvalidRect:
		return http.StatusBadRequest
	case perrors.ErrCodeUnpartitionable:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
