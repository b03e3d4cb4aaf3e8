package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/layout"
	"github.com/matzehuels/jiapu/pkg/render"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// postLayout handles POST /layout.
func (s *Server) postLayout(w http.ResponseWriter, r *http.Request) {
	f, err := formatParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	d, err := family.Read(http.MaxBytesReader(w, r.Body, MaxBodySize))
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		s.respondError(w, r, errors.Wrap(errors.ErrCodeTooLarge, err, "family document exceeds %d bytes", tooLarge.Limit))
		return
	case err != nil:
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid family document"))
		return
	}
	l, err := s.Runner.Layout(r.Context(), d)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondLayout(w, r, l, f)
}

// familyLayout handles GET /families/{id}/layout. ?refresh=true bypasses
// the cached document.
func (s *Server) familyLayout(w http.ResponseWriter, r *http.Request) {
	f, err := formatParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	d, err := s.Runner.Fetch(r.Context(), chi.URLParam(r, "id"), refresh)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := s.Runner.Layout(r.Context(), d)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondLayout(w, r, l, f)
}

// listSnapshots handles GET /snapshots/{familyID}.
func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.respondError(w, r, errors.New(errors.ErrCodeUnsupported, "snapshot storage is not configured"))
		return
	}
	id := chi.URLParam(r, "familyID")
	if err := errors.ValidateID("family", id); err != nil {
		s.respondError(w, r, err)
		return
	}
	snaps, err := s.Store.List(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, snaps)
}

// snapshotLayout handles GET /snapshots/{familyID}/latest/layout.
func (s *Server) snapshotLayout(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.respondError(w, r, errors.New(errors.ErrCodeUnsupported, "snapshot storage is not configured"))
		return
	}
	f, err := formatParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	id := chi.URLParam(r, "familyID")
	if err := errors.ValidateID("family", id); err != nil {
		s.respondError(w, r, err)
		return
	}
	snap, err := s.Store.Latest(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := s.Runner.Layout(r.Context(), snap.Data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("X-Snapshot-ID", snap.ID)
	s.respondLayout(w, r, l, f)
}

// formatParam reads ?format=, defaulting to json.
func formatParam(r *http.Request) (render.Format, error) {
	q := r.URL.Query().Get("format")
	if q == "" {
		return render.FormatJSON, nil
	}
	return render.ParseFormat(q)
}

func (s *Server) respondLayout(w http.ResponseWriter, r *http.Request, l layout.Layout, f render.Format) {
	out, err := s.Runner.Render(r.Context(), l, f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Message string      `json:"message"`
	Code    errors.Code `json:"code,omitempty"`
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	s.respondJSON(w, status, errorBody{
		Message: errors.UserMessage(err),
		Code:    errors.GetCode(err),
	})
}
