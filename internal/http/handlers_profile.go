package http

import (
	"log/slog"
	"net/http"

	"github.com/dominh-hy/TaxViet/internal/core"
)

type preferenceResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type preferenceRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identifier, ok := s.assistant.CurrentIdentifier()
	if !ok {
		writeError(w, core.ErrNoSession)
		return
	}

	if profile, found := s.profileCache.Get(identifier); found {
		slog.DebugContext(r.Context(), "Profile cache hit", "identifier", identifier)
		writeJSON(w, http.StatusOK, profile)
		return
	}

	profile, err := s.assistant.Profile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	s.profileCache.Set(identifier, profile)
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile core.Profile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.assistant.UpdateProfile(r.Context(), profile)
	if err != nil {
		writeError(w, err)
		return
	}

	if identifier, ok := s.assistant.CurrentIdentifier(); ok {
		s.profileCache.Delete(identifier)
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	value, err := s.assistant.Preference(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preferenceResponse{Name: name, Value: value})
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req preferenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.assistant.SetPreference(r.Context(), name, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preferenceResponse{Name: name, Value: req.Value})
}
