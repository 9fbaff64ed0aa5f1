package http

import (
	"net/http"
)

type registerRequest struct {
	Identifier string `json:"identifier"`
	FullName   string `json:"full_name"`
	Secret     string `json:"secret"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type accountResponse struct {
	Identifier string `json:"identifier"`
	FullName   string `json:"full_name"`
}

type sessionResponse struct {
	Active     bool   `json:"active"`
	Identifier string `json:"identifier,omitempty"`
}

// handleRegister creates an account and activates its session.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.assistant.Register(r.Context(), req.Identifier, req.FullName, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse{
		Identifier: account.Identifier,
		FullName:   account.FullName,
	})
}

// handleLogin validates credentials and switches the active session.
// Previously cached reads for other accounts stay cached; scoping is by
// identifier, so a switch cannot leak data across accounts.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.assistant.Login(r.Context(), req.Identifier, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		Identifier: account.Identifier,
		FullName:   account.FullName,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.assistant.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	identifier, ok := s.assistant.CurrentIdentifier()
	writeJSON(w, http.StatusOK, sessionResponse{Active: ok, Identifier: identifier})
}
