package http

import (
	"log/slog"
	"net/http"

	"github.com/dominh-hy/TaxViet/internal/core"
	"github.com/dominh-hy/TaxViet/internal/tax"
)

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	identifier, ok := s.assistant.CurrentIdentifier()
	if !ok {
		writeError(w, core.ErrNoSession)
		return
	}

	if records, found := s.recordsCache.Get(identifier); found {
		slog.DebugContext(r.Context(), "Records cache hit",
			"identifier", identifier, "count", len(records))
		writeJSON(w, http.StatusOK, records)
		return
	}

	records, err := s.assistant.Records(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	s.recordsCache.Set(identifier, records)
	writeJSON(w, http.StatusOK, records)
}

// handleSaveRecord appends a computed result to the active account's
// history. The body is the result exactly as returned by the compute
// endpoint.
func (s *Server) handleSaveRecord(w http.ResponseWriter, r *http.Request) {
	var result tax.Result
	if err := decodeJSON(w, r, &result); err != nil {
		writeError(w, err)
		return
	}

	record, err := s.assistant.SaveResult(r.Context(), result)
	if err != nil {
		writeError(w, err)
		return
	}

	identifier, _ := s.assistant.CurrentIdentifier()
	s.recordsCache.Delete(identifier)
	s.logger.LogRecordSaved(r.Context(), identifier, record.ID, record.Label, record.TaxAmount.String())

	writeJSON(w, http.StatusCreated, record)
}

// handleDeleteRecord removes a record. Unknown ids are a no-op, so the
// response is 204 either way.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.assistant.DeleteRecord(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	if identifier, ok := s.assistant.CurrentIdentifier(); ok {
		s.recordsCache.Delete(identifier)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleRecord flips a record between paid and pending.
func (s *Server) handleToggleRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.assistant.ToggleRecordStatus(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	if identifier, ok := s.assistant.CurrentIdentifier(); ok {
		s.recordsCache.Delete(identifier)
	}
	w.WriteHeader(http.StatusNoContent)
}
