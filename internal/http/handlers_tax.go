package http

import (
	"net/http"

	"github.com/dominh-hy/TaxViet/internal/categories"
	"github.com/dominh-hy/TaxViet/internal/tax"
)

// handleCategories lists the presumptive-tax business categories with
// their statutory VAT and PIT rates.
func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categories.All())
}

// handleCompute runs the estimator. No session is required; the
// calculator works before anything is saved.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var input tax.Input
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.assistant.ComputeTax(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
