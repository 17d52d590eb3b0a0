package http

import (
	"net/http"
	"strconv"
	"strings"

	"daftar/internal/core"
	"daftar/internal/services"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleCategoryStats serves just the per-category slice of the dashboard
// snapshot, for screens that don't need the rest.
func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	categories := stats.Categories
	if categories == nil {
		categories = []services.CategoryStat{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleTopAccounts(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "n", 5)
	top, err := s.stats.TopAccounts(r.Context(), n)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if top == nil {
		top = []services.AccountAmount{}
	}
	writeJSON(w, http.StatusOK, top)
}

type searchRowResponse struct {
	Transaction transactionResponse `json:"transaction"`
	AccountName string              `json:"account_name"`
}

// handleSearch runs the text query in "q" through the filter parameters:
// type, from, to, min, max (decimal amounts), account.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter services.Filter
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		txType := core.TxType(v)
		if !txType.Valid() {
			writeError(w, r, http.StatusBadRequest, core.ErrInvalidType)
			return
		}
		filter.Type = &txType
	}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		filter.DateFrom = &d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		filter.DateTo = &d
	}
	if v := strings.TrimSpace(q.Get("min")); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		filter.MinAmount = &core.Money{Cents: cents}
	}
	if v := strings.TrimSpace(q.Get("max")); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		filter.MaxAmount = &core.Money{Cents: cents}
	}
	if v := strings.TrimSpace(q.Get("account")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		filter.AccountID = &id
	}

	rows, err := s.search.Search(r.Context(), q.Get("q"), filter)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	out := make([]searchRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, searchRowResponse{
			Transaction: toTransactionResponse(row.Transaction),
			AccountName: row.AccountName,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
