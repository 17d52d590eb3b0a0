package http

import (
	"net/http"
	"time"

	"daftar/internal/core"
	"daftar/internal/hijri"
	"daftar/internal/log"
)

type categoryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"created_at"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Currency:  c.Currency,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

type accountResponse struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		CategoryID:  a.CategoryID,
		Name:        a.Name,
		PhoneNumber: a.PhoneNumber,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

type transactionResponse struct {
	ID               int64          `json:"id"`
	AccountID        int64          `json:"account_id"`
	Seq              int64          `json:"seq"`
	Amount           int64          `json:"amount"`
	AmountFormatted  string         `json:"amount_formatted"`
	Type             core.TxType    `json:"type"`
	Description      string         `json:"description"`
	Details          string         `json:"details,omitempty"`
	Currency         string         `json:"currency"`
	Date             string         `json:"date"`
	DateBox          *hijri.DateBox `json:"date_box,omitempty"`
	Balance          int64          `json:"balance"`
	BalanceFormatted string         `json:"balance_formatted"`
	CreatedAt        string         `json:"created_at"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:               t.ID,
		AccountID:        t.AccountID,
		Seq:              t.Seq,
		Amount:           t.Amount.Cents,
		AmountFormatted:  core.FormatCents(t.Amount.Cents),
		Type:             t.Type,
		Description:      t.Description,
		Details:          t.Details,
		Currency:         t.Currency,
		Date:             t.Date.String(),
		Balance:          t.Balance.Cents,
		BalanceFormatted: core.FormatCents(t.Balance.Cents),
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
	}
	if box, err := hijri.FormatDateBox(t.Date.Time); err == nil {
		resp.DateBox = &box
	}
	return resp
}

type createCategoryRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.ledger.CreateCategory(r.Context(), req.Name, req.Currency)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.ledger.Categories(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.ledger.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createAccountRequest struct {
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Notes       string `json:"notes"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := s.ledger.CreateAccount(r.Context(), core.Account{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(created))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	account, err := s.ledger.Account(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	balance, err := s.ledger.AccountBalance(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"account":           toAccountResponse(account),
		"balance":           balance.Cents,
		"balance_formatted": core.FormatCents(balance.Cents),
	})
}

type accountWithBalanceResponse struct {
	accountResponse
	Balance          int64  `json:"balance"`
	BalanceFormatted string `json:"balance_formatted"`
}

// handleListAccounts returns a category's accounts with their current
// balances, the way the category index screen renders them.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	accounts, err := s.ledger.AccountsByCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	out := make([]accountWithBalanceResponse, 0, len(accounts))
	for _, a := range accounts {
		balance, err := s.ledger.AccountBalance(r.Context(), a.ID)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		out = append(out, accountWithBalanceResponse{
			accountResponse:  toAccountResponse(a),
			Balance:          balance.Cents,
			BalanceFormatted: core.FormatCents(balance.Cents),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.ledger.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createTransactionRequest struct {
	AccountID   int64  `json:"account_id"`
	Amount      string `json:"amount"` // decimal, e.g. "1500.50"
	Type        string `json:"type"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Currency    string `json:"currency"`
	Date        string `json:"date"` // YYYY-MM-DD
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), core.Transaction{
		AccountID:   req.AccountID,
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(req.Type),
		Description: req.Description,
		Details:     req.Details,
		Currency:    req.Currency,
		Date:        date,
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	log.FromContext(r.Context()).Info("Transaction created",
		log.FieldTxID, created.ID, log.FieldSeq, created.Seq,
		log.FieldAccountID, created.AccountID, log.FieldAmount, created.Amount.Cents)
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	t, err := s.ledger.Transaction(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	log.FromContext(r.Context()).Info("Transaction deleted", log.FieldTxID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAccountTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	chain, err := s.ledger.TransactionsByAccount(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	out := make([]transactionResponse, 0, len(chain))
	for _, t := range chain {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}
