package http

import (
	"net/http"
	"strings"

	"daftar/internal/core"
	"daftar/internal/hijri"
	"daftar/internal/services"
)

type statementLineResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Date        hijri.DateBox       `json:"date"`
}

type statementResponse struct {
	Account        accountResponse         `json:"account"`
	From           string                  `json:"from"`
	To             string                  `json:"to"`
	Opening        int64                   `json:"opening"`
	Lines          []statementLineResponse `json:"lines"`
	Closing        int64                   `json:"closing"`
	TotalCredit    int64                   `json:"total_credit"`
	TotalDebit     int64                   `json:"total_debit"`
	ClosingInWords string                  `json:"closing_in_words"`
}

// handleStatement renders the account statement between "from" and "to"
// (inclusive, YYYY-MM-DD).
func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	from, err := core.ParseDate(strings.TrimSpace(q.Get("from")))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	to, err := core.ParseDate(strings.TrimSpace(q.Get("to")))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	statement, err := s.statements.Statement(r.Context(), id, from, to)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatementResponse(statement))
}

func toStatementResponse(st services.Statement) statementResponse {
	resp := statementResponse{
		Account:        toAccountResponse(st.Account),
		From:           st.From.String(),
		To:             st.To.String(),
		Opening:        st.Opening.Cents,
		Lines:          make([]statementLineResponse, 0, len(st.Lines)),
		Closing:        st.Closing.Cents,
		TotalCredit:    st.TotalCredit.Cents,
		TotalDebit:     st.TotalDebit.Cents,
		ClosingInWords: st.ClosingInWords,
	}
	for _, line := range st.Lines {
		resp.Lines = append(resp.Lines, statementLineResponse{
			Transaction: toTransactionResponse(line.Transaction),
			Date:        line.Date,
		})
	}
	return resp
}
