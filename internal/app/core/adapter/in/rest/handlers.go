package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

var errInvalidID = errors.New("invalid id")

// CreateTransactionRequest POST /api/transactions 的 body
type CreateTransactionRequest struct {
	AccountID         int64           `json:"accountId" validate:"required,gt=0"`
	Amount            decimal.Decimal `json:"amount"`
	TransactionTypeID int64           `json:"transactionTypeId" validate:"required"`
	ReferenceID       string          `json:"referenceId,omitempty" validate:"omitempty,uuid"`
	// TransactionDate 只為相容舊客戶端而接受，入帳時間一律由服務端時鐘決定
	TransactionDate *time.Time `json:"transactionDate,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.query.ListCustomers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	customer, err := s.ledger.GetCustomer(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) getCustomerAccounts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	accounts, err := s.ledger.GetCustomerAccounts(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.query.ListAccounts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// getAccountTransactions ?limit=N，未帶或 <= 0 表示全部
func (s *Server) getAccountTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, &badRequestError{msg: "invalid limit"})
			return
		}
	}
	trans, err := s.ledger.GetAccountTransactions(r.Context(), id, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trans)
}

func (s *Server) getAccountStatement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	statement, err := s.query.AccountStatement(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(statement))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	trans, err := s.query.ListTransactions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trans)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var body CreateTransactionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, r, &badRequestError{msg: "invalid request body: " + err.Error()})
		return
	}
	if err := s.validate.Struct(&body); err != nil {
		s.writeError(w, r, &badRequestError{msg: err.Error()})
		return
	}

	req := domain.TransactionRequest{
		AccountID: body.AccountID,
		Amount:    body.Amount,
		Type:      domain.TransactionType(body.TransactionTypeID),
	}
	if body.ReferenceID != "" {
		// validator 已確認格式
		req.RefID = uuid.MustParse(body.ReferenceID)
	}

	view, err := s.ledger.ApplyTransaction(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) getBank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	bank, err := s.query.GetBank(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bank)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}
