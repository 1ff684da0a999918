// Package remote 是遠端帳務服務的 REST 客戶端
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// DefaultTransactionLimit GetAccountTransactions 未指定筆數時的預設值
const DefaultTransactionLimit = 10

// StatusError 遠端呼叫失敗 (連線錯誤時 StatusCode 為 0)
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap 一律可用 errors.Is(err, domain.ErrTransportFailure) 判斷
func (e *StatusError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrTransportFailure}
	}
	return []error{domain.ErrTransportFailure, e.Err}
}

// Client 呼叫遠端 /api 資源
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient 建立客戶端
//
// 參數:
//
//	baseURL: 例如 http://localhost:8080/api
//	timeout: 單次請求逾時
//	logger: 請求失敗時寫 log
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "remote_client").Logger(),
	}
}

// addTransactionBody POST /transactions 的 body
type addTransactionBody struct {
	AccountID         int64                  `json:"accountId"`
	Amount            decimal.Decimal        `json:"amount"`
	TransactionTypeID domain.TransactionType `json:"transactionTypeId"`
	TransactionDate   time.Time              `json:"transactionDate"`
}

func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCustomer 404 時回傳 domain.ErrCustomerNotFound
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	var out domain.Customer
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", customerID), nil, &out)
	if isStatus(err, http.StatusNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCustomerAccounts 取回全部帳戶後只留下該客戶的
func (c *Client) GetCustomerAccounts(ctx context.Context, customerID int64) ([]domain.AccountView, error) {
	var all []domain.AccountView
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, &all); err != nil {
		return nil, err
	}
	out := make([]domain.AccountView, 0)
	for _, acc := range all {
		if acc.CustomerID == customerID {
			out = append(out, acc)
		}
	}
	return out, nil
}

// GetAccountTransactions 取回全部交易後過濾帳戶、新到舊排序並取前 limit 筆
// limit <= 0 時使用 DefaultTransactionLimit
func (c *Client) GetAccountTransactions(ctx context.Context, accountID int64, limit int) ([]domain.TransactionView, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	var all []domain.TransactionView
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &all); err != nil {
		return nil, err
	}
	out := make([]domain.TransactionView, 0)
	for _, t := range all {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AddTransaction 送出一筆交易，回傳遠端實際寫入的紀錄
func (c *Client) AddTransaction(ctx context.Context, tran domain.Transaction) (*domain.TransactionView, error) {
	body := addTransactionBody{
		AccountID:         tran.AccountID,
		Amount:            tran.Amount,
		TransactionTypeID: tran.Type,
		TransactionDate:   tran.Date,
	}
	var out domain.TransactionView
	if err := c.do(ctx, http.MethodPost, "/transactions", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBankName 404 或空 body 時回傳 domain.UnknownBankName
func (c *Client) GetBankName(ctx context.Context, bankID int64) (string, error) {
	var bank *domain.Bank
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/banks/%d", bankID), nil, &bank)
	if isStatus(err, http.StatusNotFound) {
		return domain.UnknownBankName, nil
	}
	if err != nil {
		return "", err
	}
	if bank == nil || bank.Name == "" {
		return domain.UnknownBankName, nil
	}
	return bank.Name, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &StatusError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("remote call failed")
		return &StatusError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &errBody)
		if resp.StatusCode != http.StatusNotFound {
			c.logger.Warn().
				Str("method", method).
				Str("path", path).
				Int("status", resp.StatusCode).
				Str("error", errBody.Error).
				Msg("remote call rejected")
		}
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

func isStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
