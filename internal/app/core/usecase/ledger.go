package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// LedgerService 是核心業務邏輯層，本身不保存狀態，所有資料都在 RecordStore
type LedgerService struct {
	store  RecordStore
	locks  *accountLocks
	now    func() time.Time
	logger zerolog.Logger
}

// Option 設定 LedgerService
type Option func(*LedgerService)

// WithClock 替換交易時間來源 (測試用)
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) {
		s.now = now
	}
}

// WithLogger 設定 logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *LedgerService) {
		s.logger = logger
	}
}

// NewLedgerService 建立 LedgerService
//
// 參數:
//
//	store: 帳務資料儲存
//	opts: 可選設定 (時鐘、logger)
func NewLedgerService(store RecordStore, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:  store,
		locks:  newAccountLocks(),
		now:    func() time.Time { return time.Now().UTC() },
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "ledger_service").Logger()
	return s
}

// GetCustomer 取得客戶
func (s *LedgerService) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	return s.store.GetCustomer(ctx, customerID)
}

// GetCustomerAccounts 取得客戶名下所有帳戶，並帶出帳戶類型名稱
func (s *LedgerService) GetCustomerAccounts(ctx context.Context, customerID int64) ([]domain.AccountView, error) {
	accounts, err := s.store.ListAccountsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.AccountView, 0, len(accounts))
	for _, acc := range accounts {
		name, err := s.accountTypeName(ctx, acc.AccountTypeID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.AccountView{Account: acc, AccountTypeName: name})
	}
	return views, nil
}

// GetAccountTransactions 取得帳戶交易，新到舊排序；limit <= 0 表示全部
func (s *LedgerService) GetAccountTransactions(ctx context.Context, accountID int64, limit int) ([]domain.TransactionView, error) {
	trans, err := s.store.ListTransactionsByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	views := make([]domain.TransactionView, 0, len(trans))
	for _, tran := range trans {
		view, err := s.transactionView(ctx, tran)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetBankName 取得銀行名稱，查無資料時回傳 domain.UnknownBankName
func (s *LedgerService) GetBankName(ctx context.Context, bankID int64) (string, error) {
	bank, err := s.store.GetBank(ctx, bankID)
	if errors.Is(err, domain.ErrReferenceNotFound) {
		return domain.UnknownBankName, nil
	}
	if err != nil {
		return "", err
	}
	return bank.Name, nil
}

// ApplyTransaction 存款或提款
//
// 參數:
//
//	ctx: 上下文
//	req: 入帳請求
//
// 回傳:
//
//	*domain.TransactionView: 已寫入的交易
//	error: domain.ErrInvalidAmount / ErrInvalidTransactionType / ErrAccountNotFound /
//	       ErrInsufficientFunds / ErrDuplicateReference 或儲存層錯誤
//
// 同一帳戶的請求會排隊執行，餘額檢查、更新與交易寫入在同一個 store transaction 內完成。
func (s *LedgerService) ApplyTransaction(ctx context.Context, req domain.TransactionRequest) (*domain.TransactionView, error) {
	if !domain.ValidAmount(req.Amount) {
		return nil, domain.ErrInvalidAmount
	}
	if !req.Type.Valid() {
		return nil, domain.ErrInvalidTransactionType
	}
	refID := req.RefID
	if refID == uuid.Nil {
		refID = uuid.New()
	}

	unlock := s.locks.Lock(req.AccountID)
	defer unlock()

	var committed domain.Transaction
	err := s.store.WithinTx(ctx, func(tx RecordStore) error {
		// 冪等檢查：同一個 RefID 已入帳就直接回傳原交易
		existing, err := tx.GetTransactionByRef(ctx, refID)
		switch {
		case err == nil:
			if existing.AccountID != req.AccountID {
				return domain.ErrDuplicateReference
			}
			committed = *existing
			return nil
		case !errors.Is(err, domain.ErrTransactionNotFound):
			return err
		}

		account, err := tx.GetAccount(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if err := account.Apply(req.Type, req.Amount); err != nil {
			return err
		}
		if err := tx.UpdateAccountBalance(ctx, account.ID, account.Balance); err != nil {
			return err
		}

		committed = domain.Transaction{
			RefID:       refID,
			AccountID:   account.ID,
			Amount:      req.Amount,
			Type:        req.Type,
			Date:        s.now(),
			Description: req.Type.Description(),
		}
		return tx.InsertTransaction(ctx, &committed)
	})
	if err != nil {
		s.logRejected(req, err)
		return nil, err
	}

	s.logger.Debug().
		Int64("account_id", committed.AccountID).
		Int64("transaction_id", committed.ID).
		Str("ref_id", committed.RefID.String()).
		Str("amount", committed.Amount.StringFixed(domain.AmountScale)).
		Str("type", committed.Description).
		Msg("transaction committed")

	return s.transactionView(ctx, committed)
}

func (s *LedgerService) logRejected(req domain.TransactionRequest, err error) {
	var event *zerolog.Event
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrDuplicateReference):
		event = s.logger.Warn()
	default:
		event = s.logger.Error()
	}
	event.Err(err).
		Int64("account_id", req.AccountID).
		Str("amount", req.Amount.String()).
		Int64("type", int64(req.Type)).
		Msg("transaction rejected")
}

func (s *LedgerService) transactionView(ctx context.Context, tran domain.Transaction) (*domain.TransactionView, error) {
	info, err := s.store.GetTransactionType(ctx, tran.Type)
	if err != nil {
		return nil, fmt.Errorf("resolve transaction type %d: %w", tran.Type, err)
	}
	return &domain.TransactionView{Transaction: tran, TypeName: info.Name}, nil
}

func (s *LedgerService) accountTypeName(ctx context.Context, id int64) (string, error) {
	accType, err := s.store.GetAccountType(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve account type %d: %w", id, err)
	}
	return accType.Name, nil
}
