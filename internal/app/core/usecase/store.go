package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// RecordStore 是帳務資料的儲存介面 (SQLite / MySQL / Memory+WAL 皆實作此介面)
type RecordStore interface {
	// GetCustomer 查無資料時回傳 domain.ErrCustomerNotFound
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	// ListCustomers 依 id 排序
	ListCustomers(ctx context.Context) ([]domain.Customer, error)

	// GetAccount 查無資料時回傳 domain.ErrAccountNotFound
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error)

	// ListTransactionsByAccount 依交易時間新到舊，同時間則 id 大者在前；limit <= 0 表示不限筆數
	ListTransactionsByAccount(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	// GetTransactionByRef 查無資料時回傳 domain.ErrTransactionNotFound
	GetTransactionByRef(ctx context.Context, ref uuid.UUID) (*domain.Transaction, error)

	// 參考表，查無資料時回傳 domain.ErrReferenceNotFound
	GetAccountType(ctx context.Context, id int64) (*domain.AccountType, error)
	GetTransactionType(ctx context.Context, id domain.TransactionType) (*domain.TransactionTypeInfo, error)
	GetBank(ctx context.Context, id int64) (*domain.Bank, error)

	// UpdateAccountBalance 帳戶不存在時回傳 domain.ErrAccountNotFound
	UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error
	// InsertTransaction 寫入交易並回填 tran.ID
	InsertTransaction(ctx context.Context, tran *domain.Transaction) error

	// WithinTx 在同一個交易邊界內執行 fn，fn 回傳錯誤則全部 rollback
	WithinTx(ctx context.Context, fn func(tx RecordStore) error) error
}
