package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/pkg/database"
)

// Store 以 GORM 實作的 RecordStore (SQLite 檔案或 MySQL)
type Store struct {
	db *gorm.DB
	// lockRows: 交易內讀取帳戶時加上 SELECT ... FOR UPDATE (MySQL 悲觀鎖)
	lockRows bool
	inTx     bool
	logger   zerolog.Logger
}

// New 建立 Store，不做任何 schema 檢查
func New(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:       db,
		lockRows: db.Dialector.Name() == database.DriverMySQL,
		logger:   logger.With().Str("component", "sql_store").Logger(),
	}
}

// Open 建立 Store，補齊 schema，資料庫沒有客戶資料時寫入預設資料
func Open(ctx context.Context, client *database.Client, logger zerolog.Logger) (*Store, error) {
	s := New(client.DB(), logger)
	if _, err := s.Bootstrap(ctx, nil); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) withTx(tx *gorm.DB) *Store {
	return &Store{db: tx, lockRows: s.lockRows, inTx: true, logger: s.logger}
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var row customerRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	c := row.toDomain()
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var rows []customerRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]domain.Customer, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// GetAccount 在交易內且為 MySQL 時鎖定該列直到 commit/rollback
func (s *Store) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	q := s.db.WithContext(ctx)
	if s.inTx && s.lockRows {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row accountRow
	err := q.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	acc := row.toDomain()
	return &acc, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var rows []accountRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accountsToDomain(rows), nil
}

func (s *Store) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	var rows []accountRow
	err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts of customer %d: %w", customerID, err)
	}
	return accountsToDomain(rows), nil
}

func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	q := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("transaction_date DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []transactionRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transactions of account %d: %w", accountID, err)
	}
	return transactionsToDomain(rows), nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var rows []transactionRow
	err := s.db.WithContext(ctx).Order("transaction_date DESC").Order("id DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactionsToDomain(rows), nil
}

func (s *Store) GetTransactionByRef(ctx context.Context, ref uuid.UUID) (*domain.Transaction, error) {
	var row transactionRow
	err := s.db.WithContext(ctx).Where("ref_id = ?", ref[:]).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction by ref %s: %w", ref, err)
	}
	tran := row.toDomain()
	return &tran, nil
}

func (s *Store) GetAccountType(ctx context.Context, id int64) (*domain.AccountType, error) {
	var row accountTypeRow
	if err := s.findReference(ctx, &row, id); err != nil {
		return nil, err
	}
	return &domain.AccountType{ID: row.ID, Name: row.Name}, nil
}

func (s *Store) GetTransactionType(ctx context.Context, id domain.TransactionType) (*domain.TransactionTypeInfo, error) {
	var row transactionTypeRow
	if err := s.findReference(ctx, &row, int64(id)); err != nil {
		return nil, err
	}
	return &domain.TransactionTypeInfo{ID: domain.TransactionType(row.ID), Name: row.Name}, nil
}

func (s *Store) GetBank(ctx context.Context, id int64) (*domain.Bank, error) {
	var row bankRow
	if err := s.findReference(ctx, &row, id); err != nil {
		return nil, err
	}
	return &domain.Bank{ID: row.ID, Name: row.Name}, nil
}

func (s *Store) findReference(ctx context.Context, dest any, id int64) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrReferenceNotFound
	}
	return err
}

func (s *Store) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	res := s.db.WithContext(ctx).
		Model(&accountRow{}).
		Where("id = ?", accountID).
		Update("balance", balance)
	if res.Error != nil {
		return fmt.Errorf("update balance of account %d: %w", accountID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (s *Store) InsertTransaction(ctx context.Context, tran *domain.Transaction) error {
	row := newTransactionRow(tran)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	tran.ID = row.ID
	return nil
}

// WithinTx 以資料庫交易包住 fn，fn 回傳錯誤時 rollback
func (s *Store) WithinTx(ctx context.Context, fn func(tx usecase.RecordStore) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.withTx(tx))
	})
}

var _ usecase.RecordStore = (*Store)(nil)
