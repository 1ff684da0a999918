package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// customerRow 對應資料庫的 customers 表
type customerRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
}

func (*customerRow) TableName() string {
	return "customers"
}

// accountRow 對應資料庫的 accounts 表
type accountRow struct {
	ID            int64           `gorm:"primaryKey;autoIncrement:false"`
	CustomerID    int64           `gorm:"index;not null"`
	AccountNumber string          `gorm:"size:32;not null"`
	AccountTypeID int64           `gorm:"not null"`
	BankID        int64           `gorm:"not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

func (*accountRow) TableName() string {
	return "accounts"
}

// transactionRow 對應資料庫的 transactions 表
type transactionRow struct {
	ID                int64           `gorm:"primaryKey;autoIncrement"`
	RefID             []byte          `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 domain.Transaction.RefID
	AccountID         int64           `gorm:"index:idx_transactions_account_date,priority:1;not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TransactionTypeID int64           `gorm:"not null"`
	TransactionDate   int64           `gorm:"index:idx_transactions_account_date,priority:2;not null"` // UnixNano
	Description       string          `gorm:"size:32"`
}

func (*transactionRow) TableName() string {
	return "transactions"
}

type accountTypeRow struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:64;not null"`
}

func (*accountTypeRow) TableName() string {
	return "account_types"
}

type transactionTypeRow struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:64;not null"`
}

func (*transactionTypeRow) TableName() string {
	return "transaction_types"
}

type bankRow struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:128;not null"`
}

func (*bankRow) TableName() string {
	return "banks"
}

func (r *customerRow) toDomain() domain.Customer {
	return domain.Customer{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName}
}

func (r *accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		AccountNumber: r.AccountNumber,
		AccountTypeID: r.AccountTypeID,
		BankID:        r.BankID,
		Balance:       r.Balance,
	}
}

func (r *transactionRow) toDomain() domain.Transaction {
	ref, err := uuid.FromBytes(r.RefID)
	if err != nil {
		ref = uuid.Nil
	}
	return domain.Transaction{
		ID:          r.ID,
		RefID:       ref,
		AccountID:   r.AccountID,
		Amount:      r.Amount,
		Type:        domain.TransactionType(r.TransactionTypeID),
		Date:        time.Unix(0, r.TransactionDate).UTC(),
		Description: r.Description,
	}
}

func newTransactionRow(t *domain.Transaction) *transactionRow {
	return &transactionRow{
		RefID:             t.RefID[:],
		AccountID:         t.AccountID,
		Amount:            t.Amount,
		TransactionTypeID: int64(t.Type),
		TransactionDate:   t.Date.UnixNano(),
		Description:       t.Description,
	}
}

func transactionsToDomain(rows []transactionRow) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}

func accountsToDomain(rows []accountRow) []domain.Account {
	out := make([]domain.Account, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}
