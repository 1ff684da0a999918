package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountScale 金額精度：小數點後 2 位
const AmountScale = 2

// TransactionType 交易類型 (對應 transaction_types 表的 id)
type TransactionType int64

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdrawal TransactionType = 2
)

// Valid 只接受 Deposit / Withdrawal，其他 id 一律視為非法
func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// Description 交易紀錄上的說明文字
func (t TransactionType) Description() string {
	switch t {
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypeWithdrawal:
		return "Withdrawal"
	default:
		return ""
	}
}

// Transaction 帳本上的一筆交易，建立後不可修改
type Transaction struct {
	// ID: 由 Record Store 寫入時分配
	ID int64 `json:"transactionId"`
	// RefID: 外部追蹤號，用於冪等 (同一個 RefID 只會入帳一次)
	RefID     uuid.UUID       `json:"referenceId"`
	AccountID int64           `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"transactionTypeId"`
	// Date: 由 Ledger Service 的時鐘設定，不接受呼叫端傳入
	Date        time.Time `json:"transactionDate"`
	Description string    `json:"description"`
}

// TransactionRequest 入帳請求
type TransactionRequest struct {
	AccountID int64
	Amount    decimal.Decimal
	Type      TransactionType
	// RefID 可為 uuid.Nil，此時由服務產生
	RefID uuid.UUID
}

// TransactionView 附帶交易類型名稱的交易 (讀取端 join)
type TransactionView struct {
	Transaction
	TypeName string `json:"transactionTypeName"`
}

// ValidAmount 金額必須 > 0 且不超過 AmountScale 位小數
func ValidAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	return amount.Equal(amount.Truncate(AmountScale))
}
