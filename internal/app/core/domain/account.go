package domain

import "github.com/shopspring/decimal"

// Account 帳戶，餘額只會透過 Ledger Service 的入帳流程變動
type Account struct {
	ID            int64           `json:"accountId"`
	CustomerID    int64           `json:"customerId"`
	AccountNumber string          `json:"accountNumber"`
	AccountTypeID int64           `json:"accountTypeId"`
	BankID        int64           `json:"bankId"`
	Balance       decimal.Decimal `json:"accountBalance"`
}

// AccountView 附帶帳戶類型名稱的帳戶
type AccountView struct {
	Account
	AccountTypeName string `json:"accountTypeName"`
}

// Deposit 存款
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw 提款，餘額不可為負
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Apply 依交易類型變動餘額
func (a *Account) Apply(t TransactionType, amount decimal.Decimal) error {
	switch t {
	case TransactionTypeDeposit:
		return a.Deposit(amount)
	case TransactionTypeWithdrawal:
		return a.Withdraw(amount)
	default:
		return ErrInvalidTransactionType
	}
}
