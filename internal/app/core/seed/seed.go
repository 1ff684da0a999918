// Package seed 提供首次啟動時寫入 Record Store 的固定資料
package seed

import (
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// Dataset 一組完整的初始資料
type Dataset struct {
	Banks            []domain.Bank                `json:"banks"`
	AccountTypes     []domain.AccountType         `json:"accountTypes"`
	TransactionTypes []domain.TransactionTypeInfo `json:"transactionTypes"`
	Customers        []domain.Customer            `json:"customers"`
	Accounts         []domain.Account             `json:"accounts"`
}

// Default 回傳預設資料集 (每次呼叫都是新的副本)
func Default() *Dataset {
	return &Dataset{
		Banks: []domain.Bank{
			{ID: 1, Name: "Maui National Bank"},
			{ID: 2, Name: "Pacific Savings Bank"},
		},
		AccountTypes: []domain.AccountType{
			{ID: 1, Name: "Savings"},
			{ID: 2, Name: "Cheque"},
			{ID: 3, Name: "Credit"},
		},
		TransactionTypes: []domain.TransactionTypeInfo{
			{ID: domain.TransactionTypeDeposit, Name: "Deposit"},
			{ID: domain.TransactionTypeWithdrawal, Name: "Withdrawal"},
		},
		Customers: []domain.Customer{
			{ID: 1, FirstName: "Keoni", LastName: "Kahale"},
			{ID: 2, FirstName: "Leilani", LastName: "Akana"},
			{ID: 3, FirstName: "Makoa", LastName: "Palakiko"},
		},
		Accounts: []domain.Account{
			{ID: 1, CustomerID: 1, AccountNumber: "100-200-001", AccountTypeID: 1, BankID: 1, Balance: decimal.RequireFromString("200.00")},
			{ID: 2, CustomerID: 1, AccountNumber: "100-200-002", AccountTypeID: 2, BankID: 1, Balance: decimal.RequireFromString("1500.00")},
			{ID: 3, CustomerID: 2, AccountNumber: "100-300-001", AccountTypeID: 1, BankID: 2, Balance: decimal.RequireFromString("50.00")},
			{ID: 4, CustomerID: 3, AccountNumber: "100-400-001", AccountTypeID: 2, BankID: 1, Balance: decimal.RequireFromString("0.00")},
		},
	}
}
