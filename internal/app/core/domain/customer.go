package domain

// Customer 客戶 (唯讀，由 seed 或外部開戶流程建立)
type Customer struct {
	ID        int64  `json:"customerId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AccountType 帳戶類型參考表
type AccountType struct {
	ID   int64  `json:"accountTypeId"`
	Name string `json:"name"`
}

// TransactionTypeInfo 交易類型參考表
type TransactionTypeInfo struct {
	ID   TransactionType `json:"transactionTypeId"`
	Name string          `json:"name"`
}

// Bank 銀行參考表
type Bank struct {
	ID   int64  `json:"bankId"`
	Name string `json:"bankName"`
}

// UnknownBankName 查無銀行時的顯示名稱
const UnknownBankName = "Unknown Bank"
