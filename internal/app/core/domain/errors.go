package domain

import "errors"

var (
	// ErrInvalidAmount 金額必須為正數 (且最多兩位小數)
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransactionType 不支援的交易類型
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrCustomerNotFound 找不到客戶
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrTransactionNotFound 找不到交易
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrReferenceNotFound 參考表 (帳戶類型 / 交易類型 / 銀行) 查無資料
	ErrReferenceNotFound = errors.New("reference record not found")

	// ErrDuplicateReference RefID 已被其他帳戶的交易使用
	ErrDuplicateReference = errors.New("reference id already used by another account")

	// ErrTransportFailure 遠端服務無法連線或回傳非成功狀態
	ErrTransportFailure = errors.New("transport failure")

	// ErrJournalWriteFailed 寫入 journal 失敗
	ErrJournalWriteFailed = errors.New("journal write failed")
)
