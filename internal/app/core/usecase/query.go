package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// UnknownCustomerName 客戶不存在時的顯示名稱
const UnknownCustomerName = "Unknown Customer"

const summaryDateLayout = "01/02/2006"

// QueryFacade 提供畫面需要的唯讀組合查詢
type QueryFacade struct {
	store  RecordStore
	ledger *LedgerService
}

func NewQueryFacade(store RecordStore, ledger *LedgerService) *QueryFacade {
	return &QueryFacade{
		store:  store,
		ledger: ledger,
	}
}

// ListCustomers 列出所有客戶
func (q *QueryFacade) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return q.store.ListCustomers(ctx)
}

// ListAccounts 列出所有帳戶 (含帳戶類型名稱)
func (q *QueryFacade) ListAccounts(ctx context.Context) ([]domain.AccountView, error) {
	accounts, err := q.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]domain.AccountView, 0, len(accounts))
	for _, acc := range accounts {
		name, err := q.ledger.accountTypeName(ctx, acc.AccountTypeID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.AccountView{Account: acc, AccountTypeName: name})
	}
	return views, nil
}

// ListTransactions 列出所有交易，新到舊
func (q *QueryFacade) ListTransactions(ctx context.Context) ([]domain.TransactionView, error) {
	trans, err := q.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]domain.TransactionView, 0, len(trans))
	for _, tran := range trans {
		view, err := q.ledger.transactionView(ctx, tran)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetBank 取得銀行資料，查無資料回傳 domain.ErrReferenceNotFound
func (q *QueryFacade) GetBank(ctx context.Context, bankID int64) (*domain.Bank, error) {
	return q.store.GetBank(ctx, bankID)
}

// CustomerDisplayName "{first} {last}"，nil 時回傳 UnknownCustomerName
func (q *QueryFacade) CustomerDisplayName(customer *domain.Customer) string {
	if customer == nil {
		return UnknownCustomerName
	}
	return fmt.Sprintf("%s %s", customer.FirstName, customer.LastName)
}

// AccountTransactionsSummary 每筆交易格式化為 "MM/dd/yyyy - 類型: $金額"，新到舊
func (q *QueryFacade) AccountTransactionsSummary(ctx context.Context, accountID int64) ([]string, error) {
	views, err := q.ledger.GetAccountTransactions(ctx, accountID, 0)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(views))
	for _, v := range views {
		lines = append(lines, fmt.Sprintf("%s - %s: %s",
			v.Date.Format(summaryDateLayout), v.TypeName, formatMoney(v.Amount)))
	}
	return lines, nil
}

// AccountStatement 帳號、餘額與交易摘要
func (q *QueryFacade) AccountStatement(ctx context.Context, accountID int64) (string, error) {
	account, err := q.store.GetAccount(ctx, accountID)
	if err != nil {
		return "", err
	}
	lines, err := q.AccountTransactionsSummary(ctx, accountID)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Account: %s\n", account.AccountNumber)
	fmt.Fprintf(&b, "Balance: %s\n\n", formatMoney(account.Balance))
	b.WriteString(strings.Join(lines, "\n"))
	return b.String(), nil
}

// formatMoney 美元格式，整數部分每三位加逗號，例如 -$1,234.50
func formatMoney(amount decimal.Decimal) string {
	rounded := amount.Round(domain.AmountScale)
	abs := rounded.Abs()
	_, cents, _ := strings.Cut(abs.StringFixed(domain.AmountScale), ".")
	text := "$" + humanize.BigComma(abs.Truncate(0).BigInt()) + "." + cents
	if rounded.IsNegative() {
		return "-" + text
	}
	return text
}
