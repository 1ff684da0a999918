package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

// txStore 是 WithinTx 期間交給 fn 的 RecordStore
// 讀取直接看 state (寫鎖已由 WithinTx 持有)，寫入先暫存在 balances / inserted
type txStore struct {
	st       *state
	balances map[int64]decimal.Decimal
	order    []int64
	inserted []domain.Transaction
	nextID   int64
}

func newTx(s *Store) *txStore {
	return &txStore{
		st:       s.state,
		balances: make(map[int64]decimal.Decimal),
		nextID:   s.state.nextTxID,
	}
}

// record 把暫存的變更轉成 journal 紀錄
func (t *txStore) record() *commitRecord {
	rec := &commitRecord{Kind: kindCommit}
	for _, id := range t.order {
		rec.Balances = append(rec.Balances, balanceChange{AccountID: id, Balance: t.balances[id]})
	}
	rec.Transactions = append(rec.Transactions, t.inserted...)
	return rec
}

func (t *txStore) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	c, ok := t.st.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (t *txStore) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(t.st.customers))
	for _, c := range t.st.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *txStore) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return getAccount(t.st, t.balances, id)
}

func (t *txStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return listAccounts(t.st, t.balances, func(domain.Account) bool { return true }), nil
}

func (t *txStore) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	return listAccounts(t.st, t.balances, func(a domain.Account) bool { return a.CustomerID == customerID }), nil
}

func (t *txStore) ListTransactionsByAccount(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	return newestFirst(t.all(), func(tran domain.Transaction) bool { return tran.AccountID == accountID }, limit), nil
}

func (t *txStore) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return newestFirst(t.all(), func(domain.Transaction) bool { return true }, 0), nil
}

func (t *txStore) GetTransactionByRef(ctx context.Context, ref uuid.UUID) (*domain.Transaction, error) {
	if idx, ok := t.st.byRef[ref]; ok {
		tran := t.st.transactions[idx]
		return &tran, nil
	}
	for _, tran := range t.inserted {
		if tran.RefID == ref {
			found := tran
			return &found, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (t *txStore) GetAccountType(ctx context.Context, id int64) (*domain.AccountType, error) {
	v, ok := t.st.accountTypes[id]
	if !ok {
		return nil, domain.ErrReferenceNotFound
	}
	return &v, nil
}

func (t *txStore) GetTransactionType(ctx context.Context, id domain.TransactionType) (*domain.TransactionTypeInfo, error) {
	v, ok := t.st.transactionTypes[id]
	if !ok {
		return nil, domain.ErrReferenceNotFound
	}
	return &v, nil
}

func (t *txStore) GetBank(ctx context.Context, id int64) (*domain.Bank, error) {
	v, ok := t.st.banks[id]
	if !ok {
		return nil, domain.ErrReferenceNotFound
	}
	return &v, nil
}

func (t *txStore) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	if _, ok := t.st.accounts[accountID]; !ok {
		return domain.ErrAccountNotFound
	}
	if _, seen := t.balances[accountID]; !seen {
		t.order = append(t.order, accountID)
	}
	t.balances[accountID] = balance
	return nil
}

func (t *txStore) InsertTransaction(ctx context.Context, tran *domain.Transaction) error {
	if _, err := t.GetTransactionByRef(ctx, tran.RefID); err == nil {
		return domain.ErrDuplicateReference
	}
	tran.ID = t.nextID
	t.nextID++
	t.inserted = append(t.inserted, *tran)
	return nil
}

// WithinTx 巢狀呼叫直接併入目前的交易
func (t *txStore) WithinTx(ctx context.Context, fn func(tx usecase.RecordStore) error) error {
	return fn(t)
}

func (t *txStore) all() []domain.Transaction {
	if len(t.inserted) == 0 {
		return t.st.transactions
	}
	all := make([]domain.Transaction, 0, len(t.st.transactions)+len(t.inserted))
	all = append(all, t.st.transactions...)
	return append(all, t.inserted...)
}

var _ usecase.RecordStore = (*txStore)(nil)
