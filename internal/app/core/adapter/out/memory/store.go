package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/seed"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/pkg/wal"
)

// Store 是以 Map 保存資料的 RecordStore，可選擇以 WAL 落地
//
// 結構:
//
//	mu: 保護 state，WithinTx 期間持有寫鎖
//	state: 帳務資料
//	journal: Write-Ahead Log (nil 表示純記憶體)
type Store struct {
	mu      sync.RWMutex
	state   *state
	journal *wal.WAL
	logger  zerolog.Logger
}

// state 所有表格資料；transactions 依寫入順序 (id 遞增) 保存
type state struct {
	customers        map[int64]domain.Customer
	accounts         map[int64]domain.Account
	accountTypes     map[int64]domain.AccountType
	transactionTypes map[domain.TransactionType]domain.TransactionTypeInfo
	banks            map[int64]domain.Bank
	transactions     []domain.Transaction
	byRef            map[uuid.UUID]int
	nextTxID         int64
}

// New 以指定資料集建立純記憶體 Store (不落地)
func New(dataset *seed.Dataset) *Store {
	return &Store{
		state:  newState(dataset),
		logger: zerolog.Nop(),
	}
}

func newState(dataset *seed.Dataset) *state {
	st := &state{
		customers:        make(map[int64]domain.Customer),
		accounts:         make(map[int64]domain.Account),
		accountTypes:     make(map[int64]domain.AccountType),
		transactionTypes: make(map[domain.TransactionType]domain.TransactionTypeInfo),
		banks:            make(map[int64]domain.Bank),
		byRef:            make(map[uuid.UUID]int),
		nextTxID:         1,
	}
	if dataset == nil {
		return st
	}
	for _, c := range dataset.Customers {
		st.customers[c.ID] = c
	}
	for _, a := range dataset.Accounts {
		st.accounts[a.ID] = a
	}
	for _, t := range dataset.AccountTypes {
		st.accountTypes[t.ID] = t
	}
	for _, t := range dataset.TransactionTypes {
		st.transactionTypes[t.ID] = t
	}
	for _, b := range dataset.Banks {
		st.banks[b.ID] = b
	}
	return st
}

// commit 套用一筆已寫入 journal 的變更 (呼叫端需持有寫鎖)
func (st *state) commit(rec *commitRecord) {
	for _, b := range rec.Balances {
		acc := st.accounts[b.AccountID]
		acc.Balance = b.Balance
		st.accounts[b.AccountID] = acc
	}
	for _, tran := range rec.Transactions {
		st.byRef[tran.RefID] = len(st.transactions)
		st.transactions = append(st.transactions, tran)
		if tran.ID >= st.nextTxID {
			st.nextTxID = tran.ID + 1
		}
	}
}

// Close 關閉 journal
func (s *Store) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Customer, 0, len(s.state.customers))
	for _, c := range s.state.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getAccount(s.state, nil, id)
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listAccounts(s.state, nil, func(domain.Account) bool { return true }), nil
}

func (s *Store) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listAccounts(s.state, nil, func(a domain.Account) bool { return a.CustomerID == customerID }), nil
}

func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.state.transactions, func(t domain.Transaction) bool { return t.AccountID == accountID }, limit), nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.state.transactions, func(domain.Transaction) bool { return true }, 0), nil
}

func (s *Store) GetTransactionByRef(ctx context.Context, ref uuid.UUID) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.state.byRef[ref]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	tran := s.state.transactions[idx]
	return &tran, nil
}

func (s *Store) GetAccountType(ctx context.Context, id int64) (*domain.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.accountTypes[id]
	if !ok {
		return nil, domain.ErrReferenceNotFound
	}
	return &t, nil
}

func (s *Store) GetTransactionType(ctx context.Context, id domain.TransactionType) (*domain.TransactionTypeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.transactionTypes[id]
	if !ok {
		return nil, domain.ErrReferenceNotFound
	}
	return &t, nil
}

func (s *Store) GetBank(ctx context.Context, id int64) (*domain.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.state.banks[id]
	if !ok {
		return nil, domain.ErrReferenceNotFound
	}
	return &b, nil
}

// UpdateAccountBalance 單筆寫入，等同只包一個操作的 WithinTx
func (s *Store) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	return s.WithinTx(ctx, func(tx usecase.RecordStore) error {
		return tx.UpdateAccountBalance(ctx, accountID, balance)
	})
}

// InsertTransaction 單筆寫入，等同只包一個操作的 WithinTx
func (s *Store) InsertTransaction(ctx context.Context, tran *domain.Transaction) error {
	return s.WithinTx(ctx, func(tx usecase.RecordStore) error {
		return tx.InsertTransaction(ctx, tran)
	})
}

// WithinTx 持有寫鎖執行 fn；fn 成功後先寫 journal 再套用到記憶體
//
// 參數:
//
//	ctx: 上下文
//	fn: 交易內容，收到的 RecordStore 看得到本次尚未提交的變更
//
// 回傳:
//
//	error: fn 的錯誤 (不套用任何變更) 或 domain.ErrJournalWriteFailed
func (s *Store) WithinTx(ctx context.Context, fn func(tx usecase.RecordStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(s)
	if err := fn(tx); err != nil {
		return err
	}
	rec := tx.record()
	if rec.empty() {
		return nil
	}
	if err := s.appendJournal(rec); err != nil {
		s.logger.Error().Err(err).Msg("journal append failed, changes discarded")
		return err
	}
	s.state.commit(rec)
	return nil
}

func getAccount(st *state, balances map[int64]decimal.Decimal, id int64) (*domain.Account, error) {
	acc, ok := st.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if b, ok := balances[id]; ok {
		acc.Balance = b
	}
	return &acc, nil
}

func listAccounts(st *state, balances map[int64]decimal.Decimal, match func(domain.Account) bool) []domain.Account {
	out := make([]domain.Account, 0)
	for id, acc := range st.accounts {
		if !match(acc) {
			continue
		}
		if b, ok := balances[id]; ok {
			acc.Balance = b
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// newestFirst 交易時間新到舊，同時間則 id 大者在前；limit <= 0 不限筆數
func newestFirst(all []domain.Transaction, match func(domain.Transaction) bool, limit int) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, t := range all {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

var _ usecase.RecordStore = (*Store)(nil)
