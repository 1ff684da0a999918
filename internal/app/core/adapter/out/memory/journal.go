package memory

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/seed"
	"github.com/JoeShih716/go-account-ledger/pkg/wal"
)

const (
	kindSeed   = "seed"
	kindCommit = "commit"
)

// commitRecord journal 中的一筆紀錄
// 第一筆一定是 seed，之後每個成功的 WithinTx 對應一筆 commit
type commitRecord struct {
	Kind         string               `json:"kind"`
	Seed         *seed.Dataset        `json:"seed,omitempty"`
	Balances     []balanceChange      `json:"balances,omitempty"`
	Transactions []domain.Transaction `json:"transactions,omitempty"`
}

type balanceChange struct {
	AccountID int64           `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

func (r *commitRecord) empty() bool {
	return len(r.Balances) == 0 && len(r.Transactions) == 0
}

// Open 開啟以 journal 檔案落地的 Store
//
// 參數:
//
//	path: journal 檔案路徑，空字串表示不落地
//	logger: logger
//	opts: 傳給 wal.Open 的選項
//
// 回傳:
//
//	*Store: Store 實例
//	error: 開檔或重放錯誤
//
// journal 不存在時寫入預設資料集 (首次啟動)，存在時從頭重放恢復狀態。
// 尾端有寫到一半的紀錄時截掉該段，只保留完整寫入的 commit。
func Open(path string, logger zerolog.Logger, opts ...wal.Option) (*Store, error) {
	logger = logger.With().Str("component", "memory_store").Logger()
	if path == "" {
		s := New(seed.Default())
		s.logger = logger
		return s, nil
	}

	journal, created, err := wal.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	s := &Store{journal: journal, logger: logger}

	if created {
		dataset := seed.Default()
		if err := journal.Append(&commitRecord{Kind: kindSeed, Seed: dataset}); err != nil {
			journal.Close()
			return nil, fmt.Errorf("%w: %v", domain.ErrJournalWriteFailed, err)
		}
		s.state = newState(dataset)
		logger.Info().Str("path", path).Msg("journal created and seeded")
		return s, nil
	}

	if err := s.recover(); err != nil {
		journal.Close()
		return nil, err
	}
	if n := journal.Repaired(); n > 0 {
		logger.Warn().Str("path", path).Int64("bytes", n).Msg("journal torn tail truncated")
	}
	if s.state == nil {
		// 檔案存在但是空的 (建立後還沒寫入 seed 就中斷)
		dataset := seed.Default()
		if err := journal.Append(&commitRecord{Kind: kindSeed, Seed: dataset}); err != nil {
			journal.Close()
			return nil, fmt.Errorf("%w: %v", domain.ErrJournalWriteFailed, err)
		}
		s.state = newState(dataset)
	}
	logger.Info().
		Str("path", path).
		Int("transactions", len(s.state.transactions)).
		Msg("journal recovered")
	return s, nil
}

// recover 從 journal 重放帳本狀態
// 只有 Open 呼叫，無需 Lock (單執行緒)
func (s *Store) recover() error {
	return s.journal.Replay(func(raw json.RawMessage) error {
		var rec commitRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		switch rec.Kind {
		case kindSeed:
			s.state = newState(rec.Seed)
		case kindCommit:
			if s.state == nil {
				return fmt.Errorf("journal commit before seed record")
			}
			s.state.commit(&rec)
		default:
			return fmt.Errorf("unknown journal record kind %q", rec.Kind)
		}
		return nil
	})
}

// appendJournal 寫入 journal (呼叫端需持有寫鎖)
func (s *Store) appendJournal(rec *commitRecord) error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.Append(rec); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrJournalWriteFailed, err)
	}
	return nil
}
