package wal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
)

// rw-r--r-- (擁有者讀寫，其他人唯讀)
const FileModeDefault fs.FileMode = 0644

// WAL 是 append-only 的 JSON lines 檔案，每筆寫入後立即 fsync
//
// 結構:
//
//	sync: fsync 實作，預設 (*os.File).Sync
//	err: 寫入失敗且無法截斷回原長度時設定，之後拒絕所有寫入
//	repaired: 最近一次 Replay 截掉的殘缺尾端位元組數
type WAL struct {
	file     *os.File
	mu       sync.Mutex
	sync     func(*os.File) error
	err      error
	repaired int64
}

// Option 設定 WAL
type Option func(*WAL)

// WithSync 替換 fsync 實作
func WithSync(fn func(*os.File) error) Option {
	return func(w *WAL) {
		w.sync = fn
	}
}

// Open 開啟或建立 WAL 檔案
//
// 回傳:
//
//	*WAL: WAL 實例
//	bool: 檔案是否為本次新建立 (首次啟動)
//	error: 開檔錯誤
func Open(path string, opts ...Option) (*WAL, bool, error) {
	created := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		created = true
	} else if err != nil {
		return nil, false, err
	}

	// O_APPEND 每次寫入時自動跳到檔案末尾
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModeDefault)
	if err != nil {
		return nil, false, err
	}
	w := &WAL{
		file: file,
		sync: (*os.File).Sync,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, created, nil
}

// Append 寫入一筆資料並刷入硬碟
// Write 或 Sync 失敗時把檔案截回寫入前的長度，失敗的紀錄不會在重放時出現
func (w *WAL) Append(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}

	offset, err := w.file.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if _, err := w.file.Write(data); err != nil {
		return w.rollback(offset, err)
	}
	if err := w.sync(w.file); err != nil {
		return w.rollback(offset, err)
	}
	return nil
}

// rollback 截回 offset；截斷也失敗時 WAL 進入不可寫狀態
func (w *WAL) rollback(offset int64, cause error) error {
	if err := w.file.Truncate(offset); err != nil {
		w.err = fmt.Errorf("wal truncate to %d after failed append: %w", offset, err)
		return errors.Join(cause, w.err)
	}
	return cause
}

// Replay 從頭依序讀出每一筆紀錄
// callback 回傳錯誤時中止
// 最後一筆紀錄不完整 (寫到一半中斷) 時截掉該段並視為正常結束，可由 Repaired 得知截掉的長度
func (w *WAL) Replay(callback func(raw json.RawMessage) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.repaired = 0
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(bufio.NewReader(w.file))
	for n := 1; ; n++ {
		start := decoder.InputOffset()
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return w.truncateTail(start)
			}
			return fmt.Errorf("wal record %d: %w", n, err)
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
}

// truncateTail 截掉 offset 之後的殘缺資料，並補回上一筆紀錄的換行
func (w *WAL) truncateTail(offset int64) error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	if err := w.file.Truncate(offset); err != nil {
		return fmt.Errorf("wal truncate torn tail at %d: %w", offset, err)
	}
	if offset > 0 {
		if _, err := w.file.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	if err := w.sync(w.file); err != nil {
		return err
	}
	w.repaired = info.Size() - offset
	return nil
}

// Repaired 最近一次 Replay 截掉的殘缺位元組數 (0 表示檔案完整)
func (w *WAL) Repaired() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.repaired
}

// Close 關閉檔案
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
