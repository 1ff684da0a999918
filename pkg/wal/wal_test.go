package wal

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func TestWAL_AppendAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.wal")

	w, created, err := Open(path)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, w.Append(record{Seq: 1, Note: "first"}))
	require.NoError(t, w.Append(record{Seq: 2, Note: "second"}))
	require.NoError(t, w.Close())

	w, created, err = Open(path)
	require.NoError(t, err)
	assert.False(t, created)
	defer w.Close()

	var got []record
	err = w.Replay(func(raw json.RawMessage) error {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []record{{1, "first"}, {2, "second"}}, got)

	// Replay 後仍可繼續 append
	require.NoError(t, w.Append(record{Seq: 3}))
	count := 0
	require.NoError(t, w.Replay(func(json.RawMessage) error { count++; return nil }))
	assert.Equal(t, 3, count)
}

func TestWAL_ReplayStopsOnCallbackError(t *testing.T) {
	w, _, err := Open(filepath.Join(t.TempDir(), "journal.wal"))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Append(record{Seq: 1}))
	require.NoError(t, w.Append(record{Seq: 2}))

	stop := errors.New("stop")
	calls := 0
	err = w.Replay(func(json.RawMessage) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestWAL_ReplayCorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.wal")
	require.NoError(t, os.WriteFile(path, []byte("{\"seq\":1}\n{broken\n"), FileModeDefault))

	w, created, err := Open(path)
	require.NoError(t, err)
	assert.False(t, created)
	defer w.Close()

	err = w.Replay(func(json.RawMessage) error { return nil })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "wal record 2")
}

func replaySeqs(t *testing.T, w *WAL) []int {
	t.Helper()
	var seqs []int
	require.NoError(t, w.Replay(func(raw json.RawMessage) error {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		seqs = append(seqs, r.Seq)
		return nil
	}))
	return seqs
}

func TestWAL_ReplayTruncatesTornTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.wal")
	torn := "\n{\"seq\":2,\"no"
	require.NoError(t, os.WriteFile(path, []byte("{\"seq\":1}"+torn), FileModeDefault))

	w, _, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, []int{1}, replaySeqs(t, w))
	assert.Equal(t, int64(len(torn)), w.Repaired())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"seq\":1}\n", string(data))

	// 截斷後接續寫入，下一次重放完整
	require.NoError(t, w.Append(record{Seq: 3}))
	assert.Equal(t, []int{1, 3}, replaySeqs(t, w))
	assert.Zero(t, w.Repaired())
}

func TestWAL_ReplayTornFirstRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.wal")
	require.NoError(t, os.WriteFile(path, []byte("{\"seq\":"), FileModeDefault))

	w, _, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	assert.Empty(t, replaySeqs(t, w))
	assert.Equal(t, int64(7), w.Repaired())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWAL_FailedSyncRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.wal")
	fail := false
	w, _, err := Open(path, WithSync(func(f *os.File) error {
		if fail {
			return errors.New("disk full")
		}
		return f.Sync()
	}))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Append(record{Seq: 1}))

	fail = true
	err = w.Append(record{Seq: 2, Note: "lost"})
	assert.EqualError(t, err, "disk full")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"seq\":1,\"note\":\"\"}\n", string(data))

	fail = false
	require.NoError(t, w.Append(record{Seq: 3}))
	assert.Equal(t, []int{1, 3}, replaySeqs(t, w))
}
