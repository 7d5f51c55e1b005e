package journal

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/money"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='trades'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "trades", name)
}

func TestSQLiteAppendStoresDecimalText(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	rec := sampleTrade("T1", "2024-01-02", Buy)
	rec.Price = money.New(1.535)
	require.NoError(t, j.Append(rec))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		action string
		shares int64
		price  string
	)
	err = db.QueryRow(`SELECT action, shares, price FROM trades WHERE trade_id = 'T1'`).Scan(&action, &shares, &price)
	require.NoError(t, err)
	assert.Equal(t, "buy", action)
	assert.Equal(t, int64(100), shares)
	assert.Equal(t, "1.535", price)
}

func TestSQLiteLoadKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	// Ids deliberately out of lexical order.
	for _, tr := range []Trade{
		sampleTrade("Z", "2024-01-01", Buy),
		sampleTrade("A", "2024-01-02", Reduce),
		sampleTrade("M", "2024-01-03", Add),
	} {
		require.NoError(t, j.Append(tr))
	}

	got, err := j.Load()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Z", got[0].ID)
	assert.Equal(t, "A", got[1].ID)
	assert.Equal(t, Reduce, got[1].Action)
	assert.Equal(t, "M", got[2].ID)
	assert.True(t, got[0].Amount.Equal(money.New(165050)))
}

func TestSQLiteRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	require.NoError(t, j.Append(sampleTrade("dup", "2024-01-01", Buy)))
	assert.Error(t, j.Append(sampleTrade("dup", "2024-01-02", Sell)))
}
