package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) Append(t Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, date, time, code, name, action, shares, price, amount, commission, stamp_duty, net_profit, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date, t.Time, t.Code, t.Name, string(t.Action), t.Shares,
		t.Price, t.Amount, t.Commission, t.StampDuty, t.NetProfit, t.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert trade %s: %w", t.ID, err)
	}
	return nil
}

func (j *SQLite) Load() ([]Trade, error) {
	rows, err := j.db.Query(`SELECT ` + tradeColumns + ` FROM trades ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	return scanTrades(rows)
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
