package journal

import (
	"database/sql"
	"errors"
	"fmt"
)

const tradeColumns = `trade_id, date, time, code, name, action, shares, price, amount, commission, stamp_duty, net_profit, reason`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(r rowScanner) (Trade, error) {
	var (
		rec    Trade
		action string
	)
	err := r.Scan(
		&rec.ID,
		&rec.Date,
		&rec.Time,
		&rec.Code,
		&rec.Name,
		&action,
		&rec.Shares,
		&rec.Price,
		&rec.Amount,
		&rec.Commission,
		&rec.StampDuty,
		&rec.NetProfit,
		&rec.Reason,
	)
	if err != nil {
		return Trade{}, err
	}
	if rec.Action, err = ParseAction(action); err != nil {
		return Trade{}, err
	}
	return rec, nil
}

func scanTrades(rows *sql.Rows) ([]Trade, error) {
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrade returns a single trade by id.
func (j *SQLite) GetTrade(id string) (Trade, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, id)
	rec, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Trade{}, fmt.Errorf("%w: %q", ErrTradeNotFound, id)
	}
	return rec, err
}

// ListTradesBetween returns trades dated within [from, to] in insertion
// order. An empty bound is open.
func (j *SQLite) ListTradesBetween(from, to string) ([]Trade, error) {
	if from == "" {
		from = "0000-00-00"
	}
	if to == "" {
		to = "9999-99-99"
	}
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE date >= ? AND date <= ?
		ORDER BY seq ASC`, from, to)
	if err != nil {
		return nil, err
	}
	return scanTrades(rows)
}
