// Package sim runs the paper account: it owns the loaded account, snapshot
// series and trade journal, and persists every mutation before returning.
package sim

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/analysis"
	"github.com/rustyeddy/papertrade/internal/id"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/portfolio"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/snapshot"
)

// DefaultHistoryLimit is how many trades History returns when asked for none.
const DefaultHistoryLimit = 50

// AccountStore loads and saves the account document.
type AccountStore interface {
	Load() (*portfolio.Account, error)
	Save(*portfolio.Account) error
}

// SnapshotStore loads and saves the snapshot series.
type SnapshotStore interface {
	Load() (snapshot.Series, error)
	Save(snapshot.Series) error
}

type Engine struct {
	mu        sync.Mutex
	acct      *portfolio.Account
	series    snapshot.Series
	accounts  AccountStore
	snapshots SnapshotStore
	journal   journal.Journal
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine loads the account and snapshot series from their stores.
func NewEngine(accounts AccountStore, snapshots SnapshotStore, j journal.Journal, opts ...Option) (*Engine, error) {
	e := &Engine{
		accounts:  accounts,
		snapshots: snapshots,
		journal:   j,
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	acct, err := accounts.Load()
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	series, err := snapshots.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	if series == nil {
		series = snapshot.Series{}
	}
	e.acct = acct
	e.series = series
	return e, nil
}

// Account returns a copy of the current account.
func (e *Engine) Account() *portfolio.Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct.Clone()
}

func (e *Engine) Summary() portfolio.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct.Summary()
}

// RecordTrade executes action against the ledger, charges fees, appends the
// trade to the journal and saves the account. Validation failures leave the
// account untouched. A failed save or append is reported, but the in-memory
// account keeps the trade so the caller can retry Save.
func (e *Engine) RecordTrade(symbol, name string, action journal.Action, shares int64, price money.Amount, reason string) (journal.Trade, error) {
	action, err := journal.ParseAction(string(action))
	if err != nil {
		return journal.Trade{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var fill portfolio.Fill
	if action.IsAcquisition() {
		fill, err = e.acct.Buy(symbol, name, shares, price, reason, now)
	} else {
		fill, err = e.acct.Dispose(symbol, shares, price, now)
	}
	if err != nil {
		e.log.Warn("trade rejected",
			zap.String("code", symbol), zap.String("action", string(action)),
			zap.Int64("shares", shares), zap.Stringer("price", price), zap.Error(err))
		return journal.Trade{}, fmt.Errorf("%s %s: %w", action, symbol, err)
	}

	if name == "" {
		name = fill.Name
	}
	t := journal.Trade{
		ID:         id.New(now),
		Date:       now.Format(portfolio.DateLayout),
		Time:       now.Format("15:04:05"),
		Code:       symbol,
		Name:       name,
		Action:     action,
		Shares:     shares,
		Price:      price,
		Amount:     fill.Amount,
		Commission: fill.Commission,
		StampDuty:  fill.StampDuty,
		NetProfit:  fill.NetProfit,
		Reason:     reason,
	}
	e.log.Info("trade executed",
		zap.String("id", t.ID), zap.String("code", symbol), zap.String("action", string(action)),
		zap.Int64("shares", shares), zap.Stringer("price", price),
		zap.Stringer("commission", t.Commission), zap.Stringer("stamp_duty", t.StampDuty),
		zap.Stringer("cash", e.acct.AvailableCash))

	saveErr := e.accounts.Save(e.acct)
	var appendErr error
	if err := e.journal.Append(t); err != nil {
		appendErr = fmt.Errorf("append trade %s: %w", t.ID, err)
		e.log.Error("journal append failed", zap.String("id", t.ID), zap.Error(err))
	}
	return t, errors.Join(saveErr, appendErr)
}

// Hold registers an existing holding at its cost without moving cash or
// writing a trade.
func (e *Engine) Hold(symbol, name string, shares int64, cost money.Amount, note string) (portfolio.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.acct.Acquire(symbol, name, shares, cost, note, e.now())
	if err != nil {
		return portfolio.Position{}, fmt.Errorf("hold %s: %w", symbol, err)
	}
	e.log.Info("holding registered",
		zap.String("code", symbol), zap.Int64("shares", p.Shares), zap.Stringer("cost_price", p.CostPrice))
	return p, e.accounts.Save(e.acct)
}

// SetQuote updates the current price of a held symbol.
func (e *Engine) SetQuote(symbol string, price money.Amount) (portfolio.Position, error) {
	if price.IsNegative() {
		return portfolio.Position{}, fmt.Errorf("%w: got %s", portfolio.ErrInvalidPrice, price)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.acct.SetQuote(symbol, price, e.now()) {
		return portfolio.Position{}, fmt.Errorf("%w: %s", portfolio.ErrUnknownSymbol, symbol)
	}
	p, _ := e.acct.Position(symbol)
	return p, e.accounts.Save(e.acct)
}

// SetQuotes applies a batch of prices. Symbols that are not held are
// skipped; the number applied is returned.
func (e *Engine) SetQuotes(prices map[string]money.Amount) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	n := 0
	for symbol, price := range prices {
		if price.IsNegative() {
			e.log.Warn("ignoring negative quote", zap.String("code", symbol), zap.Stringer("price", price))
			continue
		}
		if e.acct.SetQuote(symbol, price, now) {
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	e.log.Info("quotes updated", zap.Int("applied", n), zap.Int("received", len(prices)))
	return n, e.accounts.Save(e.acct)
}

// TakeDailySnapshot records today's account state, replacing any snapshot
// already taken today, and saves the series.
func (e *Engine) TakeDailySnapshot() (snapshot.DailySnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := snapshot.Take(e.acct, e.series, e.now())
	e.log.Info("snapshot taken",
		zap.String("date", snap.Date), zap.Stringer("total_assets", snap.TotalAssets),
		zap.Stringer("daily_profit_loss", snap.DailyProfitLoss))
	return snap, e.snapshots.Save(e.series)
}

// Snapshots returns a copy of the series.
func (e *Engine) Snapshots() snapshot.Series {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.series)
}

// Trades returns the whole journal in insertion order, or its last n
// entries when n > 0.
func (e *Engine) Trades(n int) ([]journal.Trade, error) {
	trades, err := e.journal.Load()
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	return journal.Recent(trades, n), nil
}

// History returns up to limit trades, newest first.
func (e *Engine) History(limit int) ([]journal.Trade, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	trades, err := e.Trades(0)
	if err != nil {
		return nil, err
	}
	return journal.NewestFirst(trades, limit), nil
}

func (e *Engine) Trade(tradeID string) (journal.Trade, error) {
	return journal.Get(e.journal, tradeID)
}

func (e *Engine) TradesBetween(from, to string) ([]journal.Trade, error) {
	return journal.Between(e.journal, from, to)
}

func (e *Engine) Alerts() []risk.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	return risk.Evaluate(e.acct)
}

// Size reports how many shares of symbol can still be bought at price.
func (e *Engine) Size(symbol string, price money.Amount, lot int64) risk.Capacity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return risk.Size(e.acct, symbol, price, lot)
}

func (e *Engine) Report(days int) (analysis.Report, error) {
	trades, err := e.Trades(0)
	if err != nil {
		return analysis.Report{}, err
	}
	return analysis.Performance(e.Snapshots(), days, trades), nil
}

func (e *Engine) Accuracy() analysis.AccuracyReport {
	return analysis.Accuracy(e.Snapshots())
}

func (e *Engine) Dashboard() (analysis.Dashboard, error) {
	trades, err := e.Trades(0)
	if err != nil {
		return analysis.Dashboard{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	today := e.now().Format(portfolio.DateLayout)
	return analysis.BuildDashboard(e.acct, e.series, trades, today), nil
}

// Save persists the account, for retrying after a failed save.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accounts.Save(e.acct)
}

func (e *Engine) Close() error {
	return e.journal.Close()
}
