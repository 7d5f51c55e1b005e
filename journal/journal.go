// Package journal keeps the append-only record of executed trades.
package journal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/papertrade/money"
)

var (
	// ErrUnknownAction is returned when an action tag is not one of the four
	// trade actions.
	ErrUnknownAction = errors.New("unknown trade action")
	// ErrTradeNotFound is returned by lookups by id.
	ErrTradeNotFound = errors.New("trade not found")
)

// Action is the kind of an executed trade.
type Action string

const (
	Buy    Action = "buy"
	Sell   Action = "sell"
	Add    Action = "add"
	Reduce Action = "reduce"
)

// Actions lists every valid action.
var Actions = []Action{Buy, Sell, Add, Reduce}

// ParseAction validates an action tag.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case Buy, Sell, Add, Reduce:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// IsAcquisition reports whether the action adds shares (buy or add).
func (a Action) IsAcquisition() bool {
	return a == Buy || a == Add
}

func (a Action) String() string { return string(a) }

// UnmarshalText rejects anything outside the four actions.
func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Trade is one executed action. Trades are immutable once appended.
type Trade struct {
	ID         string       `json:"id"`
	Date       string       `json:"date"`
	Time       string       `json:"time"`
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Action     Action       `json:"action"`
	Shares     int64        `json:"shares"`
	Price      money.Amount `json:"price"`
	Amount     money.Amount `json:"amount"`
	Commission money.Amount `json:"commission"`
	StampDuty  money.Amount `json:"stamp_duty"`
	NetProfit  money.Amount `json:"net_profit"`
	Reason     string       `json:"reason"`
}

// Fees is the total transaction cost of the trade.
func (t Trade) Fees() money.Amount {
	return t.Commission.Add(t.StampDuty)
}

// Journal is an append-only trade log.
type Journal interface {
	// Append persists t after every previously appended trade.
	Append(Trade) error
	// Load returns every trade in insertion order.
	Load() ([]Trade, error)
	Close() error
}

// Querier is implemented by backends that can look trades up without
// loading the whole log.
type Querier interface {
	GetTrade(id string) (Trade, error)
	ListTradesBetween(from, to string) ([]Trade, error)
}

// Recent returns the last n trades, oldest first. n <= 0 returns all.
func Recent(trades []Trade, n int) []Trade {
	if n <= 0 || n >= len(trades) {
		return trades
	}
	return trades[len(trades)-n:]
}

// NewestFirst returns up to limit trades, most recent first.
func NewestFirst(trades []Trade, limit int) []Trade {
	recent := Recent(trades, limit)
	out := make([]Trade, len(recent))
	for i, t := range recent {
		out[len(recent)-1-i] = t
	}
	return out
}

// Stats counts trades by direction.
type Stats struct {
	Total int `json:"total_trades"`
	Buys  int `json:"buy_trades"`
	Sells int `json:"sell_trades"`
}

// Count tallies trades; add counts as a buy and reduce as a sell.
func Count(trades []Trade) Stats {
	s := Stats{Total: len(trades)}
	for _, t := range trades {
		if t.Action.IsAcquisition() {
			s.Buys++
		} else {
			s.Sells++
		}
	}
	return s
}

// Get finds a trade by id, using the backend's index when it has one.
func Get(j Journal, id string) (Trade, error) {
	if q, ok := j.(Querier); ok {
		return q.GetTrade(id)
	}
	trades, err := j.Load()
	if err != nil {
		return Trade{}, err
	}
	for _, t := range trades {
		if t.ID == id {
			return t, nil
		}
	}
	return Trade{}, fmt.Errorf("%w: %q", ErrTradeNotFound, id)
}

// Between returns trades dated within [from, to], both YYYY-MM-DD and
// inclusive. An empty bound is open.
func Between(j Journal, from, to string) ([]Trade, error) {
	if q, ok := j.(Querier); ok {
		return q.ListTradesBetween(from, to)
	}
	trades, err := j.Load()
	if err != nil {
		return nil, err
	}
	var out []Trade
	for _, t := range trades {
		if inRange(t.Date, from, to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func inRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}
