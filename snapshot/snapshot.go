// Package snapshot captures dated copies of account metrics and keeps them
// as a series keyed by date.
package snapshot

import (
	"maps"
	"slices"
	"time"

	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/portfolio"
)

// DailySnapshot is one calendar day's account state. Daily figures are
// measured against the previous snapshot in the series.
type DailySnapshot struct {
	Date              string                        `json:"date"`
	TotalAssets       money.Amount                  `json:"total_assets"`
	AvailableCash     money.Amount                  `json:"available_cash"`
	MarketValue       money.Amount                  `json:"market_value"`
	DailyProfitLoss   money.Amount                  `json:"daily_profit_loss"`
	DailyReturnPct    money.Amount                  `json:"daily_return_pct"`
	TotalReturnPct    money.Amount                  `json:"total_return_pct"`
	PositionsSnapshot map[string]portfolio.Position `json:"positions_snapshot"`
}

// HeldPositions reports whether anything was held when the snapshot was taken.
func (s DailySnapshot) HeldPositions() bool {
	return len(s.PositionsSnapshot) > 0
}

// Series maps a YYYY-MM-DD date to its snapshot. Dates are unique.
type Series map[string]DailySnapshot

// Dates returns the series dates in ascending order.
func (s Series) Dates() []string {
	return slices.Sorted(maps.Keys(s))
}

// Sorted returns the snapshots in ascending date order.
func (s Series) Sorted() []DailySnapshot {
	dates := s.Dates()
	out := make([]DailySnapshot, 0, len(dates))
	for _, d := range dates {
		out = append(out, s[d])
	}
	return out
}

// Previous returns the latest snapshot strictly before date.
func (s Series) Previous(date string) (DailySnapshot, bool) {
	var (
		best  DailySnapshot
		found bool
	)
	for d, snap := range s {
		if d >= date {
			continue
		}
		if !found || d > best.Date {
			best, found = snap, true
		}
	}
	return best, found
}

// Latest returns up to n of the most recent snapshots in ascending order.
// n <= 0 returns all of them.
func (s Series) Latest(n int) []DailySnapshot {
	all := s.Sorted()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Take captures acct as of now and stores it in the series, replacing any
// snapshot already taken today. The first snapshot of a series has zero
// daily deltas.
func Take(acct *portfolio.Account, series Series, now time.Time) DailySnapshot {
	date := now.Format(portfolio.DateLayout)
	assets := acct.TotalAssets()

	positions := make(map[string]portfolio.Position, len(acct.Positions))
	for code, p := range acct.Positions {
		positions[code] = *p
	}

	snap := DailySnapshot{
		Date:              date,
		TotalAssets:       assets,
		AvailableCash:     acct.AvailableCash,
		MarketValue:       acct.TotalMarketValue(),
		DailyProfitLoss:   money.Zero,
		DailyReturnPct:    money.Zero,
		TotalReturnPct:    acct.TotalReturnPct(),
		PositionsSnapshot: positions,
	}
	if prev, ok := series.Previous(date); ok {
		snap.DailyProfitLoss = assets.Sub(prev.TotalAssets)
		snap.DailyReturnPct = snap.DailyProfitLoss.Pct(prev.TotalAssets)
	}
	series[date] = snap
	return snap
}
