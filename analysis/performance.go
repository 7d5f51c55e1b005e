// Package analysis computes read-only reports over the snapshot series and
// trade journal.
package analysis

import (
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/snapshot"
)

// DefaultReportDays is the window used when the caller does not pick one.
const DefaultReportDays = 7

// DayResult is one row of the day-by-day listing.
type DayResult struct {
	Date            string       `json:"date"`
	TotalAssets     money.Amount `json:"total_assets"`
	DailyProfitLoss money.Amount `json:"daily_profit_loss"`
	DailyReturnPct  money.Amount `json:"daily_return_pct"`
}

// Report covers the most recent window of snapshots.
type Report struct {
	Days                int           `json:"days"`
	From                string        `json:"from"`
	To                  string        `json:"to"`
	StartAssets         money.Amount  `json:"start_assets"`
	EndAssets           money.Amount  `json:"end_assets"`
	WindowProfitLoss    money.Amount  `json:"window_profit_loss"`
	WindowReturnPct     money.Amount  `json:"window_return_pct"`
	CumulativeReturnPct money.Amount  `json:"cumulative_return_pct"`
	UpDays              int           `json:"up_days"`
	DownDays            int           `json:"down_days"`
	Best                *DayResult    `json:"best_day,omitempty"`
	Worst               *DayResult    `json:"worst_day,omitempty"`
	Daily               []DayResult   `json:"daily"`
	Trades              journal.Stats `json:"trades"`
}

// Performance reports on the last days snapshots, or all of them when fewer
// exist. StartAssets is the total before the window's first day, so the
// window return covers that day's change too. Trades dated inside the window
// are counted.
func Performance(series snapshot.Series, days int, trades []journal.Trade) Report {
	if days <= 0 {
		days = DefaultReportDays
	}
	window := series.Latest(days)
	r := Report{
		Days:                days,
		StartAssets:         money.Zero,
		EndAssets:           money.Zero,
		WindowProfitLoss:    money.Zero,
		WindowReturnPct:     money.Zero,
		CumulativeReturnPct: money.Zero,
		Daily:               make([]DayResult, 0, len(window)),
	}
	if len(window) == 0 {
		return r
	}

	first, last := window[0], window[len(window)-1]
	r.From, r.To = first.Date, last.Date
	r.EndAssets = last.TotalAssets
	r.CumulativeReturnPct = last.TotalReturnPct

	for _, s := range window {
		d := DayResult{
			Date:            s.Date,
			TotalAssets:     s.TotalAssets,
			DailyProfitLoss: s.DailyProfitLoss,
			DailyReturnPct:  s.DailyReturnPct,
		}
		r.Daily = append(r.Daily, d)
		r.WindowProfitLoss = r.WindowProfitLoss.Add(s.DailyProfitLoss)

		switch {
		case s.DailyProfitLoss.IsPositive():
			r.UpDays++
		case s.DailyProfitLoss.IsNegative():
			r.DownDays++
		}
		if r.Best == nil || d.DailyReturnPct.GreaterThan(r.Best.DailyReturnPct) {
			best := d
			r.Best = &best
		}
		if r.Worst == nil || d.DailyReturnPct.LessThan(r.Worst.DailyReturnPct) {
			worst := d
			r.Worst = &worst
		}
	}
	r.StartAssets = last.TotalAssets.Sub(r.WindowProfitLoss)
	r.WindowReturnPct = r.WindowProfitLoss.Pct(r.StartAssets)

	var inWindow []journal.Trade
	for _, t := range trades {
		if t.Date >= r.From && t.Date <= r.To {
			inWindow = append(inWindow, t)
		}
	}
	r.Trades = journal.Count(inWindow)
	return r
}
