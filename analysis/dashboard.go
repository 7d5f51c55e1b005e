package analysis

import (
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/portfolio"
	"github.com/rustyeddy/papertrade/snapshot"
)

// DashboardDays is how many recent daily returns the dashboard shows.
const DashboardDays = 7

type DashboardSummary struct {
	portfolio.Summary
	DailyProfitLoss money.Amount `json:"daily_profit_loss"`
	DailyReturnPct  money.Amount `json:"daily_return_pct"`
}

// Dashboard is the one-page overview of the account.
type Dashboard struct {
	Summary      DashboardSummary `json:"summary"`
	DailyReturns []DayResult      `json:"daily_returns"`
	TradeStats   journal.Stats    `json:"trade_stats"`
}

// BuildDashboard combines the live account with today's snapshot, the last
// week of daily returns and journal counts. Without a snapshot for today the
// daily figures are zero.
func BuildDashboard(acct *portfolio.Account, series snapshot.Series, trades []journal.Trade, today string) Dashboard {
	d := Dashboard{
		Summary: DashboardSummary{
			Summary:         acct.Summary(),
			DailyProfitLoss: money.Zero,
			DailyReturnPct:  money.Zero,
		},
		TradeStats: journal.Count(trades),
	}
	if snap, ok := series[today]; ok {
		d.Summary.DailyProfitLoss = snap.DailyProfitLoss
		d.Summary.DailyReturnPct = snap.DailyReturnPct
	}

	recent := series.Latest(DashboardDays)
	d.DailyReturns = make([]DayResult, 0, len(recent))
	for _, s := range recent {
		d.DailyReturns = append(d.DailyReturns, DayResult{
			Date:            s.Date,
			TotalAssets:     s.TotalAssets,
			DailyProfitLoss: s.DailyProfitLoss,
			DailyReturnPct:  s.DailyReturnPct,
		})
	}
	return d
}
