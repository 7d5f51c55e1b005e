package portfolio

import "github.com/rustyeddy/papertrade/money"

// PositionRow is one line of the holdings table handed to report renderers
// and the advice prompt builder.
type PositionRow struct {
	Code          string       `json:"code"`
	Name          string       `json:"name"`
	Shares        int64        `json:"shares"`
	CostPrice     money.Amount `json:"cost_price"`
	CurrentPrice  money.Amount `json:"current_price"`
	MarketValue   money.Amount `json:"market_value"`
	ProfitLoss    money.Amount `json:"profit_loss"`
	ProfitLossPct money.Amount `json:"profit_loss_pct"`
	WeightPct     money.Amount `json:"weight_pct"`
}

// Summary is the account's computed state at a point in time.
type Summary struct {
	InitialCapital     money.Amount  `json:"initial_capital"`
	AvailableCash      money.Amount  `json:"available_cash"`
	TotalMarketValue   money.Amount  `json:"total_market_value"`
	TotalAssets        money.Amount  `json:"total_assets"`
	TotalCost          money.Amount  `json:"total_cost"`
	TotalProfitLoss    money.Amount  `json:"total_profit_loss"`
	TotalProfitLossPct money.Amount  `json:"total_profit_loss_pct"`
	TotalReturnPct     money.Amount  `json:"total_return_pct"`
	PositionRatio      money.Amount  `json:"position_ratio"`
	PositionCount      int           `json:"position_count"`
	Positions          []PositionRow `json:"positions"`
	RiskParams         RiskParams    `json:"risk_params"`
}

// Summary computes aggregate metrics and per-position rows.
func (a *Account) Summary() Summary {
	holdings := a.Holdings()
	rows := make([]PositionRow, 0, len(holdings))
	assets := a.TotalAssets()
	for _, p := range holdings {
		rows = append(rows, PositionRow{
			Code:          p.Code,
			Name:          p.Name,
			Shares:        p.Shares,
			CostPrice:     p.CostPrice,
			CurrentPrice:  p.CurrentPrice,
			MarketValue:   p.MarketValue(),
			ProfitLoss:    p.ProfitLoss(),
			ProfitLossPct: p.ProfitLossPct(),
			WeightPct:     p.MarketValue().Pct(assets),
		})
	}
	return Summary{
		InitialCapital:     a.InitialCapital,
		AvailableCash:      a.AvailableCash,
		TotalMarketValue:   a.TotalMarketValue(),
		TotalAssets:        assets,
		TotalCost:          a.TotalCost(),
		TotalProfitLoss:    a.TotalProfitLoss(),
		TotalProfitLossPct: a.TotalProfitLossPct(),
		TotalReturnPct:     a.TotalReturnPct(),
		PositionRatio:      a.PositionRatio(),
		PositionCount:      len(holdings),
		Positions:          rows,
		RiskParams:         a.Risk,
	}
}
