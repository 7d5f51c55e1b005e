package portfolio

import "github.com/rustyeddy/papertrade/money"

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Position is one symbol's holding, costed at the weighted-average price
// of every acquisition.
type Position struct {
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	Shares       int64        `json:"shares"`
	CostPrice    money.Amount `json:"cost_price"`
	CurrentPrice money.Amount `json:"current_price"`
	BuyDate      string       `json:"buy_date"`
	LastUpdate   string       `json:"last_update"`
	Notes        string       `json:"notes"`
}

// CostAmount is shares * cost price.
func (p Position) CostAmount() money.Amount {
	return p.CostPrice.MulInt(p.Shares)
}

// MarketValue is shares * current price.
func (p Position) MarketValue() money.Amount {
	return p.CurrentPrice.MulInt(p.Shares)
}

func (p Position) ProfitLoss() money.Amount {
	return p.MarketValue().Sub(p.CostAmount())
}

// ProfitLossPct is the unrealized P/L as a percentage of cost, 0 when the
// cost amount is 0.
func (p Position) ProfitLossPct() money.Amount {
	return p.ProfitLoss().Pct(p.CostAmount())
}
