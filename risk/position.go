package risk

import (
	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/portfolio"
)

// Capacity is how many more shares of a symbol can be bought at a price
// before each limit binds.
type Capacity struct {
	Symbol        string       `json:"code"`
	Price         money.Amount `json:"price"`
	BySingleLimit int64        `json:"by_single_limit"`
	ByTotalLimit  int64        `json:"by_total_limit"`
	ByCash        int64        `json:"by_cash"`
	Shares        int64        `json:"shares"`
	Amount        money.Amount `json:"amount"`
}

// Size computes the largest acquisition of symbol at price that keeps the
// single-position weight, the total position ratio and available cash (fees
// included) within bounds. Results are rounded down to a multiple of lot;
// lot <= 0 means single shares.
func Size(acct *portfolio.Account, symbol string, price money.Amount, lot int64) Capacity {
	if lot <= 0 {
		lot = 1
	}
	c := Capacity{Symbol: symbol, Price: price}
	if !price.IsPositive() {
		return c
	}

	assets := acct.TotalAssets()
	held := money.Zero
	if p, ok := acct.Position(symbol); ok {
		held = p.MarketValue()
	}

	single := assets.Mul(acct.Risk.MaxSinglePositionPct).Div(money.FromInt(100)).Sub(held)
	total := assets.Mul(acct.Risk.MaxTotalPositionPct).Div(money.FromInt(100)).Sub(acct.TotalMarketValue())

	c.BySingleLimit = sharesFor(single, price, lot)
	c.ByTotalLimit = sharesFor(total, price, lot)
	c.ByCash = affordable(acct, price, lot)

	c.Shares = min(c.BySingleLimit, c.ByTotalLimit, c.ByCash)
	c.Amount = price.MulInt(c.Shares)
	return c
}

func sharesFor(budget, price money.Amount, lot int64) int64 {
	if !budget.IsPositive() {
		return 0
	}
	n := budget.Div(price).IntPart()
	return n - n%lot
}

// affordable is the share count whose cost plus commission fits in cash.
func affordable(acct *portfolio.Account, price money.Amount, lot int64) int64 {
	rate := acct.Fees.CommissionRate.Add(money.FromInt(1))
	n := sharesFor(acct.AvailableCash, price.Mul(rate), lot)
	for n > 0 {
		q := acct.QuoteBuy(n, price)
		if q.Amount.Add(q.Commission).LessThanOrEqual(acct.AvailableCash) {
			break
		}
		n -= lot
	}
	return n
}
