package portfolio

import (
	"maps"
	"slices"
	"time"

	"github.com/rustyeddy/papertrade/money"
)

// RiskParams are the thresholds the alert evaluator checks against.
// All values are percentages (8 means 8%).
type RiskParams struct {
	MaxSinglePositionPct money.Amount `json:"max_single_position_pct" yaml:"max_single_position_pct"`
	StopLossPct          money.Amount `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct        money.Amount `json:"take_profit_pct" yaml:"take_profit_pct"`
	MaxTotalPositionPct  money.Amount `json:"max_total_position_pct" yaml:"max_total_position_pct"`
}

// Settings seed a fresh account.
type Settings struct {
	InitialCapital money.Amount
	Risk           RiskParams
	Fees           FeeSchedule
}

// DefaultSettings mirror a typical A-share retail account: 100k capital,
// 0.03% commission with a 5 minimum and 0.1% sell-side stamp duty.
func DefaultSettings() Settings {
	return Settings{
		InitialCapital: money.FromInt(100000),
		Risk: RiskParams{
			MaxSinglePositionPct: money.FromInt(30),
			StopLossPct:          money.FromInt(8),
			TakeProfitPct:        money.FromInt(20),
			MaxTotalPositionPct:  money.FromInt(80),
		},
		Fees: FeeSchedule{
			CommissionRate: money.New(0.0003),
			MinCommission:  money.FromInt(5),
			StampDutyRate:  money.New(0.001),
		},
	}
}

// Account is one simulated trading account. It exclusively owns its
// positions; a symbol with zero shares is never kept.
type Account struct {
	InitialCapital money.Amount
	AvailableCash  money.Amount
	Risk           RiskParams
	Fees           FeeSchedule
	Positions      map[string]*Position
	CreatedAt      string
	UpdatedAt      string
}

// NewAccount creates an account holding only cash.
func NewAccount(s Settings, now time.Time) *Account {
	ts := now.Format(TimestampLayout)
	return &Account{
		InitialCapital: s.InitialCapital,
		AvailableCash:  s.InitialCapital,
		Risk:           s.Risk,
		Fees:           s.Fees,
		Positions:      make(map[string]*Position),
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
}

// Position returns a copy of the holding for symbol.
func (a *Account) Position(symbol string) (Position, bool) {
	p, ok := a.Positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Holds reports whether symbol is currently held.
func (a *Account) Holds(symbol string) bool {
	_, ok := a.Positions[symbol]
	return ok
}

// Holdings returns copies of all positions ordered by symbol code.
func (a *Account) Holdings() []Position {
	out := make([]Position, 0, len(a.Positions))
	for _, code := range slices.Sorted(maps.Keys(a.Positions)) {
		out = append(out, *a.Positions[code])
	}
	return out
}

func (a *Account) TotalCost() money.Amount {
	total := money.Zero
	for _, p := range a.Positions {
		total = total.Add(p.CostAmount())
	}
	return total
}

func (a *Account) TotalMarketValue() money.Amount {
	total := money.Zero
	for _, p := range a.Positions {
		total = total.Add(p.MarketValue())
	}
	return total
}

func (a *Account) TotalProfitLoss() money.Amount {
	return a.TotalMarketValue().Sub(a.TotalCost())
}

// TotalProfitLossPct is unrealized P/L over total cost.
func (a *Account) TotalProfitLossPct() money.Amount {
	return a.TotalProfitLoss().Pct(a.TotalCost())
}

// TotalAssets is available cash plus market value.
func (a *Account) TotalAssets() money.Amount {
	return a.AvailableCash.Add(a.TotalMarketValue())
}

// TotalReturnPct measures total assets against initial capital.
func (a *Account) TotalReturnPct() money.Amount {
	return a.TotalAssets().Sub(a.InitialCapital).Pct(a.InitialCapital)
}

// PositionRatio is the percentage of total assets invested.
func (a *Account) PositionRatio() money.Amount {
	return a.TotalMarketValue().Pct(a.TotalAssets())
}

// Weight is one position's market value as a percentage of total assets.
func (a *Account) Weight(symbol string) money.Amount {
	p, ok := a.Positions[symbol]
	if !ok {
		return money.Zero
	}
	return p.MarketValue().Pct(a.TotalAssets())
}

// Clone returns a deep copy, used when a caller needs a stable view.
func (a *Account) Clone() *Account {
	c := *a
	c.Positions = make(map[string]*Position, len(a.Positions))
	for code, p := range a.Positions {
		cp := *p
		c.Positions[code] = &cp
	}
	return &c
}

// Touch stamps the update time.
func (a *Account) Touch(now time.Time) {
	a.UpdatedAt = now.Format(TimestampLayout)
}
