package portfolio

import (
	"fmt"
	"time"

	"github.com/rustyeddy/papertrade/money"
)

// Fill describes the cash effect of one acquisition or disposal.
type Fill struct {
	Symbol     string
	Name       string
	Shares     int64
	Price      money.Amount
	Amount     money.Amount // shares * price
	Commission money.Amount
	StampDuty  money.Amount

	// Disposals only.
	RealizedCost money.Amount // shares * pre-disposal cost price
	NetProfit    money.Amount
	Closed       bool // the position was fully closed
}

func validateOrder(symbol string, shares int64, price money.Amount) error {
	if symbol == "" {
		return ErrMissingSymbol
	}
	if shares <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, shares)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrInvalidPrice, price)
	}
	return nil
}

// Acquire books shares into the ledger at price without touching cash.
// An existing position is re-costed at the weighted average of old and new
// shares; the note is only overwritten when non-empty.
func (a *Account) Acquire(symbol, name string, shares int64, price money.Amount, note string, now time.Time) (Position, error) {
	if err := validateOrder(symbol, shares, price); err != nil {
		return Position{}, err
	}
	ts := now.Format(TimestampLayout)

	if p, ok := a.Positions[symbol]; ok {
		totalCost := p.CostAmount().Add(price.MulInt(shares))
		totalShares := p.Shares + shares
		p.CostPrice = totalCost.Div(money.FromInt(totalShares))
		p.Shares = totalShares
		p.LastUpdate = ts
		if note != "" {
			p.Notes = note
		}
		if name != "" && p.Name == "" {
			p.Name = name
		}
		a.Touch(now)
		return *p, nil
	}

	p := &Position{
		Code:         symbol,
		Name:         name,
		Shares:       shares,
		CostPrice:    price,
		CurrentPrice: price,
		BuyDate:      now.Format(DateLayout),
		LastUpdate:   ts,
		Notes:        note,
	}
	if a.Positions == nil {
		a.Positions = make(map[string]*Position)
	}
	a.Positions[symbol] = p
	a.Touch(now)
	return *p, nil
}

// QuoteBuy prices an acquisition without applying it.
func (a *Account) QuoteBuy(shares int64, price money.Amount) Fill {
	amount := price.MulInt(shares)
	return Fill{
		Shares:     shares,
		Price:      price,
		Amount:     amount,
		Commission: a.Fees.Commission(amount),
		StampDuty:  money.Zero,
	}
}

// Buy acquires shares and pays amount + commission out of available cash.
// It is rejected with ErrInsufficientCash, leaving the account untouched,
// when cash would go negative.
func (a *Account) Buy(symbol, name string, shares int64, price money.Amount, note string, now time.Time) (Fill, error) {
	if err := validateOrder(symbol, shares, price); err != nil {
		return Fill{}, err
	}
	fill := a.QuoteBuy(shares, price)
	fill.Symbol = symbol
	fill.Name = name

	cost := fill.Amount.Add(fill.Commission)
	if cost.GreaterThan(a.AvailableCash) {
		return Fill{}, fmt.Errorf("%w: need %s, available %s",
			ErrInsufficientCash, cost.StringFixed(2), a.AvailableCash.StringFixed(2))
	}

	pos, err := a.Acquire(symbol, name, shares, price, note, now)
	if err != nil {
		return Fill{}, err
	}
	a.AvailableCash = a.AvailableCash.Sub(cost)
	if fill.Name == "" {
		fill.Name = pos.Name
	}
	return fill, nil
}

// Dispose sells shares of a held symbol at price. Realized cost uses the
// pre-disposal weighted-average cost price. Proceeds less commission and
// stamp duty are credited to cash and the position is removed once its
// shares reach zero.
func (a *Account) Dispose(symbol string, shares int64, price money.Amount, now time.Time) (Fill, error) {
	if err := validateOrder(symbol, shares, price); err != nil {
		return Fill{}, err
	}
	p, ok := a.Positions[symbol]
	if !ok {
		return Fill{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	if shares > p.Shares {
		return Fill{}, fmt.Errorf("%w: selling %d of %s, holding %d",
			ErrInsufficientShares, shares, symbol, p.Shares)
	}

	proceeds := price.MulInt(shares)
	cost := p.CostPrice.MulInt(shares)
	commission := a.Fees.Commission(proceeds)
	stampDuty := a.Fees.StampDuty(proceeds)

	fill := Fill{
		Symbol:       symbol,
		Name:         p.Name,
		Shares:       shares,
		Price:        price,
		Amount:       proceeds,
		Commission:   commission,
		StampDuty:    stampDuty,
		RealizedCost: cost,
		NetProfit:    proceeds.Sub(cost).Sub(commission).Sub(stampDuty),
	}

	p.Shares -= shares
	p.LastUpdate = now.Format(TimestampLayout)
	a.AvailableCash = a.AvailableCash.Add(proceeds.Sub(commission).Sub(stampDuty))
	if p.Shares == 0 {
		delete(a.Positions, symbol)
		fill.Closed = true
	}
	a.Touch(now)
	return fill, nil
}

// SetQuote records the latest price for a held symbol. Quotes for symbols
// no longer held are ignored and reported as false.
func (a *Account) SetQuote(symbol string, price money.Amount, now time.Time) bool {
	p, ok := a.Positions[symbol]
	if !ok {
		return false
	}
	p.CurrentPrice = price
	p.LastUpdate = now.Format(TimestampLayout)
	a.Touch(now)
	return true
}
