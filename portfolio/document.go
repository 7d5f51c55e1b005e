package portfolio

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/money"
)

// Document is the persisted form of an Account. Field names are stable.
type Document struct {
	InitialCapital       money.Amount        `json:"initial_capital"`
	AvailableCash        money.Amount        `json:"available_cash"`
	MaxSinglePositionPct money.Amount        `json:"max_single_position_pct"`
	StopLossPct          money.Amount        `json:"stop_loss_pct"`
	TakeProfitPct        money.Amount        `json:"take_profit_pct"`
	MaxTotalPositionPct  money.Amount        `json:"max_total_position_pct"`
	CommissionRate       money.Amount        `json:"commission_rate"`
	StampDutyRate        money.Amount        `json:"stamp_duty_rate"`
	MinCommission        money.Amount        `json:"min_commission"`
	Positions            map[string]Position `json:"positions"`
	CreatedAt            string              `json:"created_at"`
	UpdatedAt            string              `json:"updated_at"`
}

// rawDocument mirrors Document with optional fields so absent keys can be
// told apart from zero values.
type rawDocument struct {
	InitialCapital       *money.Amount           `json:"initial_capital"`
	AvailableCash        *money.Amount           `json:"available_cash"`
	MaxSinglePositionPct *money.Amount           `json:"max_single_position_pct"`
	StopLossPct          *money.Amount           `json:"stop_loss_pct"`
	TakeProfitPct        *money.Amount           `json:"take_profit_pct"`
	MaxTotalPositionPct  *money.Amount           `json:"max_total_position_pct"`
	CommissionRate       *money.Amount           `json:"commission_rate"`
	StampDutyRate        *money.Amount           `json:"stamp_duty_rate"`
	MinCommission        *money.Amount           `json:"min_commission"`
	Positions            map[string]*rawPosition `json:"positions"`
	CreatedAt            *string                 `json:"created_at"`
	UpdatedAt            *string                 `json:"updated_at"`
}

type rawPosition struct {
	Code         *string       `json:"code"`
	Name         string        `json:"name"`
	Shares       *int64        `json:"shares"`
	CostPrice    *money.Amount `json:"cost_price"`
	CurrentPrice *money.Amount `json:"current_price"`
	BuyDate      string        `json:"buy_date"`
	LastUpdate   string        `json:"last_update"`
	Notes        string        `json:"notes"`
}

// Document converts the account to its persisted form.
func (a *Account) Document() Document {
	positions := make(map[string]Position, len(a.Positions))
	for code, p := range a.Positions {
		positions[code] = *p
	}
	return Document{
		InitialCapital:       a.InitialCapital,
		AvailableCash:        a.AvailableCash,
		MaxSinglePositionPct: a.Risk.MaxSinglePositionPct,
		StopLossPct:          a.Risk.StopLossPct,
		TakeProfitPct:        a.Risk.TakeProfitPct,
		MaxTotalPositionPct:  a.Risk.MaxTotalPositionPct,
		CommissionRate:       a.Fees.CommissionRate,
		StampDutyRate:        a.Fees.StampDutyRate,
		MinCommission:        a.Fees.MinCommission,
		Positions:            positions,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// MarshalJSON writes the account document.
func (a *Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Document())
}

// DecodeAccount parses an account document. Missing fields are filled from
// defaults and every substitution is logged. Positions with no shares are
// dropped. A document that is not valid JSON returns an error; the caller
// decides how to fall back.
func DecodeAccount(data []byte, defaults Settings, now time.Time, log *zap.Logger) (*Account, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode account document: %w", err)
	}

	fill := func(field string, v *money.Amount, def money.Amount) money.Amount {
		if v == nil {
			log.Warn("account document field missing, using default",
				zap.String("field", field), zap.String("default", def.String()))
			return def
		}
		return *v
	}

	a := &Account{
		InitialCapital: fill("initial_capital", raw.InitialCapital, defaults.InitialCapital),
		Risk: RiskParams{
			MaxSinglePositionPct: fill("max_single_position_pct", raw.MaxSinglePositionPct, defaults.Risk.MaxSinglePositionPct),
			StopLossPct:          fill("stop_loss_pct", raw.StopLossPct, defaults.Risk.StopLossPct),
			TakeProfitPct:        fill("take_profit_pct", raw.TakeProfitPct, defaults.Risk.TakeProfitPct),
			MaxTotalPositionPct:  fill("max_total_position_pct", raw.MaxTotalPositionPct, defaults.Risk.MaxTotalPositionPct),
		},
		Fees: FeeSchedule{
			CommissionRate: fill("commission_rate", raw.CommissionRate, defaults.Fees.CommissionRate),
			MinCommission:  fill("min_commission", raw.MinCommission, defaults.Fees.MinCommission),
			StampDutyRate:  fill("stamp_duty_rate", raw.StampDutyRate, defaults.Fees.StampDutyRate),
		},
		Positions: make(map[string]*Position, len(raw.Positions)),
	}
	// Cash defaults to the (possibly defaulted) initial capital.
	a.AvailableCash = fill("available_cash", raw.AvailableCash, a.InitialCapital)

	ts := now.Format(TimestampLayout)
	if raw.CreatedAt == nil || *raw.CreatedAt == "" {
		log.Warn("account document field missing, using default",
			zap.String("field", "created_at"), zap.String("default", ts))
		a.CreatedAt = ts
	} else {
		a.CreatedAt = *raw.CreatedAt
	}
	if raw.UpdatedAt == nil || *raw.UpdatedAt == "" {
		a.UpdatedAt = ts
	} else {
		a.UpdatedAt = *raw.UpdatedAt
	}

	for key, rp := range raw.Positions {
		if rp == nil {
			log.Warn("dropping empty position entry", zap.String("symbol", key))
			continue
		}
		p := Position{
			Code:       key,
			Name:       rp.Name,
			BuyDate:    rp.BuyDate,
			LastUpdate: rp.LastUpdate,
			Notes:      rp.Notes,
		}
		if rp.Code != nil && *rp.Code != "" && *rp.Code != key {
			log.Warn("position code differs from its key, using key",
				zap.String("symbol", key), zap.String("code", *rp.Code))
		}
		if rp.Shares == nil || *rp.Shares <= 0 {
			log.Warn("dropping position without shares", zap.String("symbol", key))
			continue
		}
		p.Shares = *rp.Shares
		if rp.CostPrice == nil {
			log.Warn("position field missing, using default",
				zap.String("symbol", key), zap.String("field", "cost_price"), zap.String("default", "0"))
		} else {
			p.CostPrice = *rp.CostPrice
		}
		if rp.CurrentPrice == nil {
			log.Warn("position field missing, using cost price",
				zap.String("symbol", key), zap.String("field", "current_price"))
			p.CurrentPrice = p.CostPrice
		} else {
			p.CurrentPrice = *rp.CurrentPrice
		}
		a.Positions[key] = &p
	}
	return a, nil
}
