package portfolio

import "github.com/rustyeddy/papertrade/money"

// FeeSchedule describes trading costs. Stamp duty is only charged on the
// sell side.
type FeeSchedule struct {
	CommissionRate money.Amount `json:"commission_rate" yaml:"commission_rate"`
	MinCommission  money.Amount `json:"min_commission" yaml:"min_commission"`
	StampDutyRate  money.Amount `json:"stamp_duty_rate" yaml:"stamp_duty_rate"`
}

// Commission is max(amount * rate, minimum).
func (f FeeSchedule) Commission(amount money.Amount) money.Amount {
	return money.Max(amount.Mul(f.CommissionRate), f.MinCommission)
}

func (f FeeSchedule) StampDuty(amount money.Amount) money.Amount {
	return amount.Mul(f.StampDutyRate)
}
