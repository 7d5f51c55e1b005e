// Package risk evaluates an account against its risk thresholds.
package risk

import (
	"fmt"

	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/portfolio"
)

// Kind discriminates alerts.
type Kind string

const (
	StopLoss          Kind = "stop_loss"
	StopLossWarning   Kind = "stop_loss_warning"
	TakeProfit        Kind = "take_profit"
	TakeProfitWarning Kind = "take_profit_warning"
	PositionLimit     Kind = "position_limit"
)

type Severity string

const (
	Danger  Severity = "danger"
	Warning Severity = "warning"
	Success Severity = "success"
	Info    Severity = "info"
)

// Warning bands, as fractions of the configured thresholds.
var (
	stopLossBand   = money.New(0.7)
	takeProfitBand = money.New(0.8)
)

// AccountName is the display name of account-level alerts.
const AccountName = "Total position"

// Alert is one breached or nearly breached threshold. Symbol is empty for
// account-level alerts.
type Alert struct {
	Kind      Kind         `json:"type"`
	Severity  Severity     `json:"level"`
	Symbol    string       `json:"code"`
	Name      string       `json:"name"`
	Message   string       `json:"message"`
	Action    string       `json:"action"`
	Value     money.Amount `json:"value"`
	Threshold money.Amount `json:"threshold"`
}

// Evaluate checks every held position, in symbol order, then the aggregate
// position ratio. It does not modify acct.
func Evaluate(acct *portfolio.Account) []Alert {
	var alerts []Alert
	rp := acct.Risk

	stop := rp.StopLossPct.Neg()
	stopWarn := rp.StopLossPct.Mul(stopLossBand).Neg()
	take := rp.TakeProfitPct
	takeWarn := rp.TakeProfitPct.Mul(takeProfitBand)

	for _, p := range acct.Holdings() {
		pct := p.ProfitLossPct()

		switch {
		case pct.LessThanOrEqual(stop):
			alerts = append(alerts, positionAlert(p, StopLoss, Danger, stop,
				fmt.Sprintf("%s(%s) hit the stop-loss line, loss %s%%", p.Name, p.Code, pct.StringFixed(2)),
				"Cut the loss and sell"))
		case pct.LessThanOrEqual(stopWarn):
			alerts = append(alerts, positionAlert(p, StopLossWarning, Warning, stopWarn,
				fmt.Sprintf("%s(%s) is near the stop-loss line, loss %s%%", p.Name, p.Code, pct.StringFixed(2)),
				"Watch closely, prepare to stop out"))
		}

		switch {
		case pct.GreaterThanOrEqual(take):
			alerts = append(alerts, positionAlert(p, TakeProfit, Success, take,
				fmt.Sprintf("%s(%s) reached the take-profit target, gain %s%%", p.Name, p.Code, pct.StringFixed(2)),
				"Take profit in stages"))
		case pct.GreaterThanOrEqual(takeWarn):
			alerts = append(alerts, positionAlert(p, TakeProfitWarning, Info, takeWarn,
				fmt.Sprintf("%s(%s) is near the take-profit target, gain %s%%", p.Name, p.Code, pct.StringFixed(2)),
				"Consider taking partial profit"))
		}
	}

	ratio := acct.PositionRatio()
	if ratio.GreaterThanOrEqual(rp.MaxTotalPositionPct) {
		alerts = append(alerts, Alert{
			Kind:      PositionLimit,
			Severity:  Warning,
			Name:      AccountName,
			Message:   fmt.Sprintf("Total position %s%% reached the limit %s%%", ratio.StringFixed(1), rp.MaxTotalPositionPct.String()),
			Action:    "Do not add to positions",
			Value:     ratio,
			Threshold: rp.MaxTotalPositionPct,
		})
	}
	return alerts
}

func positionAlert(p portfolio.Position, k Kind, s Severity, threshold money.Amount, msg, action string) Alert {
	return Alert{
		Kind:      k,
		Severity:  s,
		Symbol:    p.Code,
		Name:      p.Name,
		Message:   msg,
		Action:    action,
		Value:     p.ProfitLossPct(),
		Threshold: threshold,
	}
}
