package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/portfolio"
)

var now = time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC)

// holding books a position at cost and marks it at quote without moving cash.
func holding(t *testing.T, a *portfolio.Account, code string, shares int64, cost, quote float64) {
	t.Helper()
	_, err := a.Acquire(code, "name-"+code, shares, money.New(cost), "", now)
	require.NoError(t, err)
	require.True(t, a.SetQuote(code, money.New(quote), now))
}

func kinds(alerts []Alert) []Kind {
	out := make([]Kind, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Kind)
	}
	return out
}

func TestEvaluateNoPositions(t *testing.T) {
	t.Parallel()

	a := portfolio.NewAccount(portfolio.DefaultSettings(), now)
	assert.Empty(t, Evaluate(a))
}

func TestEvaluateThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		quote float64
		want  []Kind
		sev   Severity
	}{
		{"exactly at stop loss", 9.2, []Kind{StopLoss}, Danger},
		{"below stop loss", 8.0, []Kind{StopLoss}, Danger},
		{"stop loss warning band", 9.4, []Kind{StopLossWarning}, Warning},
		{"just inside warning band", 9.44, []Kind{StopLossWarning}, Warning},
		{"quiet loss", 9.5, nil, ""},
		{"flat", 10, nil, ""},
		{"take profit warning band", 11.6, []Kind{TakeProfitWarning}, Info},
		{"exactly at take profit", 12, []Kind{TakeProfit}, Success},
		{"above take profit", 15, []Kind{TakeProfit}, Success},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := portfolio.NewAccount(portfolio.DefaultSettings(), now)
			holding(t, a, "AAA", 100, 10, tt.quote)

			got := Evaluate(a)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, kinds(got))
			assert.Equal(t, tt.sev, got[0].Severity)
			assert.Equal(t, "AAA", got[0].Symbol)
			assert.Equal(t, "name-AAA", got[0].Name)
			assert.NotEmpty(t, got[0].Message)
			assert.NotEmpty(t, got[0].Action)
		})
	}
}

func TestEvaluateOrderAndAccountLimit(t *testing.T) {
	t.Parallel()

	a := portfolio.NewAccount(portfolio.DefaultSettings(), now)
	_, err := a.Buy("CCC", "C", 4000, money.New(10), "", now)
	require.NoError(t, err)
	_, err = a.Buy("AAA", "A", 4000, money.New(10), "", now)
	require.NoError(t, err)
	require.True(t, a.SetQuote("CCC", money.New(12.5), now))
	require.True(t, a.SetQuote("AAA", money.New(9), now))

	got := Evaluate(a)
	require.Equal(t, []Kind{StopLoss, TakeProfit, PositionLimit}, kinds(got))
	assert.Equal(t, "AAA", got[0].Symbol)
	assert.Equal(t, "CCC", got[1].Symbol)

	limit := got[2]
	assert.Empty(t, limit.Symbol)
	assert.Equal(t, AccountName, limit.Name)
	assert.Equal(t, Warning, limit.Severity)
	assert.True(t, limit.Threshold.Equal(money.FromInt(80)))
}

func TestEvaluateIsPure(t *testing.T) {
	t.Parallel()

	a := portfolio.NewAccount(portfolio.DefaultSettings(), now)
	holding(t, a, "AAA", 100, 10, 9)
	holding(t, a, "BBB", 100, 10, 11.7)
	before := a.Clone()

	first := Evaluate(a)
	second := Evaluate(a)
	assert.Equal(t, first, second)
	assert.True(t, a.AvailableCash.Equal(before.AvailableCash))
	assert.Len(t, a.Positions, len(before.Positions))
}
