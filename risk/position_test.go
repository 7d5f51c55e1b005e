package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/money"
	"github.com/rustyeddy/papertrade/portfolio"
)

func TestSizeFreshAccount(t *testing.T) {
	t.Parallel()

	a := portfolio.NewAccount(portfolio.DefaultSettings(), now)
	c := Size(a, "AAA", money.New(10), 100)

	assert.Equal(t, int64(3000), c.BySingleLimit)
	assert.Equal(t, int64(8000), c.ByTotalLimit)
	assert.Equal(t, int64(9900), c.ByCash)
	assert.Equal(t, int64(3000), c.Shares)
	assert.True(t, c.Amount.Equal(money.FromInt(30000)))
}

func TestSizeAccountsForExistingHolding(t *testing.T) {
	t.Parallel()

	a := portfolio.NewAccount(portfolio.DefaultSettings(), now)
	_, err := a.Buy("AAA", "A", 2000, money.New(10), "", now)
	require.NoError(t, err)

	c := Size(a, "AAA", money.New(10), 1)
	// 30% of ~99994 total assets is 29998.2, 20000 already held.
	assert.Equal(t, int64(999), c.BySingleLimit)
	assert.Equal(t, c.BySingleLimit, c.Shares)
}

func TestSizeCashBound(t *testing.T) {
	t.Parallel()

	s := portfolio.DefaultSettings()
	s.InitialCapital = money.FromInt(1000)
	s.Risk.MaxSinglePositionPct = money.FromInt(100)
	s.Risk.MaxTotalPositionPct = money.FromInt(100)
	a := portfolio.NewAccount(s, now)

	c := Size(a, "AAA", money.New(10), 1)
	// 99 shares cost 990 plus the 5 minimum commission.
	assert.Equal(t, int64(99), c.ByCash)
	assert.Equal(t, int64(99), c.Shares)
}

func TestSizeZeroPrice(t *testing.T) {
	t.Parallel()

	a := portfolio.NewAccount(portfolio.DefaultSettings(), now)
	c := Size(a, "AAA", money.Zero, 100)
	assert.Zero(t, c.Shares)
}
