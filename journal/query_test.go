package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	expected := sampleTrade("T123", "2024-04-10", Sell)
	expected.StampDuty = expected.Amount.Scale(0.001)
	require.NoError(t, j.Append(expected))

	// Get goes through the index when the backend has one.
	actual, err := Get(j, "T123")
	require.NoError(t, err)

	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Date, actual.Date)
	assert.Equal(t, expected.Time, actual.Time)
	assert.Equal(t, expected.Code, actual.Code)
	assert.Equal(t, expected.Name, actual.Name)
	assert.Equal(t, expected.Action, actual.Action)
	assert.Equal(t, expected.Shares, actual.Shares)
	assert.True(t, expected.Price.Equal(actual.Price))
	assert.True(t, expected.StampDuty.Equal(actual.StampDuty))
	assert.Equal(t, expected.Reason, actual.Reason)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetTrade("nonexistent")
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestListTradesBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	for _, tr := range []Trade{
		sampleTrade("T1", "2024-04-09", Buy),
		sampleTrade("T2", "2024-04-10", Add),
		sampleTrade("T3", "2024-04-10", Reduce),
		sampleTrade("T4", "2024-04-12", Sell),
	} {
		require.NoError(t, j.Append(tr))
	}

	got, err := Between(j, "2024-04-10", "2024-04-11")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "T2", got[0].ID)
	assert.Equal(t, "T3", got[1].ID)

	got, err = j.ListTradesBetween("2024-04-11", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T4", got[0].ID)

	got, err = j.ListTradesBetween("2025-01-01", "2025-12-31")
	require.NoError(t, err)
	assert.Empty(t, got)
}
