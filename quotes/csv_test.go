package quotes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVFeedNext(t *testing.T) {
	t.Parallel()

	in := "code,price,date\n600519, 1712.50,2024-01-15\n\n# comment\n000001,9.87\n"
	feed := NewCSVFeed(strings.NewReader(in))

	q, ok, err := feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "600519", q.Code)
	assert.Equal(t, "1712.50", q.Price.StringFixed(2))
	assert.Equal(t, "2024-01-15", q.Date)

	q, ok, err = feed.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "000001", q.Code)
	assert.Empty(t, q.Date)

	_, ok, err = feed.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCSVFeedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bad price", "600519,abc\n", "row 1"},
		{"negative price", "600519,-1\n", "negative price"},
		{"one column", "600519\n", "expected code,price"},
		{"too many columns", "600519,1,2024-01-15,x\n", "expected code,price"},
		{"empty code", " ,10\n", "empty code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := NewCSVFeed(strings.NewReader(tt.in)).Next()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "quotes.csv")
	content := strings.Join([]string{
		"code,price,date",
		"600519,1700,2024-01-16",
		"600519,1650,2024-01-15",
		"000001,9.5,2024-01-15",
		"000001,9.8,2024-01-15",
		"000858,150,2024-01-15",
		"000858,151",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	prices, err := Latest(path)
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Equal(t, "1700", prices["600519"].String())
	assert.Equal(t, "9.8", prices["000001"].String())
	assert.Equal(t, "151", prices["000858"].String())
}

func TestLatestMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Latest(filepath.Join(t.TempDir(), "none.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
