package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestArithmeticIsExact(t *testing.T) {
	t.Parallel()

	a := New(0.1).Add(New(0.2))
	assert.True(t, a.Equal(New(0.3)))
	assert.Equal(t, "1500", New(1.5).MulInt(1000).String())
	assert.True(t, FromInt(10).Sub(New(2.5)).Equal(New(7.5)))
	assert.True(t, New(1.5).Neg().IsNegative())
}

func TestDivAndPctByZero(t *testing.T) {
	t.Parallel()

	assert.True(t, FromInt(5).Div(Zero).IsZero())
	assert.True(t, FromInt(5).Pct(Zero).IsZero())
	assert.True(t, FromInt(2000).Pct(FromInt(100000)).Equal(FromInt(2)))
	assert.True(t, FromInt(1).Div(FromInt(4)).Equal(New(0.25)))
}

func TestMaxAndSum(t *testing.T) {
	t.Parallel()

	assert.True(t, Max(New(0.45), FromInt(5)).Equal(FromInt(5)))
	assert.True(t, Max(New(7.65), FromInt(5)).Equal(New(7.65)))
	assert.True(t, Sum().IsZero())
	assert.True(t, Sum(New(1.1), New(2.2), New(3.3)).Equal(New(6.6)))
}

func TestParse(t *testing.T) {
	t.Parallel()

	a, err := Parse("1.535")
	require.NoError(t, err)
	assert.Equal(t, "1.535", a.String())

	_, err = Parse("abc")
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	type doc struct {
		Price Amount  `json:"price"`
		Cash  Amount  `json:"cash"`
		Opt   *Amount `json:"opt"`
	}
	b, err := json.Marshal(doc{Price: New(1.55), Cash: FromInt(98495)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":1.55,"cash":98495,"opt":null}`, string(b))

	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"price":"2.5","cash":100000.0,"opt":3}`), &d))
	assert.True(t, d.Price.Equal(New(2.5)))
	assert.True(t, d.Cash.Equal(FromInt(100000)))
	require.NotNil(t, d.Opt)
	assert.True(t, d.Opt.Equal(FromInt(3)))

	assert.Error(t, json.Unmarshal([]byte(`{"price":"abc"}`), &d))
}

func TestYAML(t *testing.T) {
	t.Parallel()

	var v struct {
		Rate Amount `yaml:"rate"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("rate: 0.0003\n"), &v))
	assert.True(t, v.Rate.Equal(New(0.0003)))

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "rate: 0.0003\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("rate: [1, 2]\n"), &v))
}

func TestScanAndValue(t *testing.T) {
	t.Parallel()

	var a Amount
	require.NoError(t, a.Scan("12.34"))
	assert.True(t, a.Equal(New(12.34)))
	require.NoError(t, a.Scan([]byte("5")))
	assert.True(t, a.Equal(FromInt(5)))
	require.NoError(t, a.Scan(int64(7)))
	assert.True(t, a.Equal(FromInt(7)))
	require.NoError(t, a.Scan(nil))
	assert.True(t, a.IsZero())

	v, err := New(1.535).Value()
	require.NoError(t, err)
	assert.Equal(t, "1.535", v)
}
