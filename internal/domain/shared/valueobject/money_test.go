package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency Currency
		wantErr  bool
	}{
		{
			name:     "valid GHS money",
			amount:   decimal.NewFromFloat(150.50),
			currency: GHS,
			wantErr:  false,
		},
		{
			name:     "zero amount is valid",
			amount:   decimal.Zero,
			currency: GHS,
			wantErr:  false,
		},
		{
			name:     "negative amount is valid at value-object level",
			amount:   decimal.NewFromFloat(-10),
			currency: USD,
			wantErr:  false,
		},
		{
			name:     "empty currency fails",
			amount:   decimal.NewFromFloat(100),
			currency: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Amount().Equal(tt.amount))
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestNewMoneyGHSFromString(t *testing.T) {
	m, err := NewMoneyGHSFromString("1234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", m.StringFixed(2))
	assert.Equal(t, GHS, m.Currency())

	_, err = NewMoneyGHSFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyGHSFromFloat(100.25)
	b := NewMoneyGHSFromFloat(49.75)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "150.00", sum.StringFixed(2))

	// original values unchanged
	assert.Equal(t, "100.25", a.StringFixed(2))
	assert.Equal(t, "49.75", b.StringFixed(2))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := NewMoneyGHSFromFloat(100)
	b, err := NewMoney(decimal.NewFromFloat(50), USD)
	require.NoError(t, err)

	_, err = a.Add(b)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "different currencies")
}

func TestMoney_Subtract(t *testing.T) {
	total := NewMoneyGHSFromFloat(500)
	paid := NewMoneyGHSFromFloat(200)

	remaining, err := total.Subtract(paid)
	require.NoError(t, err)
	assert.Equal(t, "300.00", remaining.StringFixed(2))
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyGHSFromFloat(10)
	big := NewMoneyGHSFromFloat(20)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	gte, err := big.GreaterThanOrEqual(big)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, big.Equals(NewMoneyGHSFromFloat(20)))
	assert.False(t, big.Equals(small))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroGHS().IsZero())
	assert.True(t, NewMoneyGHSFromFloat(1).IsPositive())
	assert.True(t, NewMoneyGHSFromFloat(-1).IsNegative())
}

func TestMoney_FloatPrecision(t *testing.T) {
	// classic binary float trap: 0.1 + 0.2
	a := NewMoneyGHSFromFloat(0.1)
	b := NewMoneyGHSFromFloat(0.2)

	sum := a.MustAdd(b)
	assert.Equal(t, "0.30", sum.StringFixed(2))
	assert.True(t, sum.Equals(NewMoneyGHSFromFloat(0.3)))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyGHSFromFloat(275.50)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"275.5","currency":"GHS"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_ScanValue(t *testing.T) {
	m := NewMoneyGHSFromFloat(99.99)
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "99.99", v)

	var scanned Money
	require.NoError(t, scanned.Scan("99.99"))
	assert.Equal(t, GHS, scanned.Currency())
	assert.True(t, scanned.Amount().Equal(decimal.NewFromFloat(99.99)))

	var fromBytes Money
	require.NoError(t, fromBytes.Scan([]byte("12.34")))
	assert.Equal(t, "12.34", fromBytes.StringFixed(2))

	var fromNil Money
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())
}
