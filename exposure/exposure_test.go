package exposure

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestUpdateExposureSums(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		positions map[string]int64
		symbols   []string
		wantLong  string
		wantShort string
	}{
		{
			name:      "mixed book",
			positions: map[string]int64{"A": 5, "B": -3, "C": 0},
			symbols:   []string{"A", "B", "C"},
			wantLong:  "5",
			wantShort: "3",
		},
		{
			name:      "flat book",
			positions: map[string]int64{"A": 0},
			symbols:   []string{"A"},
			wantLong:  "0",
			wantShort: "0",
		},
		{
			name:      "all short",
			positions: map[string]int64{"A": -2, "B": -8},
			symbols:   []string{"A", "B"},
			wantLong:  "0",
			wantShort: "10",
		},
		{
			name:      "symbol missing from snapshot counts as flat",
			positions: map[string]int64{"A": 4},
			symbols:   []string{"A", "B"},
			wantLong:  "4",
			wantShort: "0",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := New(Config{}, nil)
			tr.Update(tt.positions, tt.symbols)

			assert.Equal(t, tt.wantLong, tr.CurrentLongExposure.String())
			assert.Equal(t, tt.wantShort, tr.CurrentShortExposure.String())
		})
	}
}

func TestUpdateRecomputesFromScratch(t *testing.T) {
	t.Parallel()

	tr := New(Config{}, nil)

	tr.Update(map[string]int64{"A": 5}, []string{"A"})
	assert.Equal(t, "5", tr.CurrentLongExposure.String())

	// a second snapshot fully replaces the first, no accumulation
	tr.Update(map[string]int64{"A": 2}, []string{"A"})
	assert.Equal(t, "2", tr.CurrentLongExposure.String())
}

func TestGrossLeverage(t *testing.T) {
	t.Parallel()

	positions := map[string]int64{"A": 10, "B": -5}
	prices := map[string]decimal.Decimal{"A": dec("100"), "B": dec("40")}

	// |10*100| + |-5*40| = 1200 over value 2400
	got := GrossLeverage(positions, prices, dec("2400"))
	assert.Equal(t, "0.5", got.String())

	assert.True(t, GrossLeverage(positions, prices, decimal.Zero).IsZero(),
		"non-positive value means zero leverage")
}

func TestRecalcBuyingPower(t *testing.T) {
	t.Parallel()

	tr := New(Config{TargetLeverage: dec("1")}, nil)

	positions := map[string]int64{"A": 10}
	prices := map[string]decimal.Decimal{"A": dec("100")}

	// leverage = 1000/2000 = 0.5, buying power = 2*1000
	short, long := tr.RecalcBuyingPower(dec("1000"), positions, prices, dec("2000"))

	assert.Equal(t, "2000", tr.BuyingPower.String())
	assert.Equal(t, "0.5", tr.CurrentLeverage.String())
	assert.Equal(t, "2000", long.String())
	assert.Equal(t, "1000", short.String())
}

func TestInjectedLeveragePolicy(t *testing.T) {
	t.Parallel()

	fixed := func(map[string]int64, map[string]decimal.Decimal, decimal.Decimal) decimal.Decimal {
		return dec("0.25")
	}
	tr := New(Config{}, fixed)

	short, _ := tr.RecalcBuyingPower(dec("100"), nil, nil, decimal.Zero)

	assert.Equal(t, "0.25", tr.CurrentLeverage.String())
	assert.Equal(t, "150", short.String())
}
