package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteEquityRoundTrip(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)
	base := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, j.RecordEquity(EquityRecord{
			Time:     base.Add(time.Duration(i) * time.Minute),
			Cash:     decimal.NewFromInt(1000),
			Holdings: decimal.NewFromInt(int64(100 * i)),
			Total:    decimal.NewFromInt(int64(1000 + 100*i)),
			Return:   decimal.Zero,
			Equity:   decimal.NewFromInt(1),
		}))
	}

	// half-open window drops the last row
	rows, err := j.ListEquityBetween(base, base.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Time.Equal(base))
	assert.True(t, rows[0].Cash.Equal(decimal.NewFromInt(1000)))
	assert.True(t, rows[1].Holdings.Equal(decimal.NewFromInt(100)))
	assert.True(t, rows[1].Total.Equal(decimal.NewFromInt(1100)))

	rows, err = j.ListEquityBetween(base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSQLiteFillsBySymbol(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)
	base := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)

	fills := []FillRecord{
		{FillID: "F1", OrderID: "O1", Symbol: "SPY", Side: "BUY", Quantity: 10,
			FillPrice: decimal.RequireFromString("100"), Commission: decimal.NewFromInt(1), Time: base},
		{FillID: "F2", OrderID: "O2", Symbol: "QQQ", Side: "SELL", Quantity: 5,
			FillPrice: decimal.RequireFromString("400"), Commission: decimal.NewFromInt(2), Time: base.Add(time.Minute)},
		{FillID: "F3", OrderID: "O3", Symbol: "SPY", Side: "SELL", Quantity: 10,
			FillPrice: decimal.RequireFromString("95.5"), Commission: decimal.NewFromInt(1), Time: base.Add(2 * time.Minute)},
	}
	for _, f := range fills {
		require.NoError(t, j.RecordFill(f))
	}

	got, err := j.ListFills("SPY")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "F1", got[0].FillID)
	assert.Equal(t, "BUY", got[0].Side)
	assert.Equal(t, "F3", got[1].FillID)
	assert.Equal(t, int64(10), got[1].Quantity)
	assert.True(t, got[1].FillPrice.Equal(decimal.RequireFromString("95.5")))

	got, err = j.ListFills("IWM")
	require.NoError(t, err)
	assert.Empty(t, got)
}
