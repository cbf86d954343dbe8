package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one OHLCV sample for a symbol at a timestamp. Bars are value
// objects: feeds hand out copies and never mutate a bar after it has been
// delivered.
type Bar struct {
	Symbol string
	Time   time.Time

	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal

	Volume int64

	// TradeCount and VWAP are present only for sources that report them
	// (futures/e-mini style data). Zero means "not supplied".
	TradeCount int64
	VWAP       decimal.Decimal
}

// At returns a copy of the bar re-stamped at t. Used by feeds when
// forward-filling a missing sample onto an aligned time index.
func (b Bar) At(t time.Time) Bar {
	b.Time = t
	return b
}
