package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityRecord is one equity-curve row: the portfolio snapshot at a tick
// plus its period return and cumulative equity multiple.
type EquityRecord struct {
	Time     time.Time
	Cash     decimal.Decimal
	Holdings decimal.Decimal
	Total    decimal.Decimal
	Return   decimal.Decimal
	Equity   decimal.Decimal
}

// FillRecord is one executed order as applied to the portfolio.
type FillRecord struct {
	FillID     string
	OrderID    string
	Symbol     string
	Side       string
	Quantity   int64
	FillPrice  decimal.Decimal
	Commission decimal.Decimal
	Time       time.Time
}

type Journal interface {
	RecordEquity(EquityRecord) error
	RecordFill(FillRecord) error
	Close() error
}

// Nop discards everything. Default when no journal is configured.
type Nop struct{}

func (Nop) RecordEquity(EquityRecord) error { return nil }
func (Nop) RecordFill(FillRecord) error     { return nil }
func (Nop) Close() error                    { return nil }
