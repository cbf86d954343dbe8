package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/marketsim/event"
)

// Portfolio owns positions, cash, and holdings for one run. Per tick the
// driver calls Update once (mark-to-market against the latest bar close,
// never a future bar), then feeds it the tick's drained SIGNAL and FILL
// events. Each handler is a single atomic state transition; portfolio state
// is never rolled back mid-tick.
type Portfolio interface {
	Update() error
	OnSignal(event.SignalEvent) error
	OnFill(event.FillEvent) error

	Positions() map[string]int64
	Cash() decimal.Decimal
	Value() decimal.Decimal

	EquityCurve() []EquityPoint
}

// Snapshot is the read-only view handed to sizing policies.
type Snapshot struct {
	Positions map[string]int64
	Cash      decimal.Decimal
	Value     decimal.Decimal
}

// Sizer turns a signal into an order quantity. Real sizing (risk-aware,
// exposure-aware) plugs in here; the portfolio itself stays ignorant of it.
type Sizer interface {
	Size(sig event.SignalEvent, snap Snapshot) int64
}

// NaiveSizer orders a fixed quantity regardless of signal or portfolio
// state.
type NaiveSizer struct {
	Quantity int64
}

func (s NaiveSizer) Size(event.SignalEvent, Snapshot) int64 {
	if s.Quantity <= 0 {
		return 1
	}
	return s.Quantity
}

// EquityPoint is one row of the equity-curve output: the portfolio snapshot
// for a tick plus its per-period return and the cumulative equity multiple
// (starting at 1.0).
type EquityPoint struct {
	Time     time.Time
	Cash     decimal.Decimal
	Holdings decimal.Decimal
	Total    decimal.Decimal
	Return   decimal.Decimal
	Equity   decimal.Decimal
}
