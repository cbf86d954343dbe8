package exposure

import (
	"github.com/shopspring/decimal"
)

// LeveragePolicy computes a leverage ratio from a positions snapshot, the
// latest per-symbol prices, and total portfolio value. It is injected at
// construction so callers can swap in margin models without touching the
// tracker.
type LeveragePolicy func(positions map[string]int64, prices map[string]decimal.Decimal, value decimal.Decimal) decimal.Decimal

// GrossLeverage is the default policy: total absolute position value over
// total portfolio value, 0 when value is not positive.
func GrossLeverage(positions map[string]int64, prices map[string]decimal.Decimal, value decimal.Decimal) decimal.Decimal {
	if !value.IsPositive() {
		return decimal.Zero
	}

	gross := decimal.Zero
	for sym, qty := range positions {
		if qty == 0 {
			continue
		}
		price, ok := prices[sym]
		if !ok {
			continue
		}
		gross = gross.Add(price.Mul(decimal.NewFromInt(qty)).Abs())
	}
	return gross.Div(value)
}

// Config holds the tracker's targets, immutable after construction.
type Config struct {
	TargetLeverage      decimal.Decimal
	TargetLongExposure  decimal.Decimal
	TargetShortExposure decimal.Decimal
}

// Tracker derives exposure and buying power from portfolio snapshots. All
// derived fields are recomputed from scratch on every update; nothing is
// carried between calls, so the tracker can never drift from the portfolio.
type Tracker struct {
	cfg    Config
	policy LeveragePolicy

	CurrentLongExposure  decimal.Decimal
	CurrentShortExposure decimal.Decimal
	CurrentLeverage      decimal.Decimal

	BuyingPower        decimal.Decimal
	AvailableCashLong  decimal.Decimal
	AvailableCashShort decimal.Decimal
}

// New builds a tracker. A nil policy selects GrossLeverage.
func New(cfg Config, policy LeveragePolicy) *Tracker {
	if policy == nil {
		policy = GrossLeverage
	}
	return &Tracker{cfg: cfg, policy: policy}
}

// Config returns the immutable targets.
func (t *Tracker) Config() Config { return t.cfg }

// Update recomputes current long/short exposure from a full positions
// snapshot: long exposure is the sum of positive positions, short exposure
// the sum of absolute negative positions. O(len(symbols)).
func (t *Tracker) Update(positions map[string]int64, symbols []string) {
	long := decimal.Zero
	short := decimal.Zero

	for _, sym := range symbols {
		qty := positions[sym]
		switch {
		case qty > 0:
			long = long.Add(decimal.NewFromInt(qty))
		case qty < 0:
			short = short.Add(decimal.NewFromInt(-qty))
		}
	}

	t.CurrentLongExposure = long
	t.CurrentShortExposure = short
}

var two = decimal.NewFromInt(2)

// RecalcBuyingPower refreshes buying power and available cash from the
// current cash balance. Buying power is a flat 2x cash (non-day-trading
// margin); available short cash shrinks as leverage approaches 1.
//
// Returns (availableShort, availableLong).
func (t *Tracker) RecalcBuyingPower(cash decimal.Decimal, positions map[string]int64, prices map[string]decimal.Decimal, value decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	t.BuyingPower = cash.Mul(two)
	t.CurrentLeverage = t.policy(positions, prices, value)

	t.AvailableCashLong = t.BuyingPower
	t.AvailableCashShort = t.BuyingPower.Mul(decimal.NewFromInt(1).Sub(t.CurrentLeverage))

	return t.AvailableCashShort, t.AvailableCashLong
}
