package portfolio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/marketsim/event"
	"github.com/rustyeddy/marketsim/exposure"
	"github.com/rustyeddy/marketsim/feed"
	"github.com/rustyeddy/marketsim/pkg/id"
)

// Basic is the reference Portfolio: a positions/cash/holdings state machine
// over ticks. Signals become at most one order each (naive sizing unless a
// Sizer is swapped in); fills mutate positions and cash in one step.
type Basic struct {
	mu    sync.Mutex
	feed  feed.Feed
	queue *event.Queue
	sizer Sizer

	tracker *exposure.Tracker // optional

	symbols     []string
	initialCash decimal.Decimal
	cash        decimal.Decimal
	positions   map[string]int64
	holdings    map[string]decimal.Decimal

	history []EquityPoint // Return/Equity filled in by EquityCurve
}

// NewBasic builds a portfolio over the feed's symbols with the given
// starting cash. Orders it emits go onto q.
func NewBasic(f feed.Feed, q *event.Queue, initialCash decimal.Decimal) *Basic {
	return &Basic{
		feed:        f,
		queue:       q,
		sizer:       NaiveSizer{Quantity: 1},
		symbols:     f.Symbols(),
		initialCash: initialCash,
		cash:        initialCash,
		positions:   make(map[string]int64),
		holdings:    make(map[string]decimal.Decimal),
	}
}

// SetSizer replaces the naive fixed-quantity sizing policy.
func (p *Basic) SetSizer(s Sizer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s != nil {
		p.sizer = s
	}
}

// AttachExposure wires in a tracker that is refreshed after every
// mark-to-market and fill.
func (p *Basic) AttachExposure(t *exposure.Tracker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracker = t
}

// Update marks held positions at the latest known close and records one
// equity snapshot. Cash is untouched. A symbol with no history yet is
// skipped; an unknown symbol is reported and skipped, never fatal.
func (p *Basic) Update() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sym := range p.symbols {
		bars, err := p.feed.LatestBars(sym, 1)
		if err != nil {
			slog.Warn("mark-to-market lookup failed", "symbol", sym, "error", err)
			continue
		}
		if len(bars) == 0 {
			continue
		}

		qty := p.positions[sym]
		if qty == 0 {
			delete(p.holdings, sym)
			continue
		}
		p.holdings[sym] = bars[0].Close.Mul(decimal.NewFromInt(qty))
	}

	now := p.feed.Now()
	p.history = append(p.history, EquityPoint{
		Time:     now,
		Cash:     p.cash,
		Holdings: p.holdingsTotalLocked(),
		Total:    p.valueLocked(),
	})

	p.refreshExposureLocked()
	return nil
}

// OnSignal emits at most one order: LONG buys and SHORT sells the sizer's
// quantity; EXIT flattens a non-zero position and is a no-op when flat.
func (p *Basic) OnSignal(sig event.SignalEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		side event.Side
		qty  int64
	)

	switch sig.Kind {
	case event.Long:
		side, qty = event.Buy, p.sizer.Size(sig, p.snapshotLocked())
	case event.Short:
		side, qty = event.Sell, p.sizer.Size(sig, p.snapshotLocked())
	case event.Exit:
		cur := p.positions[sig.Symbol]
		if cur == 0 {
			return nil
		}
		if cur > 0 {
			side, qty = event.Sell, cur
		} else {
			side, qty = event.Buy, -cur
		}
	default:
		return fmt.Errorf("portfolio: unknown signal kind %v", sig.Kind)
	}

	ord, err := event.NewOrder(id.New(), sig.Symbol, event.MarketOrder, qty, side)
	if err != nil {
		return err
	}
	return p.queue.Push(ord)
}

// OnFill applies an executed order: position first, then commission, then
// cash at the fill's own execution price. A fill is terminal within the
// tick; it produces no further events.
func (p *Basic) OnFill(fill event.FillEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	signed := fill.Side.Sign() * fill.Quantity
	p.positions[fill.Symbol] += signed

	p.cash = p.cash.Sub(fill.Commission)
	p.cash = p.cash.Sub(fill.FillPrice.Mul(decimal.NewFromInt(signed)))

	// Re-mark the filled symbol at the execution price so value stays
	// consistent between fills and the next mark-to-market.
	if qty := p.positions[fill.Symbol]; qty == 0 {
		delete(p.holdings, fill.Symbol)
	} else {
		p.holdings[fill.Symbol] = fill.FillPrice.Mul(decimal.NewFromInt(qty))
	}

	p.refreshExposureLocked()
	return nil
}

func (p *Basic) Positions() map[string]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]int64, len(p.positions))
	for sym, qty := range p.positions {
		out[sym] = qty
	}
	return out
}

func (p *Basic) Cash() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cash
}

// Value is cash plus holdings at the last mark-to-market.
func (p *Basic) Value() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valueLocked()
}

// EquityCurve derives per-period percentage returns and the cumulative
// equity multiple from the recorded snapshots. Pure transform, safe to call
// repeatedly mid-run.
func (p *Basic) EquityCurve() []EquityPoint {
	p.mu.Lock()
	defer p.mu.Unlock()

	one := decimal.NewFromInt(1)
	out := make([]EquityPoint, len(p.history))
	equity := one

	for i, h := range p.history {
		ret := decimal.Zero
		if i > 0 && p.history[i-1].Total.IsPositive() {
			ret = h.Total.Div(p.history[i-1].Total).Sub(one)
		}
		equity = equity.Mul(one.Add(ret))

		h.Return = ret
		h.Equity = equity
		out[i] = h
	}
	return out
}

func (p *Basic) holdingsTotalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, v := range p.holdings {
		total = total.Add(v)
	}
	return total
}

func (p *Basic) valueLocked() decimal.Decimal {
	return p.cash.Add(p.holdingsTotalLocked())
}

func (p *Basic) snapshotLocked() Snapshot {
	positions := make(map[string]int64, len(p.positions))
	for sym, qty := range p.positions {
		positions[sym] = qty
	}
	return Snapshot{Positions: positions, Cash: p.cash, Value: p.valueLocked()}
}

func (p *Basic) refreshExposureLocked() {
	if p.tracker == nil {
		return
	}

	p.tracker.Update(p.positions, p.symbols)

	prices := make(map[string]decimal.Decimal, len(p.symbols))
	for _, sym := range p.symbols {
		if bars, err := p.feed.LatestBars(sym, 1); err == nil && len(bars) > 0 {
			prices[sym] = bars[0].Close
		}
	}
	p.tracker.RecalcBuyingPower(p.cash, p.positions, prices, p.valueLocked())
}

var _ Portfolio = (*Basic)(nil)
