package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/marketsim/event"
	"github.com/rustyeddy/marketsim/feed"
	"github.com/rustyeddy/marketsim/journal"
	"github.com/rustyeddy/marketsim/portfolio"
	"github.com/rustyeddy/marketsim/strategies"
)

// Runner owns one simulation run: it advances the feed tick by tick and
// fully drains the event queue between advances. Everything queued as a
// consequence of tick T's Market event — signals, orders, fills, portfolio
// mutations — completes before tick T+1 is delivered. That draining order
// is the invariant that keeps lookahead bias out.
type Runner struct {
	Feed      feed.Feed
	Queue     *event.Queue
	Portfolio portfolio.Portfolio
	Strategy  strategies.Strategy
	Executor  Executor
	Journal   journal.Journal // optional; nil records nothing
}

// Result is a lightweight summary of a completed run.
type Result struct {
	Ticks   int
	Signals int
	Orders  int
	Fills   int

	FinalCash  decimal.Decimal
	FinalValue decimal.Decimal

	Start time.Time
	End   time.Time
}

// Run executes the loop until the feed is exhausted or ctx is cancelled.
// A cancelled run stops cleanly between events; no event is ever left
// partially applied.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Queue == nil {
		return Result{}, fmt.Errorf("backtest: Queue is required")
	}
	if r.Portfolio == nil {
		return Result{}, fmt.Errorf("backtest: Portfolio is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	if r.Executor == nil {
		return Result{}, fmt.Errorf("backtest: Executor is required")
	}

	j := r.Journal
	if j == nil {
		j = journal.Nop{}
	}

	var res Result

	for {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if !r.Feed.Advance() {
			break
		}
		res.Ticks++

		if err := r.drainTick(&res, j); err != nil {
			return res, err
		}
	}

	curve := r.Portfolio.EquityCurve()
	for _, pt := range curve {
		err := j.RecordEquity(journal.EquityRecord{
			Time:     pt.Time,
			Cash:     pt.Cash,
			Holdings: pt.Holdings,
			Total:    pt.Total,
			Return:   pt.Return,
			Equity:   pt.Equity,
		})
		if err != nil {
			return res, fmt.Errorf("backtest: record equity: %w", err)
		}
	}

	if len(curve) > 0 {
		res.Start = curve[0].Time
		res.End = curve[len(curve)-1].Time
	}
	res.FinalCash = r.Portfolio.Cash()
	res.FinalValue = r.Portfolio.Value()

	slog.Info("run complete",
		"ticks", res.Ticks, "signals", res.Signals,
		"orders", res.Orders, "fills", res.Fills)
	return res, nil
}

// drainTick dispatches queued events until the queue is empty. Handlers may
// push follow-on events (signal → order → fill); those are drained within
// the same tick.
func (r *Runner) drainTick(res *Result, j journal.Journal) error {
	for {
		e, ok := r.Queue.Pop()
		if !ok {
			return nil
		}

		switch e := e.(type) {
		case event.MarketEvent:
			if err := r.Portfolio.Update(); err != nil {
				return fmt.Errorf("backtest: update: %w", err)
			}
			if err := r.Strategy.OnMarket(r.Feed, r.Queue); err != nil {
				return fmt.Errorf("backtest: strategy: %w", err)
			}

		case event.SignalEvent:
			res.Signals++
			if err := r.Portfolio.OnSignal(e); err != nil {
				return fmt.Errorf("backtest: signal: %w", err)
			}

		case event.OrderEvent:
			res.Orders++
			if err := r.Executor.Execute(e); err != nil {
				return fmt.Errorf("backtest: execute: %w", err)
			}

		case event.FillEvent:
			res.Fills++
			if err := r.Portfolio.OnFill(e); err != nil {
				return fmt.Errorf("backtest: fill: %w", err)
			}
			err := j.RecordFill(journal.FillRecord{
				FillID:     e.ID,
				OrderID:    e.OrderID,
				Symbol:     e.Symbol,
				Side:       e.Side.String(),
				Quantity:   e.Quantity,
				FillPrice:  e.FillPrice,
				Commission: e.Commission,
				Time:       e.TimeIndex,
			})
			if err != nil {
				return fmt.Errorf("backtest: record fill: %w", err)
			}

		default:
			return fmt.Errorf("backtest: unhandled event %v", e.EventType())
		}
	}
}
