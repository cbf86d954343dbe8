package backtest

import (
	"fmt"

	"github.com/rustyeddy/marketsim/event"
	"github.com/rustyeddy/marketsim/feed"
	"github.com/rustyeddy/marketsim/pkg/id"
)

// Executor is the execution boundary: it consumes Order events and produces
// Fill events back onto the queue. A live implementation would wrap broker
// connectivity; the core only depends on this contract.
type Executor interface {
	Execute(event.OrderEvent) error
}

// SimExecutor fills market orders immediately at the symbol's latest close,
// with the default commission schedule. No slippage or partial fills.
type SimExecutor struct {
	Feed     feed.Feed
	Queue    *event.Queue
	Exchange string
}

func NewSimExecutor(f feed.Feed, q *event.Queue) *SimExecutor {
	return &SimExecutor{Feed: f, Queue: q, Exchange: "SIM"}
}

func (x *SimExecutor) Execute(ord event.OrderEvent) error {
	if ord.Kind != event.MarketOrder {
		return fmt.Errorf("execute: only market orders are simulated, got %v", ord.Kind)
	}

	bars, err := x.Feed.LatestBars(ord.Symbol, 1)
	if err != nil {
		return fmt.Errorf("execute %s: %w", ord.Symbol, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("execute %s: no price yet", ord.Symbol)
	}

	fill, err := event.NewFill(id.New(), ord.ID, bars[0].Time, ord.Symbol,
		x.Exchange, ord.Quantity, ord.Side, bars[0].Close)
	if err != nil {
		return err
	}
	return x.Queue.Push(fill)
}
