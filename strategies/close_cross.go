package strategies

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/marketsim/event"
	"github.com/rustyeddy/marketsim/feed"
)

// CloseCross goes long when the close crosses above a fixed reference level
// and exits when it crosses back below. One position at a time, long only.
type CloseCross struct {
	symbol string
	level  decimal.Decimal

	long bool
}

func NewCloseCross(symbol string, level decimal.Decimal) *CloseCross {
	return &CloseCross{symbol: symbol, level: level}
}

func (s *CloseCross) Name() string { return "close-cross" }

func (s *CloseCross) OnMarket(f feed.Feed, q *event.Queue) error {
	bars, err := f.LatestBars(s.symbol, 1)
	if err != nil || len(bars) == 0 {
		// No history yet is not an error worth stopping the run for.
		return nil
	}
	bar := bars[0]

	switch {
	case !s.long && bar.Close.GreaterThan(s.level):
		sig, err := event.NewSignal(s.symbol, bar.Time, event.Long)
		if err != nil {
			return err
		}
		if err := q.Push(sig); err != nil {
			return err
		}
		s.long = true

	case s.long && bar.Close.LessThan(s.level):
		sig, err := event.NewSignal(s.symbol, bar.Time, event.Exit)
		if err != nil {
			return err
		}
		if err := q.Push(sig); err != nil {
			return err
		}
		s.long = false
	}

	return nil
}
