package feed

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/marketsim/event"
	"github.com/rustyeddy/marketsim/market"
)

// SingleInstrument streams one symbol's native bar sequence unmodified: no
// alignment, no forward fill. Intended for full OHLCV sources such as
// futures/e-mini exports.
type SingleInstrument struct {
	queue  *event.Queue
	symbol string

	bars   []market.Bar
	buffer []market.Bar
	cursor int
}

// NewSingleInstrument loads one bar CSV (optionally .gz/.xz compressed).
func NewSingleInstrument(q *event.Queue, path, symbol string) (*SingleInstrument, error) {
	if q == nil {
		return nil, fmt.Errorf("feed: queue is required")
	}
	if symbol == "" {
		return nil, fmt.Errorf("feed: symbol is required")
	}

	bars, err := loadBars(path, symbol)
	if err != nil {
		return nil, err
	}

	return &SingleInstrument{queue: q, symbol: symbol, bars: bars}, nil
}

func (f *SingleInstrument) Symbols() []string { return []string{f.symbol} }

func (f *SingleInstrument) Now() time.Time {
	if len(f.buffer) == 0 {
		return time.Time{}
	}
	return f.buffer[len(f.buffer)-1].Time
}

func (f *SingleInstrument) LatestBars(symbol string, n int) ([]market.Bar, error) {
	if symbol != f.symbol {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return lastN(f.buffer, n), nil
}

func (f *SingleInstrument) Advance() bool {
	if f.cursor >= len(f.bars) {
		return false
	}

	f.buffer = append(f.buffer, f.bars[f.cursor])
	f.cursor++

	// Exactly one Market event per delivered bar; none on exhaustion.
	if err := f.queue.Push(event.MarketEvent{}); err != nil {
		slog.Error("market event dropped", "error", err)
	}
	return true
}
