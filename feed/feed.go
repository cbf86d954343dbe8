package feed

import (
	"errors"
	"time"

	"github.com/rustyeddy/marketsim/market"
)

// ErrUnknownSymbol is returned by LatestBars for a symbol the feed does not
// track. Callers should treat it as "no history yet", not a hard failure.
var ErrUnknownSymbol = errors.New("feed: unknown symbol")

// Feed supplies bars one tick at a time from a finite historical source,
// replicating how live market data would arrive so that backtested and live
// runs share control flow.
//
// Advance retrieves the next bar for every tracked symbol, appends each to
// that symbol's buffer, and pushes exactly one Market event when at least
// one symbol produced a new bar. When the source is exhausted Advance
// returns false and pushes nothing.
//
// Buffers are append-only: once a bar is delivered it is safe for
// concurrent read by any number of consumers. A feed is not rewindable;
// restarting a run means rebuilding the feed.
type Feed interface {
	// Symbols lists the tracked symbols.
	Symbols() []string

	// LatestBars returns up to n bars for symbol, most recent last, never
	// including a bar that has not yet been delivered by Advance.
	LatestBars(symbol string, n int) ([]market.Bar, error)

	// Advance moves the feed to the next tick. False means exhausted.
	Advance() bool

	// Now is the timestamp of the most recently delivered tick, zero before
	// the first Advance.
	Now() time.Time
}

func lastN(buf []market.Bar, n int) []market.Bar {
	if n <= 0 || len(buf) == 0 {
		return nil
	}
	if n > len(buf) {
		n = len(buf)
	}
	return buf[len(buf)-n:]
}
