package feed

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/rustyeddy/marketsim/event"
	"github.com/rustyeddy/marketsim/market"
)

// HistoricCSV replays bar CSVs for several symbols as one synchronized
// stream. All symbols are aligned onto a shared time index built from the
// union of their native timestamps; a symbol missing a sample at time T is
// forward-filled with its most recent prior bar, so every Advance yields a
// bar for every symbol that has started trading.
type HistoricCSV struct {
	queue   *event.Queue
	symbols []string

	// index is the union of all native timestamps, ascending. aligned holds
	// one slot per index entry and symbol; nil marks "no data yet" (before
	// the symbol's first native row).
	index   []time.Time
	aligned map[string][]*market.Bar

	// buffers are the delivered bars, append-only, one per symbol.
	buffers map[string][]market.Bar
	cursor  int
}

// NewHistoricCSV loads dir/SYMBOL.csv (or .csv.gz/.csv.xz) for every symbol
// and aligns them. Malformed sources fail here; no partial feed is returned.
func NewHistoricCSV(q *event.Queue, dir string, symbols []string) (*HistoricCSV, error) {
	if q == nil {
		return nil, fmt.Errorf("feed: queue is required")
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("feed: at least one symbol is required")
	}

	native := make(map[string][]market.Bar, len(symbols))
	for _, s := range symbols {
		path, err := sourcePath(dir, s)
		if err != nil {
			return nil, err
		}
		bars, err := loadBars(path, s)
		if err != nil {
			return nil, err
		}
		native[s] = bars
	}

	f := &HistoricCSV{
		queue:   q,
		symbols: append([]string(nil), symbols...),
		index:   unionIndex(native),
		aligned: make(map[string][]*market.Bar, len(symbols)),
		buffers: make(map[string][]market.Bar, len(symbols)),
	}

	for _, s := range symbols {
		f.aligned[s] = alignSeries(native[s], f.index)
		f.buffers[s] = nil
	}

	slog.Debug("historic feed ready",
		"symbols", len(symbols), "ticks", len(f.index))
	return f, nil
}

func (f *HistoricCSV) Symbols() []string { return f.symbols }

// Now is the timestamp of the most recently delivered tick.
func (f *HistoricCSV) Now() time.Time {
	if f.cursor == 0 {
		return time.Time{}
	}
	return f.index[f.cursor-1]
}

// LatestBars returns up to n delivered bars for symbol, most recent last.
func (f *HistoricCSV) LatestBars(symbol string, n int) ([]market.Bar, error) {
	buf, ok := f.buffers[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return lastN(buf, n), nil
}

// Advance delivers the next aligned bar for every symbol and pushes one
// Market event. Returns false, pushing nothing, when the index is
// exhausted.
func (f *HistoricCSV) Advance() bool {
	if f.cursor >= len(f.index) {
		return false
	}

	produced := false
	for _, s := range f.symbols {
		if b := f.aligned[s][f.cursor]; b != nil {
			f.buffers[s] = append(f.buffers[s], *b)
			produced = true
		}
	}
	f.cursor++

	if !produced {
		// Cannot happen with a union index, but never emit a Market event
		// for a tick that delivered no bar.
		return f.Advance()
	}

	if err := f.queue.Push(event.MarketEvent{}); err != nil {
		slog.Error("market event dropped", "error", err)
	}
	return true
}

// unionIndex merges all native timestamps into one ascending, de-duplicated
// index.
func unionIndex(native map[string][]market.Bar) []time.Time {
	seen := make(map[int64]time.Time)
	for _, bars := range native {
		for _, b := range bars {
			seen[b.Time.UnixNano()] = b.Time
		}
	}

	index := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		index = append(index, t)
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Before(index[j]) })
	return index
}

// alignSeries projects a symbol's native bars onto the shared index,
// forward-filling gaps. Slots before the first native row stay nil.
func alignSeries(bars []market.Bar, index []time.Time) []*market.Bar {
	out := make([]*market.Bar, len(index))

	var last *market.Bar
	next := 0
	for i, t := range index {
		for next < len(bars) && !bars[next].Time.After(t) {
			b := bars[next]
			last = &b
			next++
		}
		if last == nil {
			continue
		}
		filled := last.At(t)
		out[i] = &filled
	}
	return out
}
