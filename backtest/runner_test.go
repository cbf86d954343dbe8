package backtest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/marketsim/event"
	"github.com/rustyeddy/marketsim/feed"
	"github.com/rustyeddy/marketsim/journal"
	"github.com/rustyeddy/marketsim/portfolio"
	"github.com/rustyeddy/marketsim/strategies"
)

// scripted emits a fixed signal plan keyed by tick number.
type scripted struct {
	symbol string
	plan   map[int]event.SignalKind
	tick   int
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) OnMarket(f feed.Feed, q *event.Queue) error {
	s.tick++
	kind, ok := s.plan[s.tick]
	if !ok {
		return nil
	}
	sig, err := event.NewSignal(s.symbol, f.Now(), kind)
	if err != nil {
		return err
	}
	return q.Push(sig)
}

// memJournal records everything in memory for assertions.
type memJournal struct {
	equity []journal.EquityRecord
	fills  []journal.FillRecord
}

func (j *memJournal) RecordEquity(e journal.EquityRecord) error {
	j.equity = append(j.equity, e)
	return nil
}

func (j *memJournal) RecordFill(f journal.FillRecord) error {
	j.fills = append(j.fills, f)
	return nil
}

func (j *memJournal) Close() error { return nil }

func writeBars(t *testing.T, dir string) {
	t.Helper()
	body := `time,close,volume
2026-01-05 09:30:00,100,1000
2026-01-05 09:31:00,105,1100
2026-01-05 09:32:00,95,900
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SPY.csv"), []byte(body), 0644))
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBars(t, dir)

	queue := event.NewQueue(64)
	f, err := feed.NewHistoricCSV(queue, dir, []string{"SPY"})
	require.NoError(t, err)

	initial := decimal.NewFromInt(100000)
	port := portfolio.NewBasic(f, queue, initial)

	j := &memJournal{}
	runner := &Runner{
		Feed:      f,
		Queue:     queue,
		Portfolio: port,
		Strategy: &scripted{symbol: "SPY", plan: map[int]event.SignalKind{
			1: event.Long,
			3: event.Exit,
		}},
		Executor: NewSimExecutor(f, queue),
		Journal:  j,
	}

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Ticks)
	assert.Equal(t, 2, res.Signals)
	assert.Equal(t, 2, res.Orders)
	assert.Equal(t, 2, res.Fills)

	// long 1 unit at 100, exit at 95, two minimum commissions:
	// initial + (95 - 100) - 2*1.00
	want := initial.Sub(decimal.NewFromInt(7))
	assert.Equal(t, int64(0), port.Positions()["SPY"])
	assert.True(t, res.FinalCash.Equal(want), "cash = %s, want %s", res.FinalCash, want)
	assert.True(t, res.FinalValue.Equal(want), "value = %s, want %s", res.FinalValue, want)

	// fills executed at the close of their own tick, never a later one
	require.Len(t, j.fills, 2)
	assert.Equal(t, "100", j.fills[0].FillPrice.String())
	assert.Equal(t, "BUY", j.fills[0].Side)
	assert.Equal(t, "95", j.fills[1].FillPrice.String())
	assert.Equal(t, "SELL", j.fills[1].Side)

	// one equity row per tick
	require.Len(t, j.equity, 3)
	assert.Equal(t, "1", j.equity[0].Equity.String())
	assert.True(t, j.equity[0].Time.Before(j.equity[2].Time))
	assert.Equal(t, j.equity[0].Time, res.Start)
	assert.Equal(t, j.equity[2].Time, res.End)
}

func TestRunNoopStrategy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBars(t, dir)

	queue := event.NewQueue(64)
	f, err := feed.NewHistoricCSV(queue, dir, []string{"SPY"})
	require.NoError(t, err)

	initial := decimal.NewFromInt(5000)
	port := portfolio.NewBasic(f, queue, initial)

	runner := &Runner{
		Feed:      f,
		Queue:     queue,
		Portfolio: port,
		Strategy:  strategies.Noop{},
		Executor:  NewSimExecutor(f, queue),
	}

	res, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Ticks)
	assert.Equal(t, 0, res.Orders)
	assert.True(t, res.FinalCash.Equal(initial))
}

func TestRunValidation(t *testing.T) {
	t.Parallel()

	_, err := (&Runner{}).Run(context.Background())
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBars(t, dir)

	queue := event.NewQueue(64)
	f, err := feed.NewHistoricCSV(queue, dir, []string{"SPY"})
	require.NoError(t, err)

	runner := &Runner{
		Feed:      f,
		Queue:     queue,
		Portfolio: portfolio.NewBasic(f, queue, decimal.NewFromInt(1000)),
		Strategy:  strategies.Noop{},
		Executor:  NewSimExecutor(f, queue),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimExecutorRejectsLimit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBars(t, dir)

	queue := event.NewQueue(8)
	f, err := feed.NewHistoricCSV(queue, dir, []string{"SPY"})
	require.NoError(t, err)
	require.True(t, f.Advance())

	x := NewSimExecutor(f, queue)

	ord, err := event.NewOrder("OID", "SPY", event.LimitOrder, 1, event.Buy)
	require.NoError(t, err)
	assert.Error(t, x.Execute(ord))

	ord, err = event.NewOrder("OID", "NOPE", event.MarketOrder, 1, event.Buy)
	require.NoError(t, err)
	assert.Error(t, x.Execute(ord))
}
