package strategies

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/marketsim/event"
	"github.com/rustyeddy/marketsim/feed"
)

// Strategy is the boundary contract for signal generation: called once per
// Market event, it reads history through the feed's LatestBars and pushes
// Signal events onto the shared queue. It never sees a bar the feed has not
// yet delivered.
type Strategy interface {
	Name() string
	OnMarket(f feed.Feed, q *event.Queue) error
}

// ByName builds a strategy from its CLI/config name.
func ByName(name, symbol string, level decimal.Decimal) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "close-cross", "closecross":
		return NewCloseCross(symbol, level), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, close-cross)", name)
	}
}

// Noop generates no signals. Baseline for plumbing tests.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) OnMarket(feed.Feed, *event.Queue) error { return nil }
