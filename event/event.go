package event

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Type discriminates the event union carried on the queue.
type Type uint8

const (
	Market Type = iota + 1
	Signal
	Order
	Fill
)

func (t Type) String() string {
	switch t {
	case Market:
		return "MARKET"
	case Signal:
		return "SIGNAL"
	case Order:
		return "ORDER"
	case Fill:
		return "FILL"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Event is the unit passed through the queue. Events are immutable value
// objects: the producer constructs one, the queue's single consumer reads it
// exactly once.
type Event interface {
	EventType() Type
}

// SignalKind is the advice a strategy attaches to a signal.
type SignalKind uint8

const (
	Long SignalKind = iota + 1
	Short
	Exit
)

func (k SignalKind) String() string {
	switch k {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	case Exit:
		return "EXIT"
	}
	return fmt.Sprintf("SignalKind(%d)", uint8(k))
}

// OrderKind selects market vs limit execution.
type OrderKind uint8

const (
	MarketOrder OrderKind = iota + 1
	LimitOrder
)

func (k OrderKind) String() string {
	switch k {
	case MarketOrder:
		return "MKT"
	case LimitOrder:
		return "LMT"
	}
	return fmt.Sprintf("OrderKind(%d)", uint8(k))
}

// Side: BUY adds to a position, SELL reduces it.
type Side uint8

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

// Sign returns +1 for BUY, -1 for SELL.
func (s Side) Sign() int64 {
	if s == Sell {
		return -1
	}
	return 1
}

// MarketEvent announces that a new bar is available for all tracked symbols.
// It carries no payload; consumers pull prices through the feed.
type MarketEvent struct{}

func (MarketEvent) EventType() Type { return Market }

// SignalEvent is produced by a strategy and consumed by the portfolio.
type SignalEvent struct {
	Symbol string
	Time   time.Time
	Kind   SignalKind
}

func (SignalEvent) EventType() Type { return Signal }

// NewSignal validates and builds a SignalEvent.
func NewSignal(symbol string, t time.Time, kind SignalKind) (SignalEvent, error) {
	if symbol == "" {
		return SignalEvent{}, fmt.Errorf("signal: symbol is required")
	}
	switch kind {
	case Long, Short, Exit:
	default:
		return SignalEvent{}, fmt.Errorf("signal: unknown kind %v", kind)
	}
	return SignalEvent{Symbol: symbol, Time: t, Kind: kind}, nil
}

// OrderEvent is produced by the portfolio and consumed by an executor.
type OrderEvent struct {
	ID       string
	Symbol   string
	Kind     OrderKind
	Quantity int64
	Side     Side
}

func (OrderEvent) EventType() Type { return Order }

// NewOrder validates and builds an OrderEvent. Quantity must be
// non-negative and the side/kind resolved; invalid orders are rejected here
// and never reach the queue.
func NewOrder(id, symbol string, kind OrderKind, quantity int64, side Side) (OrderEvent, error) {
	if symbol == "" {
		return OrderEvent{}, fmt.Errorf("order: symbol is required")
	}
	if quantity < 0 {
		return OrderEvent{}, fmt.Errorf("order: negative quantity %d", quantity)
	}
	switch kind {
	case MarketOrder, LimitOrder:
	default:
		return OrderEvent{}, fmt.Errorf("order: unknown kind %v", kind)
	}
	switch side {
	case Buy, Sell:
	default:
		return OrderEvent{}, fmt.Errorf("order: unknown side %v", side)
	}
	return OrderEvent{ID: id, Symbol: symbol, Kind: kind, Quantity: quantity, Side: side}, nil
}

// FillEvent reports an executed order back to the portfolio. FillPrice is
// the per-unit execution price and is authoritative for cash accounting.
type FillEvent struct {
	ID         string
	OrderID    string
	TimeIndex  time.Time
	Symbol     string
	Exchange   string
	Quantity   int64
	Side       Side
	FillPrice  decimal.Decimal
	Commission decimal.Decimal
}

func (FillEvent) EventType() Type { return Fill }

// NewFill builds a FillEvent with the default commission schedule applied.
func NewFill(id, orderID string, timeIndex time.Time, symbol, exchange string, quantity int64, side Side, fillPrice decimal.Decimal) (FillEvent, error) {
	return NewFillWithCommission(id, orderID, timeIndex, symbol, exchange, quantity, side, fillPrice, Commission(quantity))
}

// NewFillWithCommission builds a FillEvent with an explicit commission, for
// brokers that report their own fees.
func NewFillWithCommission(id, orderID string, timeIndex time.Time, symbol, exchange string, quantity int64, side Side, fillPrice, commission decimal.Decimal) (FillEvent, error) {
	if symbol == "" {
		return FillEvent{}, fmt.Errorf("fill: symbol is required")
	}
	if quantity < 0 {
		return FillEvent{}, fmt.Errorf("fill: negative quantity %d", quantity)
	}
	switch side {
	case Buy, Sell:
	default:
		return FillEvent{}, fmt.Errorf("fill: unknown side %v", side)
	}
	if commission.IsNegative() {
		return FillEvent{}, fmt.Errorf("fill: negative commission %s", commission)
	}
	return FillEvent{
		ID:         id,
		OrderID:    orderID,
		TimeIndex:  timeIndex,
		Symbol:     symbol,
		Exchange:   exchange,
		Quantity:   quantity,
		Side:       side,
		FillPrice:  fillPrice,
		Commission: commission,
	}, nil
}

var (
	commissionPerShare = decimal.NewFromFloat(0.005)
	commissionFloor    = decimal.NewFromInt(1)
)

// Commission is the default fee schedule: 0.005 per unit with a 1.00 floor
// per order, in the reporting currency.
func Commission(quantity int64) decimal.Decimal {
	return decimal.Max(commissionFloor, commissionPerShare.Mul(decimal.NewFromInt(quantity)))
}
