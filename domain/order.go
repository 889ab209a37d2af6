// Package domain holds the value types shared by the book, market, and
// engine packages: orders, trades, and OHLC statistics.
package domain

import "sync/atomic"

// PricePrecision is the fixed-point scaling factor applied to real-valued
// prices. A price of 150.505 is stored internally as 15050 (truncated, not
// rounded).
const PricePrecision = 100

// clock hands out strictly increasing timestamps for new orders: a
// process-wide counter, not wall-clock time. Two orders constructed back to
// back in the same process always compare unequal and in construction
// order, so the earlier side of a match is always well defined. Queue
// position at equal price is not taken from this timestamp; it comes from
// the book's stable sort, i.e. insertion order.
var clock atomic.Int64

func nextTimestamp() int64 {
	for {
		prev := clock.Load()
		now := prev + 1
		if clock.CompareAndSwap(prev, now) {
			return now
		}
	}
}

// Order is a single resting or incoming limit order for one instrument.
//
// Price is never mutated after construction. Quantity only ever decreases,
// via Resolve. An order whose Quantity has reached zero is spent and must
// be dropped by its owning Book before the next tick completes.
type Order struct {
	CreatorID int64
	Price     int64 // fixed-point, real price * PricePrecision, truncated
	Quantity  int64 // residual, non-negative
	Time      int64 // monotonic, strictly increasing within a process
}

// NewOrder truncates realPrice to the precision grid and stamps the order
// with the next monotonic timestamp.
func NewOrder(creatorID int64, realPrice float64, quantity int64) *Order {
	return &Order{
		CreatorID: creatorID,
		Price:     int64(realPrice * PricePrecision),
		Quantity:  quantity,
		Time:      nextTimestamp(),
	}
}

// RealPrice returns the order's price adjusted back out of fixed-point.
func (o *Order) RealPrice() float64 {
	return float64(o.Price) / PricePrecision
}

// Value returns the residual notional value of the order (price * quantity),
// adjusted out of fixed-point.
func (o *Order) Value() float64 {
	return float64(o.Price*o.Quantity) / PricePrecision
}

// Spent reports whether the order has no residual quantity left.
func (o *Order) Spent() bool {
	return o.Quantity <= 0
}

// Resolve decrements the order's residual quantity by n. The caller must
// ensure n does not exceed the current quantity.
func (o *Order) Resolve(n int64) {
	o.Quantity -= n
}
