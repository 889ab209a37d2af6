// Package book implements the price-time priority order book for a single
// instrument: adding resting orders, resolving trades between them, and
// reporting aggregated depth and OHLC statistics.
package book

import (
	"sort"

	"continuum-exchange/domain"
)

// DepthLevels is the number of distinct price levels reported by
// BuyDepth/SellDepth.
const DepthLevels = 5

// PriceLevel is one aggregated price level: the total residual quantity
// resting across every order at that price.
type PriceLevel struct {
	Price    float64
	Quantity int64
}

// Book holds the two price-ordered order queues for one instrument plus
// its running OHLC statistics.
//
// buyOrders is kept sorted descending by price (best bid first); sellOrders
// ascending (best ask first). Within a price both are sorted ascending by
// submission time, via a stable sort, so earlier arrivals keep their
// earlier position at equal price.
//
// Book is not safe for concurrent use. It is owned exclusively by the
// engine task for its entire lifetime — see package engine.
type Book struct {
	Symbol string
	Name   string

	buyOrders  []*domain.Order
	sellOrders []*domain.Order
	ohlc       domain.OHLC
}

// New creates an empty book for the given symbol/name pair.
func New(symbol, name string) *Book {
	return &Book{Symbol: symbol, Name: name}
}

// AddBuy appends a buy order and re-sorts the buy queue.
func (b *Book) AddBuy(o *domain.Order) {
	b.buyOrders = append(b.buyOrders, o)
	sortDescending(b.buyOrders)
}

// AddSell appends a sell order and re-sorts the sell queue.
func (b *Book) AddSell(o *domain.Order) {
	b.sellOrders = append(b.sellOrders, o)
	sortAscending(b.sellOrders)
}

func sortDescending(orders []*domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Price > orders[j].Price
	})
}

func sortAscending(orders []*domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Price < orders[j].Price
	})
}

// Resolve runs one matching pass over the book and returns every trade it
// produced, in the order they were generated.
//
// Outer loop walks buys from the head (highest bid first):
//   - stop entirely once the sell side is empty, or once the best ask
//     exceeds the current buy's price (no later buy can match either,
//     since buys are sorted descending).
//   - inner loop walks sells from the head, skipping already-drained
//     orders, matching while buy.Price >= sell.Price and stopping the
//     inner loop the first time it doesn't (sells are ascending, so no
//     later sell in this pass can match this buy).
//
// Execution price is the price of whichever side was submitted earlier
// (ties broken toward the buyer); execution quantity is
// min(buy.Quantity, sell.Quantity). Spent orders are compacted out of both
// queues after the pass, preserving the surviving orders' relative order.
func (b *Book) Resolve() []domain.Trade {
	var trades []domain.Trade

	for _, buy := range b.buyOrders {
		if len(b.sellOrders) == 0 {
			break
		}
		if b.sellOrders[0].Price > buy.Price {
			break
		}

		for _, sell := range b.sellOrders {
			if sell.Spent() {
				continue
			}
			if buy.Price < sell.Price {
				break
			}

			price := buy.RealPrice()
			if sell.Time < buy.Time {
				price = sell.RealPrice()
			}
			qty := min64(buy.Quantity, sell.Quantity)

			buy.Resolve(qty)
			sell.Resolve(qty)
			trades = append(trades, domain.Trade{
				BuyerID:  buy.CreatorID,
				SellerID: sell.CreatorID,
				Price:    price,
				Quantity: qty,
			})
			b.ohlc.Update(price)

			if buy.Spent() {
				break
			}
		}
	}

	b.buyOrders = compact(b.buyOrders)
	b.sellOrders = compact(b.sellOrders)

	return trades
}

func compact(orders []*domain.Order) []*domain.Order {
	survivors := orders[:0]
	for _, o := range orders {
		if !o.Spent() {
			survivors = append(survivors, o)
		}
	}
	return survivors
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// BuyDepth returns up to DepthLevels distinct price levels from the head
// of the buy queue, each aggregated by total residual quantity, sorted
// descending (same direction as the book).
func (b *Book) BuyDepth() []PriceLevel {
	return depth(b.buyOrders)
}

// SellDepth returns up to DepthLevels distinct price levels from the head
// of the sell queue, each aggregated by total residual quantity, sorted
// ascending (same direction as the book).
func (b *Book) SellDepth() []PriceLevel {
	return depth(b.sellOrders)
}

func depth(orders []*domain.Order) []PriceLevel {
	levels := make([]PriceLevel, 0, DepthLevels)
	index := make(map[int64]int, DepthLevels)

	for _, o := range orders {
		if i, ok := index[o.Price]; ok {
			levels[i].Quantity += o.Quantity
			continue
		}
		if len(levels) >= DepthLevels {
			break
		}
		index[o.Price] = len(levels)
		levels = append(levels, PriceLevel{Price: o.RealPrice(), Quantity: o.Quantity})
	}

	return levels
}

// OHLC returns the book's open/high/low/close statistics. ok is false
// until the first trade has ever executed against this book.
func (b *Book) OHLC() (open, high, low, close float64, ok bool) {
	return b.ohlc.Values()
}
