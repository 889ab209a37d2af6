// Package protocol defines the tagged request/response variants the
// engine consumes, and their JSON wire encoding (spec §4.5, §6).
package protocol

import "continuum-exchange/domain"

// QueryKind discriminates the variants of Query, mirroring the tagged
// enum original_source/src/types/query.rs defines for the same protocol.
type QueryKind int

const (
	QueryConnect QueryKind = iota
	QueryBuy
	QuerySell
	QueryOHLC
	QueryBuyOrders
	QuerySellOrders
)

// Query is one request consumed by the engine. Only the fields relevant to
// Kind are populated; Go has no closed sum type, so this follows the same
// flat tag-plus-payload shape used throughout the retrieved matching-engine
// examples (a Kind/Type enum alongside the union of possible payloads).
type Query struct {
	Kind   QueryKind
	Symbol string
	Order  *domain.Order // set for QueryBuy / QuerySell
	Sink   chan<- Response // set for QueryConnect
}

// Connect builds a Query that registers a new connection's outbound sink.
func Connect(sink chan<- Response) Query {
	return Query{Kind: QueryConnect, Sink: sink}
}

// Buy builds a Query that posts a buy order for symbol.
func Buy(symbol string, order *domain.Order) Query {
	return Query{Kind: QueryBuy, Symbol: symbol, Order: order}
}

// Sell builds a Query that posts a sell order for symbol.
func Sell(symbol string, order *domain.Order) Query {
	return Query{Kind: QuerySell, Symbol: symbol, Order: order}
}

// OHLC builds a Query requesting open/high/low/close for symbol.
func OHLC(symbol string) Query {
	return Query{Kind: QueryOHLC, Symbol: symbol}
}

// BuyOrders builds a Query requesting the aggregated buy depth for symbol.
func BuyOrders(symbol string) Query {
	return Query{Kind: QueryBuyOrders, Symbol: symbol}
}

// SellOrders builds a Query requesting the aggregated sell depth for
// symbol.
func SellOrders(symbol string) Query {
	return Query{Kind: QuerySellOrders, Symbol: symbol}
}
