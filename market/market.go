// Package market maps instrument symbols to their order books and fans a
// matching pass out across every registered instrument.
package market

import (
	"github.com/emirpasic/gods/v2/maps/linkedhashmap"

	"continuum-exchange/book"
	"continuum-exchange/domain"
)

// Market is not safe for concurrent use: it is owned exclusively by the
// engine task, which is the only goroutine ever allowed to touch it. See
// package engine.
type Market struct {
	books *linkedhashmap.Map[string, *book.Book]
}

// New returns an empty market.
func New() *Market {
	return &Market{books: linkedhashmap.New[string, *book.Book]()}
}

// Register adds a new instrument to the market. Symbols are unique; once
// registered, a book is never removed during normal operation. Registering
// an already-known symbol replaces its book.
func (m *Market) Register(symbol, name string) {
	m.books.Put(symbol, book.New(symbol, name))
}

// Get returns the book for symbol, or ok=false if the symbol is unknown.
func (m *Market) Get(symbol string) (*book.Book, bool) {
	return m.books.Get(symbol)
}

// SymbolTrades pairs one instrument's symbol with the trades its most
// recent resolution pass produced.
type SymbolTrades struct {
	Symbol string
	Trades []domain.Trade
}

// ResolveAll runs Book.Resolve over every registered instrument and
// returns one entry per book, in insertion order, even when a book
// produced no trades. Callers must not depend on the iteration order
// beyond it being deterministic within a process.
func (m *Market) ResolveAll() []SymbolTrades {
	results := make([]SymbolTrades, 0, m.books.Size())
	it := m.books.Iterator()
	for it.Next() {
		results = append(results, SymbolTrades{
			Symbol: it.Key(),
			Trades: it.Value().Resolve(),
		})
	}
	return results
}
