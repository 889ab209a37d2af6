package market

import (
	"testing"

	"continuum-exchange/domain"
)

func TestGetUnknownSymbol(t *testing.T) {
	m := New()
	if _, ok := m.Get("NOPE"); ok {
		t.Fatalf("expected unknown symbol to report ok=false")
	}
}

func TestResolveAllReturnsOneEntryPerBookInInsertionOrder(t *testing.T) {
	m := New()
	m.Register("B", "Beta")
	m.Register("A", "Alpha")

	results := m.ResolveAll()
	if len(results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(results))
	}
	if results[0].Symbol != "B" || results[1].Symbol != "A" {
		t.Errorf("expected insertion order B, A; got %s, %s", results[0].Symbol, results[1].Symbol)
	}
	if len(results[0].Trades) != 0 || len(results[1].Trades) != 0 {
		t.Errorf("expected no trades on freshly registered books")
	}
}

func TestResolveAllFansOutTrades(t *testing.T) {
	m := New()
	m.Register("V", "Vulyenne")

	b, ok := m.Get("V")
	if !ok {
		t.Fatalf("expected symbol V to be registered")
	}
	b.AddBuy(domain.NewOrder(1, 100.00, 5))
	b.AddSell(domain.NewOrder(2, 100.00, 5))

	results := m.ResolveAll()
	if len(results) != 1 || len(results[0].Trades) != 1 {
		t.Fatalf("expected one trade from the registered book, got %+v", results)
	}
}
