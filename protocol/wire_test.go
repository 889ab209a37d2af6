package protocol

import (
	"encoding/json"
	"testing"
)

func TestDecodeRequestBuy(t *testing.T) {
	q, err := DecodeRequest([]byte(`{"type":"buy","symbol":"V","price":150.5,"quantity":10}`), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Kind != QueryBuy || q.Symbol != "V" {
		t.Fatalf("unexpected query: %+v", q)
	}
	if q.Order.CreatorID != 7 || q.Order.Quantity != 10 {
		t.Errorf("unexpected order: %+v", q.Order)
	}
}

func TestDecodeRequestMalformed(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{"type":"buy","symbol":"V"}`),      // missing price/quantity
		[]byte(`{"type":"nonsense","symbol":"V"}`), // unknown type
		[]byte(`{"type":"ohlc"}`),                  // missing symbol
	}
	for _, raw := range cases {
		if _, err := DecodeRequest(raw, 1); err == nil {
			t.Errorf("expected error decoding %s", raw)
		}
	}
}

func TestResponseRoundTripsSemantically(t *testing.T) {
	cases := []Response{
		Connected(),
		OrderPosted(),
		SymbolNotFound(),
		MarketClosed(),
		MalformedRequest(),
		OHLCResponse(150, 155, 145, 148, true),
		OHLCResponse(0, 0, 0, 0, false),
		QueriedOrdersResponse([]OrderLevel{{Price: 150.5, Quantity: 10}}),
		ExecutedTrade(1, 2, 150.00, 5),
	}

	for _, want := range cases {
		data, err := EncodeResponse(want)
		if err != nil {
			t.Fatalf("encode error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("produced invalid JSON: %v", err)
		}

		switch want.Kind {
		case RespOHLC:
			if want.OHLCSet && decoded["open"] == nil {
				t.Errorf("expected non-null open, got %s", data)
			}
			if !want.OHLCSet && decoded["open"] != nil {
				t.Errorf("expected null open, got %s", data)
			}
		case RespMarketClosed:
			if decoded["response"] != "market closed" {
				t.Errorf("unexpected discriminator: %s", data)
			}
		case RespMalformedRequest:
			if decoded["response"] != "malformed request" {
				t.Errorf("unexpected discriminator: %s", data)
			}
		}
	}
}
