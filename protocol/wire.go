package protocol

import (
	"encoding/json"
	"fmt"

	"continuum-exchange/domain"
)

// wireRequest mirrors the request object shape from spec §6. price and
// quantity are only required for buy/sell requests.
type wireRequest struct {
	Type     string   `json:"type"`
	Symbol   string   `json:"symbol"`
	Price    *float64 `json:"price"`
	Quantity *int64   `json:"quantity"`
}

// DecodeRequest parses one wire request object into a Query. creatorID is
// assigned server-side (the session's connection id) and is never read
// from the client.
func DecodeRequest(data []byte, creatorID int64) (Query, error) {
	var req wireRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return Query{}, err
	}
	if req.Symbol == "" {
		return Query{}, fmt.Errorf("protocol: missing symbol")
	}

	switch req.Type {
	case "buy", "sell":
		if req.Price == nil || req.Quantity == nil {
			return Query{}, fmt.Errorf("protocol: %s requires price and quantity", req.Type)
		}
		order := domain.NewOrder(creatorID, *req.Price, *req.Quantity)
		if req.Type == "buy" {
			return Buy(req.Symbol, order), nil
		}
		return Sell(req.Symbol, order), nil
	case "ohlc":
		return OHLC(req.Symbol), nil
	case "buy_orders":
		return BuyOrders(req.Symbol), nil
	case "sell_orders":
		return SellOrders(req.Symbol), nil
	default:
		return Query{}, fmt.Errorf("protocol: unknown request type %q", req.Type)
	}
}

type wireOrderLevel struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// EncodeResponse renders a Response as its spec §6 wire object.
func EncodeResponse(r Response) ([]byte, error) {
	switch r.Kind {
	case RespConnected:
		return json.Marshal(struct {
			Response string `json:"response"`
		}{"connected"})

	case RespOrderPosted:
		return json.Marshal(struct {
			Response string `json:"response"`
		}{"order_posted"})

	case RespQueriedOrders:
		levels := make([]wireOrderLevel, len(r.Orders))
		for i, l := range r.Orders {
			levels[i] = wireOrderLevel{Price: l.Price, Quantity: l.Quantity}
		}
		return json.Marshal(struct {
			Response string           `json:"response"`
			Orders   []wireOrderLevel `json:"orders"`
		}{"queried_orders", levels})

	case RespOHLC:
		var open, high, low, close *float64
		if r.OHLCSet {
			open, high, low, close = &r.Open, &r.High, &r.Low, &r.Close
		}
		return json.Marshal(struct {
			Response string   `json:"response"`
			Open     *float64 `json:"open"`
			High     *float64 `json:"high"`
			Low      *float64 `json:"low"`
			Close    *float64 `json:"close"`
		}{"ohlc", open, high, low, close})

	case RespExecutedTrade:
		return json.Marshal(struct {
			Response string  `json:"response"`
			BuyerID  int64   `json:"buyer_id"`
			SellerID int64   `json:"seller_id"`
			Price    float64 `json:"price"`
			Quantity int64   `json:"quantity"`
		}{"executed_trade", r.BuyerID, r.SellerID, r.Price, r.Quantity})

	case RespSymbolNotFound:
		return json.Marshal(struct {
			Response string `json:"response"`
		}{"symbol_not_found"})

	case RespMarketClosed:
		return json.Marshal(struct {
			Response string `json:"response"`
		}{"market closed"})

	case RespMalformedRequest:
		return json.Marshal(struct {
			Response string `json:"response"`
		}{"malformed request"})

	default:
		return nil, fmt.Errorf("protocol: unknown response kind %d", r.Kind)
	}
}
