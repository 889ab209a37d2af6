// Package engine implements the single-task, tick-driven scheduler that
// owns the Market and the connection registry (spec §4.6).
//
// The engine is the sole mutator of both: no other goroutine ever touches
// a Book, a Market, or the Registry after construction. Sessions only ever
// write Envelopes into the inbound channel and read Responses back off
// their own sink — the engine is the only place state is shared, and it
// shares nothing, by construction rather than by lock.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"continuum-exchange/book"
	"continuum-exchange/market"
	"continuum-exchange/protocol"
	"continuum-exchange/registry"
)

// Tick is the fixed scheduling period. Missed ticks collapse into the
// next one; there is no tick queue.
const Tick = 10 * time.Millisecond

// Engine runs the matching loop described in spec §4.6.
type Engine struct {
	Inbound chan Envelope

	market   *market.Market
	registry *registry.Registry
	log      *zap.Logger
}

// New builds an engine over m, reading envelopes from a channel of the
// given buffer size.
func New(m *market.Market, inboundBuf int, log *zap.Logger) *Engine {
	return &Engine{
		Inbound:  make(chan Envelope, inboundBuf),
		market:   m,
		registry: registry.New(),
		log:      log,
	}
}

// Run drives the engine's tick loop until ctx is cancelled or every
// producer of Inbound has dropped (the channel is closed and drained).
// Run is blocking and is meant to be the entire body of the engine's
// goroutine.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine shutting down", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			e.resolveAndDispatch()
			if !e.drainInbound() {
				e.log.Info("engine exiting: no sessions remain")
				return
			}
		}
	}
}

// resolveAndDispatch runs one resolution pass over every book and routes
// the resulting trades to both counterparties, buyer first (spec §5,
// ordering guarantee 3).
func (e *Engine) resolveAndDispatch() {
	for _, st := range e.market.ResolveAll() {
		for _, tr := range st.Trades {
			resp := protocol.ExecutedTrade(tr.BuyerID, tr.SellerID, tr.Price, tr.Quantity)
			e.notify(tr.BuyerID, resp)
			e.notify(tr.SellerID, resp)
		}
	}
}

// notify pushes resp to connID's sink. A missing sink is logged and
// skipped — it is never fatal (spec §4.7, §7 item 4).
func (e *Engine) notify(connID int64, resp protocol.Response) {
	sink, ok := e.registry.Get(connID)
	if !ok {
		e.log.Debug("dropping notification: no sink registered", zap.Int64("conn_id", connID))
		return
	}
	e.deliver(connID, sink, resp)
}

// deliver sends resp to sink, recovering from a send on a sink whose
// session has already closed it. A session's outbox is closed the moment
// Serve returns, but the registry entry for that connection is pruned
// lazily — so the engine can still be asked to route a trade or reply to
// a connection that vanished between the last tick and this one. That
// must never take down the single engine goroutine that owns every book
// (spec §4.7, §7 item 4): the panic is caught, logged, and the stale
// entry is pruned so future sends to this conn_id skip straight to the
// no-sink path instead of panicking again.
func (e *Engine) deliver(connID int64, sink chan<- protocol.Response, resp protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Debug("dropping delivery: sink already closed", zap.Int64("conn_id", connID))
			e.registry.Remove(connID)
		}
	}()
	sink <- resp
}

// drainInbound non-blockingly services every pending envelope. It returns
// false once Inbound is closed and empty, signalling Run to stop.
func (e *Engine) drainInbound() bool {
	for {
		select {
		case env, ok := <-e.Inbound:
			if !ok {
				return false
			}
			e.handle(env)
		default:
			return true
		}
	}
}

func (e *Engine) handle(env Envelope) {
	q := env.Query

	if q.Kind == protocol.QueryConnect {
		e.registry.Insert(env.ConnID, q.Sink)
		e.deliver(env.ConnID, q.Sink, protocol.Connected())
		return
	}

	sink, ok := e.registry.Get(env.ConnID)
	if !ok {
		e.log.Warn("query from unregistered connection", zap.Int64("conn_id", env.ConnID))
		return
	}

	b, ok := e.market.Get(q.Symbol)
	if !ok {
		e.deliver(env.ConnID, sink, protocol.SymbolNotFound())
		return
	}

	switch q.Kind {
	case protocol.QueryBuy:
		b.AddBuy(q.Order)
		e.deliver(env.ConnID, sink, protocol.OrderPosted())
	case protocol.QuerySell:
		b.AddSell(q.Order)
		e.deliver(env.ConnID, sink, protocol.OrderPosted())
	case protocol.QueryOHLC:
		open, high, low, close, set := b.OHLC()
		e.deliver(env.ConnID, sink, protocol.OHLCResponse(open, high, low, close, set))
	case protocol.QueryBuyOrders:
		e.deliver(env.ConnID, sink, protocol.QueriedOrdersResponse(toLevels(b.BuyDepth())))
	case protocol.QuerySellOrders:
		e.deliver(env.ConnID, sink, protocol.QueriedOrdersResponse(toLevels(b.SellDepth())))
	}
}

func toLevels(levels []book.PriceLevel) []protocol.OrderLevel {
	out := make([]protocol.OrderLevel, len(levels))
	for i, l := range levels {
		out[i] = protocol.OrderLevel{Price: l.Price, Quantity: l.Quantity}
	}
	return out
}
