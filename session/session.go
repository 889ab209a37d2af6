// Package session adapts one accepted network connection onto the
// engine's channel protocol (spec §4.8): it owns the connection's id,
// frames the wire protocol, and runs the reader/writer pumps that move
// bytes in and out while the engine only ever sees Queries and Responses.
package session

import (
	"bufio"
	"net"
	"sync/atomic"

	"go.uber.org/zap"

	"continuum-exchange/engine"
	"continuum-exchange/protocol"
)

// OutboundBuffer is the bound on a session's outbound queue. Once a slow
// client's queue is full, the engine's send to it blocks, which stalls the
// engine for every other connection until the queue drains.
const OutboundBuffer = 64

var nextConnID atomic.Int64

// Session runs the reader/writer pumps for one accepted connection.
type Session struct {
	id      int64
	conn    net.Conn
	inbound chan<- engine.Envelope
	outbox  chan protocol.Response
	log     *zap.Logger
}

// New allocates a fresh connection id and wires a Session to it. inbound
// is the engine's shared request channel.
func New(conn net.Conn, inbound chan<- engine.Envelope, log *zap.Logger) *Session {
	return &Session{
		id:      nextConnID.Add(1),
		conn:    conn,
		inbound: inbound,
		outbox:  make(chan protocol.Response, OutboundBuffer),
		log:     log,
	}
}

// Serve runs the session to completion: it registers with the engine,
// starts the writer pump, and reads requests until the connection closes
// or the engine disappears. It blocks until the session ends.
func (s *Session) Serve() {
	defer s.conn.Close()
	s.log = s.log.With(zap.Int64("conn_id", s.id))

	writerDone := make(chan struct{})
	go s.writePump(writerDone)

	if !s.send(protocol.Connect(s.outbox)) {
		close(s.outbox)
		<-writerDone
		return
	}

	s.readPump()

	close(s.outbox)
	<-writerDone
}

// readPump decodes one newline-delimited JSON request per line and turns
// it into an engine envelope. Malformed input is answered directly,
// without ever reaching the engine (spec §7 item 1).
func (s *Session) readPump() {
	scanner := bufio.NewScanner(s.conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		query, err := protocol.DecodeRequest(line, s.id)
		if err != nil {
			s.log.Debug("malformed request", zap.Error(err))
			s.outbox <- protocol.MalformedRequest()
			continue
		}
		if !s.send(query) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Debug("connection read error", zap.Error(err))
	}
}

// send submits query to the engine, reporting market closed on this
// session's own outbox if the engine is gone (spec §7 item 5). It returns
// false when the session should stop reading further requests.
func (s *Session) send(query protocol.Query) bool {
	defer func() {
		if r := recover(); r != nil {
			s.outbox <- protocol.MarketClosed()
		}
	}()
	s.inbound <- engine.Envelope{ConnID: s.id, Query: query}
	return true
}

// writePump encodes and writes every response queued for this connection,
// one JSON object per line, until the outbox is closed.
func (s *Session) writePump(done chan<- struct{}) {
	defer close(done)
	w := bufio.NewWriter(s.conn)
	for resp := range s.outbox {
		data, err := protocol.EncodeResponse(resp)
		if err != nil {
			s.log.Error("failed to encode response", zap.Error(err))
			continue
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			s.log.Debug("connection write error", zap.Error(err))
			return
		}
		if err := w.Flush(); err != nil {
			s.log.Debug("connection flush error", zap.Error(err))
			return
		}
	}
}
