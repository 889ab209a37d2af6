package engine

import "continuum-exchange/protocol"

// Envelope pairs an inbound query with the connection id that sent it
// (spec §4.6: "a session produces (conn_id, Query) pairs into a single
// inbound channel").
type Envelope struct {
	ConnID int64
	Query  protocol.Query
}
