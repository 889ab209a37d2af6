// Package registry holds the engine's mapping from connection id to that
// connection's outbound notification sink (spec §4.7).
package registry

import "continuum-exchange/protocol"

// Registry is not safe for concurrent use: only the engine task ever reads
// or writes it (see package engine). Entries are inserted by the Connect
// query handler and pruned lazily by the engine the first time a send to
// a stale sink fails, rather than eagerly on disconnect (spec §4.7).
type Registry struct {
	sinks map[int64]chan<- protocol.Response
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{sinks: make(map[int64]chan<- protocol.Response)}
}

// Insert registers sink as connID's outbound notification channel,
// replacing any previous entry for the same id.
func (r *Registry) Insert(connID int64, sink chan<- protocol.Response) {
	r.sinks[connID] = sink
}

// Get returns connID's sink, or ok=false if it was never registered (or
// has since been pruned).
func (r *Registry) Get(connID int64) (chan<- protocol.Response, bool) {
	sink, ok := r.sinks[connID]
	return sink, ok
}

// Remove drops connID's entry. The engine does this lazily, on the first
// send failure, rather than eagerly on disconnect (spec §4.7).
func (r *Registry) Remove(connID int64) {
	delete(r.sinks, connID)
}
