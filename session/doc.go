// Package session holds per-player game state: the choice ledger, the
// narrator with its memory, and a turn counter. A Session serializes its own
// turns; sessions are independent and may run concurrently.
//
// Store implementations keep sessions addressable by id. Only the in-memory
// store is provided; add other backends without changing calling code.
package session
