// Package ledger tracks the player's recorded choices for one game session and
// derives the reboot score and the projected ending from them. It also owns the
// scene state (current chapter and whether its central obstacle is resolved).
//
// A Ledger is pure in-memory state with no external dependency. It is safe for
// concurrent readers; writers are expected to be serialized by the owning
// session.
package ledger
