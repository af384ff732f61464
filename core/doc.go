// Package core provides the foundational types shared by every layer of the
// narrative engine:
//
//   - Message (a role tagged prompt segment exchanged with model providers)
//   - Error (the coded domain error taxonomy used across packages)
//   - CallLimiter (a per-session budget of model calls)
//
// The package intentionally keeps implementation concerns (providers, storage,
// orchestration) out of scope so that leaf packages such as ledger, lore and
// narrator can share contracts without dependency cycles.
package core
