// Package narrator is the narrative memory and scene engine. A Narrator turns
// a player action plus retrieved background text into one model call, keeps a
// two-tier memory of the conversation and advances the scene when the model
// signals that the current chapter's obstacle was resolved.
//
// Each session owns its own Narrator; it is not shared between players.
package narrator
