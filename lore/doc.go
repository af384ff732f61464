// Package lore is the knowledge retrieval engine. A Keeper loads the source
// tale, splits it into overlapping chunks, embeds them into a vector store
// collection and answers context queries for the narrator.
//
// Retrieval never fails from the caller's point of view: when the embedding
// provider cannot be reached the keeper switches permanently into degraded mode
// and serves results from a keyword search over the loaded chunks.
//
// Usage:
//
//	k := lore.New(factory, store)
//	if err := k.LoadBook("kongjwi.txt"); err != nil { ... }
//	if err := k.BuildIndex(ctx); err != nil {
//	    // degraded; Retrieve still works
//	}
//	ctx := k.Retrieve(ctx, "두꺼비가 나타났다", 3)
package lore
