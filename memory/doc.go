// Package memory implements the narrator's two-tier dialogue memory.
//
// Short-term memory keeps the most recent turns verbatim; long-term memory is
// a single running summary. Memory.Transfer moves the oldest turns out of the
// short-term container and folds them into the summary through a Folder,
// usually backed by the generative model.
//
// Rationale: bounded prompt size at the cost of exact recall for old turns.
package memory
