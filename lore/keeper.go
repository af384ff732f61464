package lore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/embedding"
	"github.com/yonghwan-ko02/talereboot/logging"
	"github.com/yonghwan-ko02/talereboot/vectorstore"
)

// Defaults for Keeper options.
const (
	DefaultCollection     = "kongjwi_story"
	DefaultTopK           = 3
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = time.Second
	DefaultConcurrency    = 4
)

const checkText = "콩쥐"

// Options configures a Keeper.
type Options struct {
	// Collection is the vector store collection holding the book.
	Collection string
	// TopK is used when Retrieve is called with topK <= 0.
	TopK int
	// MaxRetries bounds the attempts to connect the embedding provider.
	MaxRetries int
	// InitialBackoff is the first wait between attempts; it doubles afterwards.
	InitialBackoff time.Duration
	// Concurrency bounds in-flight embed calls while indexing.
	Concurrency int
	// Credential is handed to the embedding factory when building the index.
	Credential string
	// Placeholder is returned by Retrieve when no book is loaded.
	Placeholder string
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger logging.Logger
}

// Keeper owns the loaded book, the published index and the degraded flag.
// It is safe for concurrent use; sessions share one Keeper.
type Keeper struct {
	factory embedding.Factory
	store   vectorstore.Store
	opts    Options
	logger  logging.Logger

	buildMu sync.Mutex // serializes BuildIndex

	mu       sync.RWMutex
	chunks   []Chunk
	gen      uint64 // bumped by every successful LoadBook
	index    *Index
	degraded bool
}

// New creates a Keeper that embeds through factory and persists into store.
func New(factory embedding.Factory, store vectorstore.Store, optFns ...func(o *Options)) *Keeper {
	opts := Options{
		Collection:     DefaultCollection,
		TopK:           DefaultTopK,
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
		Concurrency:    DefaultConcurrency,
		Placeholder:    DefaultPlaceholder,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	return &Keeper{
		factory: factory,
		store:   store,
		opts:    opts,
		logger:  logging.OrNoOp(opts.Logger),
	}
}

// LoadBook reads the file at path and replaces the chunk list. On failure the
// previous chunks stay in place. A successful load drops any built index.
func (k *Keeper) LoadBook(path string) error {
	if path == "" {
		return core.NewError(core.CodeInvalidArgument, "book path must not be empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.WrapError(core.CodeNotFound, fmt.Sprintf("book not found: %s", path), err)
		}
		return core.WrapError(core.CodeIO, fmt.Sprintf("read book %s", path), err)
	}
	text := norm.NFC.String(string(data))
	if strings.TrimSpace(text) == "" {
		return core.Errorf(core.CodeInvalidArgument, "book %s is empty", path)
	}

	chunks := SplitText(text, ChunkSize, ChunkOverlap)

	k.mu.Lock()
	k.chunks = chunks
	k.gen++
	k.index = nil
	k.mu.Unlock()

	k.logger.Info("book loaded", "path", path, "chunks", len(chunks))
	return nil
}

// Chunks returns a copy of the loaded chunks.
func (k *Keeper) Chunks() []Chunk {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]Chunk, len(k.chunks))
	copy(out, k.chunks)
	return out
}

// Degraded reports whether the keeper fell back to keyword search for good.
func (k *Keeper) Degraded() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.degraded
}

// Indexed reports whether a vector index is currently published.
func (k *Keeper) Indexed() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.index != nil
}

// BuildIndex embeds every chunk and publishes the resulting index. With no
// book loaded it logs a warning and returns nil. Any failure switches the
// keeper into degraded mode and is returned to the caller.
func (k *Keeper) BuildIndex(ctx context.Context) error {
	k.buildMu.Lock()
	defer k.buildMu.Unlock()

	k.mu.RLock()
	chunks, gen := k.chunks, k.gen
	k.mu.RUnlock()

	if len(chunks) == 0 {
		k.logger.Warn("no chunks to index; load a book first")
		return nil
	}

	done := logging.StartTimer(k.logger, "build_index")
	idx, err := k.build(ctx, chunks)
	if err != nil {
		k.mu.Lock()
		k.degraded = true
		k.mu.Unlock()
		k.logger.Error("index build failed; using keyword fallback", "error", err)
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.gen != gen {
		// The book changed while we were embedding; the index no longer matches.
		embedding.Close(idx.embedder) //nolint:errcheck
		k.logger.Warn("book reloaded during index build; discarding index")
		return nil
	}
	k.index = idx
	done("collection", k.opts.Collection, "chunks", len(chunks))
	return nil
}

func (k *Keeper) build(ctx context.Context, chunks []Chunk) (*Index, error) {
	embedder, err := k.connect(ctx)
	if err != nil {
		return nil, core.WrapError(core.CodeConfiguration, "initialize embedding provider", err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embedding.EmbedAll(ctx, embedder, texts, k.opts.Concurrency)
	if err != nil {
		embedding.Close(embedder) //nolint:errcheck
		return nil, core.WrapError(core.CodeIO, "embed chunks", err)
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vectorstore.Record{
			ID:     uuid.NewString(),
			Index:  c.Index,
			Text:   c.Text,
			Vector: vectors[i],
		}
	}
	if err := k.store.Replace(ctx, k.opts.Collection, records); err != nil {
		embedding.Close(embedder) //nolint:errcheck
		return nil, core.WrapError(core.CodeIO, "persist index", err)
	}
	return NewIndex(k.store, k.opts.Collection, embedder), nil
}

// connect builds an embedder and proves it works with one check call,
// retrying with exponential backoff. Configuration errors are not retried.
func (k *Keeper) connect(ctx context.Context) (embedding.Embedder, error) {
	attempt := 0
	op := func() (embedding.Embedder, error) {
		attempt++
		e, err := k.factory.New(ctx, k.opts.Credential)
		if err != nil {
			if errors.Is(err, core.ErrConfiguration) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if _, err := e.Embed(ctx, checkText); err != nil {
			embedding.Close(e) //nolint:errcheck
			return nil, err
		}
		return e, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = k.opts.InitialBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(k.opts.MaxRetries)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			k.logger.Warn("embedding provider connect failed",
				"attempt", attempt, "max_attempts", k.opts.MaxRetries, "retry_in", wait, "error", err)
		}),
	)
}

// RetrieveOption customizes a single Retrieve call.
type RetrieveOption func(o *retrieveOptions)

type retrieveOptions struct {
	credential string
}

// WithCredential makes the call embed its query with a request-scoped
// embedder built from credential. Shared state is left untouched.
func WithCredential(credential string) RetrieveOption {
	return func(o *retrieveOptions) { o.credential = credential }
}

// Retrieve returns up to topK context passages for query. It never fails:
// degraded mode, a missing index and any vector search error all fall back to
// keyword search.
func (k *Keeper) Retrieve(ctx context.Context, query string, topK int, optFns ...RetrieveOption) []string {
	var ro retrieveOptions
	for _, fn := range optFns {
		fn(&ro)
	}
	if topK <= 0 {
		topK = k.opts.TopK
	}
	query = norm.NFC.String(query)

	k.mu.RLock()
	chunks, idx, degraded := k.chunks, k.index, k.degraded
	k.mu.RUnlock()

	start := time.Now()
	if degraded || idx == nil {
		out := keywordSearch(chunks, query, topK, k.opts.Placeholder)
		logging.LogRetrieval(k.logger, "keyword", len(out), time.Since(start))
		return out
	}

	results, err := k.vectorSearch(ctx, idx, query, topK, ro.credential)
	if err != nil || len(results) == 0 {
		if err != nil {
			k.logger.Warn("vector search failed; using keyword fallback", "error", err)
		}
		out := keywordSearch(chunks, query, topK, k.opts.Placeholder)
		logging.LogRetrieval(k.logger, "keyword", len(out), time.Since(start))
		return out
	}
	logging.LogRetrieval(k.logger, "vector", len(results), time.Since(start))
	return results
}

func (k *Keeper) vectorSearch(ctx context.Context, idx *Index, query string, topK int, credential string) ([]string, error) {
	if credential == "" {
		return idx.Search(ctx, query, topK)
	}
	e, err := k.factory.New(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("request embedder: %w", err)
	}
	defer embedding.Close(e) //nolint:errcheck
	return idx.WithEmbedder(e).Search(ctx, query, topK)
}

// VerifyCredential checks that candidate can drive the embedding provider by
// performing one check embed. It reports success and a short status message.
func (k *Keeper) VerifyCredential(ctx context.Context, candidate string) (bool, string) {
	if strings.TrimSpace(candidate) == "" {
		return false, "credential is empty"
	}
	e, err := k.factory.New(ctx, candidate)
	if err != nil {
		return false, fmt.Sprintf("credential rejected: %v", err)
	}
	defer embedding.Close(e) //nolint:errcheck
	if _, err := e.Embed(ctx, checkText); err != nil {
		return false, fmt.Sprintf("check embed failed: %v", err)
	}
	return true, "credential verified"
}
