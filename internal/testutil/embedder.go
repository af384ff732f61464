package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/yonghwan-ko02/talereboot/embedding"
)

// ErrStub is the default error returned by failing stubs.
var ErrStub = errors.New("stub failure")

// StubFactory is an embedding.Factory whose behaviour is configured with a
// fluent builder. It wraps MockEmbedder and records every credential it sees.
// Example:
//
//	f := NewStubFactory().FailConnect(2).Build()
//
// Chain only the behaviours you need; the zero configuration always succeeds.
type StubFactory struct {
	dim          int
	connectFails int32
	connectErr   error
	embedErr     error
	rejected     map[string]error

	connects atomic.Int32
	closed   atomic.Int32

	mu          sync.Mutex
	credentials []string
}

// NewStubFactory creates a factory producing 32-dimensional mock embedders.
func NewStubFactory() *StubFactory {
	return &StubFactory{dim: 32, connectErr: ErrStub, rejected: map[string]error{}}
}

// FailConnect makes the first n calls to New fail with err (ErrStub when nil).
func (f *StubFactory) FailConnect(n int, err ...error) *StubFactory {
	f.connectFails = int32(n)
	if len(err) > 0 && err[0] != nil {
		f.connectErr = err[0]
	}
	return f
}

// FailEmbed makes every embedder created by the factory fail with err.
func (f *StubFactory) FailEmbed(err error) *StubFactory { f.embedErr = err; return f }

// Reject makes New fail with err for the given credential.
func (f *StubFactory) Reject(credential string, err error) *StubFactory {
	f.rejected[credential] = err
	return f
}

// Build finalizes the configuration.
func (f *StubFactory) Build() *StubFactory { return f }

// New implements embedding.Factory.
func (f *StubFactory) New(_ context.Context, credential string) (embedding.Embedder, error) {
	f.mu.Lock()
	f.credentials = append(f.credentials, credential)
	f.mu.Unlock()

	n := f.connects.Add(1)
	if err, ok := f.rejected[credential]; ok {
		return nil, err
	}
	if n <= f.connectFails {
		return nil, f.connectErr
	}
	return &stubEmbedder{MockEmbedder: embedding.NewMockEmbedder(f.dim), factory: f}, nil
}

// Connects returns how many times New was called.
func (f *StubFactory) Connects() int { return int(f.connects.Load()) }

// Closed returns how many embedders have been closed.
func (f *StubFactory) Closed() int { return int(f.closed.Load()) }

// Credentials returns the credentials passed to New, in call order.
func (f *StubFactory) Credentials() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.credentials...)
}

type stubEmbedder struct {
	*embedding.MockEmbedder
	factory *StubFactory
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.factory.embedErr != nil {
		return nil, e.factory.embedErr
	}
	return e.MockEmbedder.Embed(ctx, text)
}

func (e *stubEmbedder) Close() error {
	e.factory.closed.Add(1)
	return nil
}
