package core

import "sync"

// CallLimiter caps the number of model calls made on behalf of one session.
type CallLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewCallLimiter creates a limiter allowing max calls. If max <= 0, unlimited
// calls are allowed.
func NewCallLimiter(max int) *CallLimiter {
	if max < 0 {
		max = 0
	}
	return &CallLimiter{max: max}
}

// Acquire counts one call. Once max calls were made it returns a
// LimitExceeded error and the count stays unchanged.
func (cl *CallLimiter) Acquire() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.max > 0 && cl.count >= cl.max {
		return Errorf(CodeLimitExceeded, "model call limit of %d reached", cl.max)
	}
	cl.count++
	return nil
}

// Count returns the number of calls made so far.
func (cl *CallLimiter) Count() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	return cl.count
}

// Remaining returns how many calls are left, or -1 when unlimited.
func (cl *CallLimiter) Remaining() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.max == 0 {
		return -1
	}
	return cl.max - cl.count
}
