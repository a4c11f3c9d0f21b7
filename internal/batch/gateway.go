package batch

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Add and AddBatch after Close.
var ErrClosed = errors.New("batch gateway closed")

// Failure pairs a submitted item with the error that rejected it.
type Failure[T any] struct {
	Item T
	Err  error
}

// Result partitions one flush into accepted and rejected items. For every
// flush len(Successful)+len(Failed) equals the number of items in that flush.
type Result[T any] struct {
	Successful []T
	Failed     []Failure[T]
}

// Total returns the number of items accounted for by the result.
func (r Result[T]) Total() int {
	return len(r.Successful) + len(r.Failed)
}

// ProcessFunc handles one flushed group. itemErrs is parallel to items: a
// non-nil entry fails only that item. A non-nil err instead fails the whole
// group with the same error. A nil itemErrs slice means every item succeeded.
type ProcessFunc[T any] func(ctx context.Context, items []T) (itemErrs []error, err error)

// Gateway accumulates work items and hands them to a ProcessFunc in bounded
// groups, either when the buffer fills or when the oldest buffered item has
// waited past maxWait.
//
// One mutex serializes every buffer mutation and the downstream call itself.
// The gateway fronts a rate-limited authority, so the serialization is the
// point: concurrent producers may block on Add while a flush is in flight.
type Gateway[T any] struct {
	mu      sync.Mutex
	process ProcessFunc[T]
	size    int
	maxWait time.Duration
	now     func() time.Time

	buf    []T
	oldest time.Time
	closed bool
}

// Option configures optional Gateway behavior.
type Option[T any] func(*Gateway[T])

// WithNow overrides the wall clock used for wait-time checks. Tests use this
// to trigger time-based flushes deterministically.
func WithNow[T any](now func() time.Time) Option[T] {
	return func(g *Gateway[T]) {
		if now != nil {
			g.now = now
		}
	}
}

// New constructs a gateway that flushes groups of up to size items to process.
func New[T any](size int, maxWait time.Duration, process ProcessFunc[T], opts ...Option[T]) (*Gateway[T], error) {
	if size < 1 {
		return nil, errors.New("batch size must be at least 1")
	}
	if process == nil {
		return nil, errors.New("process func required")
	}
	g := &Gateway[T]{
		process: process,
		size:    size,
		maxWait: maxWait,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Add buffers one item. When the buffer reaches the configured size the
// accumulated group is processed immediately and its Result returned;
// otherwise Add returns nil.
func (g *Gateway[T]) Add(ctx context.Context, item T) (*Result[T], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, ErrClosed
	}

	if len(g.buf) == 0 {
		g.oldest = g.now()
	}
	g.buf = append(g.buf, item)
	if len(g.buf) < g.size {
		return nil, nil
	}
	result := g.flushLocked(ctx)
	return &result, nil
}

// AddBatch buffers many items, returning one Result per flush it triggered.
func (g *Gateway[T]) AddBatch(ctx context.Context, items []T) ([]Result[T], error) {
	var results []Result[T]
	for _, item := range items {
		result, err := g.Add(ctx, item)
		if err != nil {
			return results, err
		}
		if result != nil {
			results = append(results, *result)
		}
	}
	return results, nil
}

// Flush forces processing of whatever is buffered. Flushing an empty buffer
// returns an empty Result without invoking the downstream function.
func (g *Gateway[T]) Flush(ctx context.Context) Result[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.flushLocked(ctx)
}

// FlushIfNeeded flushes only when the oldest buffered item has waited at
// least the configured maximum. Returns nil when no flush happened.
func (g *Gateway[T]) FlushIfNeeded(ctx context.Context) *Result[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.buf) == 0 {
		return nil
	}
	if g.now().Sub(g.oldest) < g.maxWait {
		return nil
	}
	result := g.flushLocked(ctx)
	return &result
}

// Close flushes remaining items and rejects further submissions.
func (g *Gateway[T]) Close(ctx context.Context) Result[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	result := g.flushLocked(ctx)
	g.closed = true
	return result
}

// Pending reports how many items are buffered.
func (g *Gateway[T]) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.buf)
}

func (g *Gateway[T]) flushLocked(ctx context.Context) Result[T] {
	items := g.buf
	g.buf = nil
	g.oldest = time.Time{}
	if len(items) == 0 {
		return Result[T]{}
	}

	itemErrs, groupErr := g.process(ctx, items)
	result := Result[T]{}
	if groupErr != nil {
		result.Failed = make([]Failure[T], 0, len(items))
		for _, item := range items {
			result.Failed = append(result.Failed, Failure[T]{Item: item, Err: groupErr})
		}
		return result
	}
	for i, item := range items {
		if i < len(itemErrs) && itemErrs[i] != nil {
			result.Failed = append(result.Failed, Failure[T]{Item: item, Err: itemErrs[i]})
			continue
		}
		result.Successful = append(result.Successful, item)
	}
	return result
}
