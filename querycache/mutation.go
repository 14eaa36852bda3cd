package querycache

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MutationStatus is the lifecycle state of a mutation handle.
type MutationStatus int

const (
	// MutationIdle means the mutation has not run yet.
	MutationIdle MutationStatus = iota
	// MutationPending means a run is in flight.
	MutationPending
	// MutationSuccess means the last run completed.
	MutationSuccess
	// MutationError means the last run failed.
	MutationError
)

func (s MutationStatus) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationSuccess:
		return "success"
	case MutationError:
		return "error"
	default:
		return "idle"
	}
}

// MutationOptions configures a mutation handle.
type MutationOptions[R any] struct {
	// OnSuccess runs after a successful mutation, before Run returns.
	// Cache invalidation and any follow-up side effects belong here;
	// it never runs on failure.
	OnSuccess func(ctx context.Context, result R)
}

// Mutation is a reusable handle around an external write.
//
// Contract:
// - Concurrency: safe for concurrent use, but runs are not coalesced;
//   with concurrent runs the last to complete owns the final state.
// - Errors: failures stay on the handle; there is no retry.
type Mutation[A, R any] struct {
	id        string
	client    *Client
	fn        func(ctx context.Context, arg A) (R, error)
	onSuccess func(ctx context.Context, result R)

	mu     sync.Mutex
	status MutationStatus
	err    error
	data   R
}

// NewMutation creates a mutation handle. The client is only used for
// telemetry and may be nil.
func NewMutation[A, R any](c *Client, fn func(ctx context.Context, arg A) (R, error), opts MutationOptions[R]) *Mutation[A, R] {
	return &Mutation[A, R]{
		id:        uuid.NewString(),
		client:    c,
		fn:        fn,
		onSuccess: opts.OnSuccess,
	}
}

// Run executes the write. On success the result is recorded and OnSuccess
// runs before Run returns; on failure only the handle's error state
// changes.
func (m *Mutation[A, R]) Run(ctx context.Context, arg A) (R, error) {
	m.mu.Lock()
	m.status = MutationPending
	m.err = nil
	m.mu.Unlock()

	result, err := m.fn(ctx, arg)
	if m.client != nil {
		m.client.metrics.recordMutation(ctx, err)
	}

	m.mu.Lock()
	if err != nil {
		m.status = MutationError
		m.err = err
	} else {
		m.status = MutationSuccess
		m.data = result
	}
	m.mu.Unlock()

	if err != nil {
		var zero R
		return zero, err
	}
	if m.onSuccess != nil {
		m.onSuccess(ctx, result)
	}
	return result, nil
}

// ID returns the handle's unique identifier.
func (m *Mutation[A, R]) ID() string {
	return m.id
}

// Status returns the current lifecycle state.
func (m *Mutation[A, R]) Status() MutationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Err returns the last run's error, if any.
func (m *Mutation[A, R]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Data returns the last successful result.
func (m *Mutation[A, R]) Data() R {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}
