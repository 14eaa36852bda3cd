package querycache

import "time"

// Status is the lifecycle state of a cached read.
type Status int

const (
	// StatusPending means no fetch has completed yet.
	StatusPending Status = iota
	// StatusSuccess means the last fetch completed with a value.
	StatusSuccess
	// StatusError means the last fetch failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "pending"
	}
}

// Result is a snapshot of a cached read.
//
// Value carries the seed or last successful value even while Status is
// pending or error, so readers can keep rendering during refetches. Stale
// marks entries invalidated since their last fetch.
type Result[T any] struct {
	Status    Status
	Value     T
	Err       error
	Stale     bool
	UpdatedAt time.Time
}

// Ok reports whether the result holds a successfully fetched, non-stale value.
func (r Result[T]) Ok() bool {
	return r.Status == StatusSuccess && !r.Stale
}

// entry is the internal, type-erased state behind a Result.
type entry struct {
	key       Key
	status    Status
	value     any
	hasValue  bool
	err       error
	stale     bool
	updatedAt time.Time
}

func resultOf[T any](e *entry) Result[T] {
	r := Result[T]{
		Status:    e.status,
		Err:       e.err,
		Stale:     e.stale,
		UpdatedAt: e.updatedAt,
	}
	if e.hasValue {
		if v, ok := e.value.(T); ok {
			r.Value = v
		}
	}
	return r
}
