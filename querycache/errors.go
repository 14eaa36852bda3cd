package querycache

import "errors"

// Sentinel errors for cache operations.
var (
	ErrNilClient  = errors.New("querycache: client is nil")
	ErrInvalidKey = errors.New("querycache: key is invalid")
	ErrKeyTooLong = errors.New("querycache: key exceeds max length")
)
