package filters

import "errors"

// Sentinel errors for coordinator construction.
var (
	ErrNilClient           = errors.New("filters: cache client is nil")
	ErrNilRouter           = errors.New("filters: router is nil")
	ErrMissingGetData      = errors.New("filters: GetData is required")
	ErrMissingParseQuery   = errors.New("filters: ParseQuery is required")
	ErrMissingReadAccessor = errors.New("filters: GetFiltersValues is required")
	ErrMissingWriteAccess  = errors.New("filters: SetFiltersValues is required")
)
