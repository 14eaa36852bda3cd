package querycodec

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
)

// Decode fills a typed filter struct from URL query values. Unknown query
// keys are ignored so unrelated parameters on the same URL do not fail the
// decode. Field mapping uses `schema` struct tags.
func Decode(query url.Values, dst any) error {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(dst, query); err != nil {
		return fmt.Errorf("querycodec: decode query: %w", err)
	}
	return nil
}

// Encode converts a typed filter struct into URL query values using
// `schema` struct tags.
func Encode(src any) (url.Values, error) {
	vals := url.Values{}
	if err := schema.NewEncoder().Encode(src, vals); err != nil {
		return nil, fmt.Errorf("querycodec: encode query: %w", err)
	}
	return vals, nil
}
