package querycodec

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ArrayFormat controls how sequence-valued fields are encoded.
type ArrayFormat int

const (
	// ArrayBrackets encodes sequences as repeated bracket pairs: tags[]=a&tags[]=b.
	ArrayBrackets ArrayFormat = iota
	// ArrayRepeat encodes sequences as repeated plain pairs: tags=a&tags=b.
	ArrayRepeat
	// ArrayComma encodes sequences as one comma-joined pair: tags=a,b.
	ArrayComma
)

// Options configures encoding and decoding behavior.
type Options struct {
	// ArrayFormat selects the sequence encoding style.
	ArrayFormat ArrayFormat

	// SkipNull omits fields whose value is nil.
	SkipNull bool

	// SkipEmpty omits fields whose value is the empty string.
	SkipEmpty bool
}

// DefaultOptions returns the encoding policy used for URL reflection:
// bracket arrays, nil and empty-string fields omitted.
func DefaultOptions() Options {
	return Options{
		ArrayFormat: ArrayBrackets,
		SkipNull:    true,
		SkipEmpty:   true,
	}
}

// Stringify encodes a field map as a URL query string (no leading "?").
// Field order is deterministic: names are sorted. Fields skipped by the
// options are omitted entirely rather than encoded empty.
func Stringify(values map[string]any, opts Options) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var pairs []string
	for _, name := range names {
		pairs = appendField(pairs, name, values[name], opts)
	}
	return strings.Join(pairs, "&")
}

func appendField(pairs []string, name string, value any, opts Options) []string {
	elems, isNull := fieldElements(value)
	if isNull {
		if opts.SkipNull {
			return pairs
		}
		return append(pairs, url.QueryEscape(name)+"=")
	}

	if elems == nil {
		// Scalar
		s := formatScalar(value)
		if s == "" && opts.SkipEmpty {
			return pairs
		}
		return append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(s))
	}

	if len(elems) == 0 {
		return pairs
	}

	switch opts.ArrayFormat {
	case ArrayComma:
		return append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(strings.Join(elems, ",")))
	case ArrayRepeat:
		for _, e := range elems {
			pairs = append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(e))
		}
		return pairs
	default:
		for _, e := range elems {
			pairs = append(pairs, url.QueryEscape(name+"[]")+"="+url.QueryEscape(e))
		}
		return pairs
	}
}

// fieldElements classifies a field value. It returns (elems, false) for
// sequences, (nil, true) for nil values and (nil, false) for scalars.
func fieldElements(value any) ([]string, bool) {
	if value == nil {
		return nil, true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, true
		}
		return fieldElements(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		elems := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elems = append(elems, formatScalar(rv.Index(i).Interface()))
		}
		return elems, false
	default:
		return nil, false
	}
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

// Parse decodes a query string (with or without a leading "?") into a field
// map. Bracketed names and repeated names collapse to []string values; all
// other values are plain strings. With ArrayComma, comma-joined values split
// into []string.
func Parse(raw string, opts Options) (map[string]any, error) {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return map[string]any{}, nil
	}

	query, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("querycodec: parse %q: %w", raw, err)
	}

	out := make(map[string]any, len(query))
	for name, vals := range query {
		isArray := strings.HasSuffix(name, "[]")
		field := strings.TrimSuffix(name, "[]")

		if opts.SkipEmpty {
			kept := vals[:0:0]
			for _, v := range vals {
				if v != "" {
					kept = append(kept, v)
				}
			}
			vals = kept
		}
		if len(vals) == 0 {
			continue
		}

		switch {
		case isArray || len(vals) > 1:
			out[field] = append([]string(nil), vals...)
		case opts.ArrayFormat == ArrayComma && strings.Contains(vals[0], ","):
			out[field] = strings.Split(vals[0], ",")
		default:
			out[field] = vals[0]
		}
	}
	return out, nil
}
