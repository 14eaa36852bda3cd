package querycache

import "strings"

// Separator joins key segments in the flat string form handed to stores.
const Separator = ":"

// MaxKeyLength is the maximum allowed length for a flattened cache key.
const MaxKeyLength = 512

// Key is an ordered sequence of segments namespacing one cache entry.
// The leading segments identify a logical filter/data group; trailing
// segments distinguish the entries within it.
type Key []string

// NewKey builds a key from segments.
func NewKey(segments ...string) Key {
	return Key(segments)
}

// Append returns a new key with extra segments added. The receiver is not
// modified.
func (k Key) Append(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	return append(out, segments...)
}

// String flattens the key into the form used by stores.
func (k Key) String() string {
	return strings.Join(k, Separator)
}

// HasPrefix reports whether p is a segment-wise prefix of k.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i, seg := range p {
		if k[i] != seg {
			return false
		}
	}
	return true
}

// Overlaps reports whether one key is a segment-wise prefix of the other.
func (k Key) Overlaps(other Key) bool {
	return k.HasPrefix(other) || other.HasPrefix(k)
}

// ValidateKey checks if a key is usable for caching.
func ValidateKey(k Key) error {
	if len(k) == 0 {
		return ErrInvalidKey
	}
	for _, seg := range k {
		if seg == "" || strings.TrimSpace(seg) == "" {
			return ErrInvalidKey
		}
		if strings.ContainsAny(seg, Separator+"\n\r") {
			return ErrInvalidKey
		}
	}
	if len(k.String()) > MaxKeyLength {
		return ErrKeyTooLong
	}
	return nil
}
