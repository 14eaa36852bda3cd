// Package querycodec encodes and decodes filter values as URL query strings.
//
// It provides a map-based Stringify/Parse pair with configurable array
// encoding and empty-value omission, plus gorilla/schema based helpers for
// callers whose filter values are typed structs.
package querycodec
