// Package observe provides structured logging for filterkit components.
//
// It defines a minimal Logger interface with a JSON implementation and a
// no-op logger. Components accept a Logger and default to the no-op when
// none is supplied.
package observe
