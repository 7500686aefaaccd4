// Package contextkeys carries request-scoped values through context.Context.
package contextkeys

type ctxKey int

const (
	loggerKey ctxKey = iota
	traceIDKey
	identityKey
)
