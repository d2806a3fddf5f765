// Package audit owns the append-only security event model and the
// asynchronous dispatcher that forwards events to a caller-supplied
// sink. The engine only ever writes; it never reads events back to
// make control decisions.
package audit
