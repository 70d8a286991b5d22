// Package cqrs groups the command side of the application: the handler
// contract (command), its cross-cutting wrappers (command/wrapper) and the
// type-keyed dispatcher (dispatch).
package cqrs
