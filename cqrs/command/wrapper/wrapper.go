// Package wrapper provides decorators for command handlers.
//
// Every wrapper implements command.Command itself and calls the next handler
// exactly once per Execute. The dispatcher composes them in a fixed order:
//
//	MetaInject -> Tracing -> Logging -> ExecutionTime -> Timeout -> Recovery -> handler
//
// Logging and ExecutionTime are always present; the others are opt-in.
package wrapper
