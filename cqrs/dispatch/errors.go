package dispatch

const (
	// CodeNoHandlerForCommand is returned when a command of an unregistered type is dispatched.
	CodeNoHandlerForCommand = "NO_HANDLER_FOR_COMMAND"

	// CodeUnresolvedHandlerType is returned when a handler's command type cannot be
	// resolved to a concrete type at registration.
	CodeUnresolvedHandlerType = "UNRESOLVED_HANDLER_TYPE"

	// CodeUnexpectedResult is returned by Send when a handler result has an unexpected type.
	CodeUnexpectedResult = "UNEXPECTED_COMMAND_RESULT"
)
