package errors

// Default messages used when a handler has nothing more specific to say.
const (
	MsgBadRequest         = "bad request"
	MsgInvalidJSON        = "request body must be a JSON object"
	MsgNotFound           = "resource not found"
	MsgMethodNotAllowed   = "method not allowed"
	MsgUnprocessable      = "unprocessable"
	MsgInternalError      = "internal server error"
	MsgServiceUnavailable = "service unavailable"
)
