package srvcerror

import "net/http"

// Error is the error type returned by service-layer operations. It carries a
// stable machine-readable code, a message that is safe to show to the user,
// and a private debug error that is only ever logged.
type Error struct {
	errorCode string
	msgToUser string
	dbgErr    error

	httpStatus int // optional, for HTTP responses
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) DebugInfo() error {
	return e.dbgErr
}

func (e *Error) SetDebug(err error) *Error {
	e.dbgErr = err
	return e
}

func (e *Error) HttpStatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

func (e *Error) SetHttpStatusCode(code int) *Error {
	e.httpStatus = code
	return e
}

const ErrCodeInternalServer = "internal_server_error"

func ErrInternalSE() *Error {
	return New(
		ErrCodeInternalServer,
		"An unexpected error occurred, please try again later",
	).SetHttpStatusCode(http.StatusInternalServerError)
}
