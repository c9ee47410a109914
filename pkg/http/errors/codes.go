package errors

import "net/http"

// Messages carried in the error envelope, keyed by status.
const (
	MsgBadRequest          = "bad request"
	MsgNotFound            = "resource not found"
	MsgMethodNotAllowed    = "method not allowed"
	MsgUnprocessable       = "unprocessable"
	MsgInternalServerError = "internal server error"
)

// MessageFor returns the envelope message used for status.
func MessageFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MsgBadRequest
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusMethodNotAllowed:
		return MsgMethodNotAllowed
	case http.StatusUnprocessableEntity:
		return MsgUnprocessable
	case http.StatusInternalServerError:
		return MsgInternalServerError
	default:
		return http.StatusText(status)
	}
}
