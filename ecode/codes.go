package ecode

import "net/http"

// Business codes.
const (
	OK                 = 0
	RequestErr         = -400
	InvalidQuery       = -401
	NotFound           = -404
	ServerErr          = -500
	BackendUnavailable = -503
	Deadline           = -504
)

// ParamErr is kept as an alias of InvalidQuery for request binding errors.
const ParamErr = InvalidQuery

var messages = map[int]string{
	OK:                 "ok",
	RequestErr:         "Invalid request",
	InvalidQuery:       "Invalid query parameters",
	NotFound:           "Resource not found",
	ServerErr:          "Internal server error",
	BackendUnavailable: "Search backend unavailable",
	Deadline:           "Deadline exceeded",
}

// Text returns the message registered for code.
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// ToHTTPStatus maps a business code to an HTTP status.
func ToHTTPStatus(code int) int {
	switch code {
	case OK:
		return http.StatusOK
	case RequestErr, InvalidQuery:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case BackendUnavailable:
		return http.StatusServiceUnavailable
	case Deadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
