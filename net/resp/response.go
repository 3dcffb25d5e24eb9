package resp

import (
	"encoding/json"
	"net/http"

	"github.com/samujjwal/rental-sub006/ecode"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"status,omitempty"`  // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Validation errors
	Data    any    `json:"data,omitempty"`    // Response data
}

// Success handles success responses.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode handles success responses with custom status code.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	if statusCode < 200 || statusCode >= 400 {
		Fail(w, &Exception{Status: statusCode})
		return
	}

	var body any = map[string]any{"message": "ok"}
	if len(data) > 0 && data[0] != nil {
		if msg, ok := data[0].(string); ok {
			body = map[string]any{"message": msg}
		} else {
			body = data[0]
		}
	}
	writeJSON(w, statusCode, body)
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = &Exception{
			Status:  http.StatusInternalServerError,
			Code:    ecode.ServerErr,
			Message: ecode.Text(ecode.ServerErr),
		}
	}
	status, body := buildFailureResponse(r)
	writeJSON(w, status, body)
}

// Error writes err as a failure, deriving status and code from its ecode.
func Error(w http.ResponseWriter, err error, details ...any) {
	code := ecode.CodeOf(err)
	ex := &Exception{
		Status:  ecode.ToHTTPStatus(code),
		Code:    code,
		Message: ecode.Text(code),
	}
	if code == ecode.InvalidQuery || code == ecode.NotFound {
		ex.Message = err.Error()
	}
	if len(details) > 0 {
		ex.Errors = details[0]
	}
	Fail(w, ex)
}

// BadRequest writes a RequestErr failure with message.
func BadRequest(w http.ResponseWriter, message string, errs ...any) {
	ex := &Exception{Status: http.StatusBadRequest, Code: ecode.RequestErr, Message: message}
	if len(errs) > 0 {
		ex.Errors = errs[0]
	}
	Fail(w, ex)
}

func buildFailureResponse(r *Exception) (int, *Exception) {
	status := http.StatusBadRequest
	code := ecode.RequestErr

	if r.Status != 0 {
		status = r.Status
	}
	if r.Code != 0 {
		code = r.Code
	}
	message := r.Message
	if message == "" {
		message = ecode.Text(code)
	}

	return status, &Exception{
		Code:    code,
		Message: message,
		Errors:  r.Errors,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
