package core

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the standard JSON envelope.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries error information to the client.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON wraps data in a 200 envelope.
func JSON(data any) Response {
	return JSONWithStatus(data, http.StatusOK)
}

// JSONWithStatus wraps data in an envelope with an explicit status.
func JSONWithStatus(data any, status int) Response {
	return jsonResponse{status: status, body: JSONResponse{Data: data}}
}

// JSONError renders an error envelope. HTTPError values keep their status
// and key; anything else collapses to an opaque 500 so internal error
// strings never leak to the client.
func JSONError(err error) Response {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{
		Code:    ErrInternalServerError.Key,
		Message: http.StatusText(status),
	}

	if httpErr, ok := err.(HTTPError); ok {
		status = httpErr.Code
		detail.Code = httpErr.Key
		detail.Message = http.StatusText(httpErr.Code)
	}

	return jsonResponse{
		status: status,
		body:   JSONResponse{Error: detail},
	}
}
