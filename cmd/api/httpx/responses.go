package httpx

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the body of every JSON response the API writes.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

/* Writes a JSON response into a http.ResponseWriter. */
func JSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func JSONSuccess(w http.ResponseWriter, status int, message string, data any) error {
	return JSON(w, status, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// JSONFail answers a request the client got wrong (4xx).
func JSONFail(w http.ResponseWriter, status int, message string) error {
	return JSON(w, status, Envelope{Status: StatusFail, Message: message})
}

// JSONError answers a request the server could not handle (5xx).
func JSONError(w http.ResponseWriter, status int, message string) error {
	return JSON(w, status, Envelope{Status: StatusError, Message: message})
}
