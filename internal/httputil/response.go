// Package httputil provides shared JSON response helpers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"rakort/orders-api/internal/apperr"
)

// ErrorBody is the JSON shape every failed request gets back.
type ErrorBody struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes err as a JSON error response with the status implied by
// its kind. Foreign errors become a generic 500.
func Error(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.NewInternal(err)
	}
	JSON(w, ae.Kind.HTTPStatus(), ErrorBody{Error: ae.Message, Fields: ae.Fields})
}
