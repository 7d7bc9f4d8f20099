// Package response writes the API's JSON envelopes. Every success body
// carries "success": true plus the caller's payload keys, mirroring what the
// storefront clients expect:
//
//	response.OK(w, response.M{"product": p})
//	// → {"success":true,"product":{...}}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/priyamehta/aarohi/pkg/apperr"
	"github.com/priyamehta/aarohi/pkg/logger"
)

// M is a response payload.
type M map[string]interface{}

func write(w http.ResponseWriter, status int, body M) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// OK sends a 200 with the payload merged into a success envelope.
func OK(w http.ResponseWriter, payload M) {
	success(w, http.StatusOK, payload)
}

// Created sends a 201 with the payload merged into a success envelope.
func Created(w http.ResponseWriter, payload M) {
	success(w, http.StatusCreated, payload)
}

func success(w http.ResponseWriter, status int, payload M) {
	body := M{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	write(w, status, body)
}

// Fail sends an error envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, M{"success": false, "message": message})
}

// Error maps err through the apperr taxonomy. Client errors surface their
// message; internal errors are logged and masked.
func Error(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		Fail(w, status, "Internal Server Error")
		return
	}
	Fail(w, status, err.Error())
}

// ValidationFailed sends a 422 with field-level error messages.
func ValidationFailed(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, M{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Fail(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Fail(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Fail(w, http.StatusNotFound, "Not found")
}
