package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeOpError maps the controller error taxonomy onto HTTP statuses:
// validation failures surface their message, unknown references 404 as a
// logged no-op, anything else is an internal error.
func writeOpError(w http.ResponseWriter, err error) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Message)
		return
	}
	var missing *NotFoundError
	if errors.As(err, &missing) {
		log.Printf("operation skipped error=%v", err)
		writeError(w, http.StatusNotFound, missing.Error())
		return
	}
	log.Printf("operation failed error=%v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
