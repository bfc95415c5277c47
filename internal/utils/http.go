package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body written for failed API requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON serializes data to JSON and writes it with statusCode and the
// "application/json" content type. If marshaling fails the client receives
// 500 Internal Server Error and the wrapped error is returned.
//
// Example usage:
//
//	utils.WriteJSON(w, status, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// WriteError writes err's message as an ErrorResponse.
func WriteError(w http.ResponseWriter, err error, statusCode int) {
	_, _ = WriteJSON(w, ErrorResponse{Error: err.Error()}, statusCode)
}
