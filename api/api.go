package api

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v with the given status code as the response body
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
