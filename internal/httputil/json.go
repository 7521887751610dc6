package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse carries a stable machine-readable reason alongside the human
// message.
type ErrorResponse struct {
	Status  string `json:"status"`
	Reason  string `json:"reason"`
	Message string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, reason, msg string) {
	WriteJSON(w, code, ErrorResponse{Status: "error", Reason: reason, Message: msg})
}
