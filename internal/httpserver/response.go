package httpserver

import (
	"encoding/json"
	"net/http"
)

// body mirrors the teacher's JSend success envelope (pkg/response/response.go).
type body struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, body{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorBody{Status: "error", Message: message})
}
