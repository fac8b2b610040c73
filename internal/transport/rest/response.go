package rest

import (
	"encoding/json"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, httpStatus int, status, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(APIResponse{Status: status, Message: message, Data: data})
}

func Success(w http.ResponseWriter, message string, data interface{}) {
	respond(w, http.StatusOK, "success", message, data)
}

func ErrorUnavailable(w http.ResponseWriter, message string) {
	respond(w, http.StatusServiceUnavailable, "error", message, nil)
}
