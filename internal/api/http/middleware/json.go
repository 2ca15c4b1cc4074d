package middleware

import (
	"encoding/json"
	"net/http"

	todosv1 "todo-service/pkg/todos/v1"
)

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(todosv1.ErrorResponse{Error: message, Code: code})
}
