// Package httputil carries the JSON conventions shared by the catalog API:
// a status envelope on the way out, a size-capped decode on the way in.
package httputil

import (
	"encoding/json"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies. Catalog writes are small JSON
// documents; anything larger is a mistake.
const maxBodyBytes = 1 << 20

// Envelope wraps every response: "ok" with a payload, or "error" with a
// Problem.
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *Problem    `json:"error,omitempty"`
}

// Problem describes a failed request with a machine-readable code.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{Status: "ok", Data: data})
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{
		Status: "error",
		Error:  &Problem{Code: code, Message: message},
	})
}

func ReadJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}
