package api

import (
	"encoding/json"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	// Names and emails are echoed back verbatim, so don't escape &, < and >.
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(data)
}
