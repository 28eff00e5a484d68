package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

type Error struct {
	code        string
	statusCode  int
	description string
}

func (err Error) Error() string {
	return fmt.Sprintf("%s %s", err.code, err.description)
}

func (err Error) StatusCode() int {
	return err.statusCode
}

func NewError(code string, status int, description string) Error {
	return Error{
		code:        code,
		statusCode:  status,
		description: description,
	}
}

// WriteError writes err as a JSON error response. Errors that are not an
// Error are logged and answered with an opaque internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr Error
	if !errors.As(err, &apiErr) {
		slog.ErrorContext(r.Context(), "internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		apiErr = NewError("INTERNAL_ERROR", http.StatusInternalServerError, "internal error")
	}

	WriteJSON(w, response{
		Error: apiErr.description,
		Code:  apiErr.code,
	}, apiErr.statusCode)
}

type response struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
