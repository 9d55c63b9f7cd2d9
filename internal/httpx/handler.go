// Package httpx is a convenience wrapper around the http.ServeMux type that
// allows us to return errors from our handlers.
// see https://blog.questionable.services/article/http-handler-error-handling-revisited/ for more details.
package httpx

import (
	"errors"
	"net/http"

	"github.com/go-json-experiment/json"
	"golang.org/x/exp/slog"
)

// Error is a convenience function for returning an error with an associated HTTP status code.
func Error(code int, err error) error {
	return &StatusError{code, err}
}

// StatusError represents an error with an associated HTTP status code.
type StatusError struct {
	Code int
	Err  error
}

// Allows StatusError to satisfy the error interface.
func (se *StatusError) Error() string {
	return se.Err.Error()
}

func (se *StatusError) Unwrap() error {
	return se.Err
}

// Returns our HTTP status code.
func (se *StatusError) Status() int {
	return se.Code
}

// HandlerFunc adapts a function that returns an error to an http.HandlerFunc.
// Errors are logged to the environment's Log, if it has one, and rendered
// as a JSON object with a single error key.
func HandlerFunc[E any](envFn func(r *http.Request) *E, fn func(*E, http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := envFn(r)
		err := fn(env, w, r)
		if err == nil {
			return
		}
		logger := slog.Default()
		if l, ok := any(env).(interface{ Log() *slog.Logger }); ok {
			logger = l.Log()
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if se := new(StatusError); errors.As(err, &se) {
			logger.Info("request failed", "method", r.Method, "path", r.URL.Path, "status", se.Status(), "err", err)
			w.WriteHeader(se.Status())
			json.MarshalWrite(w, map[string]any{
				"error": se.Error(),
			})
			return
		}
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", http.StatusInternalServerError, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.MarshalWrite(w, map[string]any{
			"error": http.StatusInternalServerError,
		})
	}
}
