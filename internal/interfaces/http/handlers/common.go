// Package handlers implements the JSON endpoints of the API server.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/internal/interfaces/http/middleware"
	"github.com/turtacn/mini-spade/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeAppError maps err to its HTTP status.  Server errors are logged with
// their cause and answered with the generic message only.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	var ae *errors.AppError
	if !stderrors.As(err, &ae) {
		ae = errors.Wrap(err, errors.CodeInternal, "unexpected error")
	}

	status := errors.HTTPStatusForCode(ae.Code)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("request_id", middleware.GetRequestID(r.Context())),
			logging.String("code", ae.Code.String()),
			logging.Err(err),
		)
		writeJSON(w, status, ErrorResponse{
			Code:    ae.Code.String(),
			Message: http.StatusText(http.StatusInternalServerError),
		})
		return
	}

	writeJSON(w, status, ErrorResponse{
		Code:    ae.Code.String(),
		Message: ae.Message,
		Detail:  ae.Detail,
	})
}

// MethodNotAllowed answers any unsupported method on a known route.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Code:    errors.CodeMethodNotAllowed.String(),
		Message: "Method Not Allowed",
	})
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Code:    errors.CodeNotFound.String(),
		Message: "Not Found",
	})
}

// queryInt reads an optional integer parameter.  An absent or empty value
// yields def; anything that is not an integer is an InvalidParameter error.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidParam(name + " must be a positive integer").
			WithDetail(name + "=" + raw).WithCause(err)
	}
	return v, nil
}

//Personal.AI order the ending
