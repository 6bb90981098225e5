package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nhalm/canonlog"
)

func renderJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes the uniform error body. withStack adds the detailed
// error chain and is only enabled in development.
func renderError(w http.ResponseWriter, r *http.Request, statusCode int, err error, message string, withStack bool) {
	canonlog.AddRequestError(r.Context(), err)

	resp := NewErrorResponse(sanitizeErrorMessage(message, statusCode))
	if withStack && err != nil {
		resp.Stack = fmt.Sprintf("%+v", err)
	}
	renderJSON(w, statusCode, resp)
}

func sanitizeErrorMessage(message string, statusCode int) string {
	lowerMsg := strings.ToLower(message)

	if strings.Contains(lowerMsg, "sql") ||
		strings.Contains(lowerMsg, "database") ||
		strings.Contains(lowerMsg, "postgres") {
		if statusCode >= 500 {
			return "An internal error occurred"
		}
		return "Invalid request"
	}

	if statusCode >= 500 {
		return "An internal error occurred"
	}

	return message
}

func Success(w http.ResponseWriter, data any) {
	renderJSON(w, http.StatusOK, data)
}

func Paginated(w http.ResponseWriter, data any, page, limit int, totalItems int64) {
	renderJSON(w, http.StatusOK, NewPaginatedResponse(data, page, limit, totalItems))
}
