package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/adisood/mandi/internal/domain"
	"github.com/adisood/mandi/internal/middleware"
)

// maxBodySize caps JSON request bodies. Cart and auth payloads are tiny;
// admin product payloads carry image URL lists at most.
const maxBodySize = 1 << 20

// envelope is the standard JSON response shape.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeData writes a success envelope with the given status.
func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeError maps a domain error to an HTTP status and writes the error
// envelope. Internal errors are logged with their cause; the client only
// sees the generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := middleware.ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &errorBody{Code: code, Message: message},
	})
}

// decodeJSON decodes a request body into dst, rejecting unknown fields and
// oversized or trailing content.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("", "Invalid request body")
	}
	if dec.More() {
		return domain.Invalid("", "Request body must contain a single JSON object")
	}
	return nil
}

// requireUserID returns the authenticated user's ID or writes a 401. Routes
// using it are mounted behind RequireAuth; this is the fallback when they are
// not.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, r, domain.Unauthorized("", "Authentication required"))
		return "", false
	}
	return userID, true
}
