package httphandler

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/ghremote/internal/domain/port/driven"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeFailure maps a failed facade call onto an HTTP response. Provider
// responses keep their status code and message; local failures get a status
// that fits the cause; anything else is a 502.
func (h *Handler) writeFailure(w http.ResponseWriter, op string, err error) {
	if status, message, ok := remoteStatus(err); ok {
		h.logger.Info("remote call rejected", "op", op, "status", status, "error", err)
		writeError(w, status, message)
		return
	}

	switch {
	case errors.Is(err, driven.ErrUnsupportedCredentialType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, driven.ErrEncryptionKeyNotSet):
		h.logger.Warn("ssh key store unavailable", "op", op, "error", err)
		writeError(w, http.StatusServiceUnavailable, "ssh key storage is not configured")
	default:
		h.logger.Error("remote call failed", "op", op, "error", err)
		writeError(w, http.StatusBadGateway, "remote provider request failed")
	}
}

// remoteStatus extracts the provider's HTTP status and message from the error
// types go-github returns for non-2xx responses.
func remoteStatus(err error) (int, string, bool) {
	var resp *http.Response
	var message string

	var ghErr *gh.ErrorResponse
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr):
		resp, message = rateErr.Response, rateErr.Message
	case errors.As(err, &abuseErr):
		resp, message = abuseErr.Response, abuseErr.Message
	case errors.As(err, &ghErr):
		resp, message = ghErr.Response, ghErr.Message
	default:
		return 0, "", false
	}

	if resp == nil {
		return 0, "", false
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return resp.StatusCode, message, true
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// CommentRequest is the JSON body for the issue comment endpoint.
type CommentRequest struct {
	Body string `json:"body"`
}

// CreatePullRequestRequest is the JSON body for the create pull request endpoint.
type CreatePullRequestRequest struct {
	Head  string `json:"head"`
	Base  string `json:"base"`
	Title string `json:"title"`
}

// UpdatePullRequestRequest is the JSON body for the update pull request endpoint.
// Omitted fields are left unchanged.
type UpdatePullRequestRequest struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
	State *string `json:"state,omitempty"`
	Base  *string `json:"base,omitempty"`
}

// UploadKeyRequest is the JSON body for the SSH key upload endpoint.
type UploadKeyRequest struct {
	Title string `json:"title"`
}
