package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/ericfisherdev/ghremote/internal/application"
	"github.com/ericfisherdev/ghremote/internal/domain/model"
)

// Handler is the HTTP driving adapter that exposes the remote facade as a JSON API.
type Handler struct {
	remote *application.RemoteService
	keys   *application.KeyProvisioner
	logger *slog.Logger
}

// NewHandler creates a Handler. keys may be nil, in which case the key upload
// endpoint answers 503.
func NewHandler(remote *application.RemoteService, keys *application.KeyProvisioner, logger *slog.Logger) *Handler {
	return &Handler{
		remote: remote,
		keys:   keys,
		logger: logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}", h.GetRepository)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/forks", h.ListForks)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/forks", h.CreateFork)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/collaborators", h.ListCollaborators)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/issues/{number}/comments", h.CommentIssue)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/pulls", h.ListPullRequests)
	mux.HandleFunc("POST /api/v1/repos/{owner}/{repo}/pulls", h.CreatePullRequest)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/pulls/{number}", h.GetPullRequest)
	mux.HandleFunc("PATCH /api/v1/repos/{owner}/{repo}/pulls/{number}", h.UpdatePullRequest)
	mux.HandleFunc("GET /api/v1/users/{user}/repos", h.ListUserRepositories)
	mux.HandleFunc("GET /api/v1/orgs/{org}/repos", h.ListOrganizationRepositories)
	mux.HandleFunc("GET /api/v1/user", h.GetCurrentUser)
	mux.HandleFunc("GET /api/v1/user/repos", h.ListAllRepositories)
	mux.HandleFunc("GET /api/v1/user/orgs", h.ListOrganizations)
	mux.HandleFunc("POST /api/v1/user/keys", h.UploadSSHKey)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// GetRepository returns a single repository.
func (h *Handler) GetRepository(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withRepo)
	if !ok {
		return
	}

	repo, err := h.remote.GetRepository(r.Context(), req.owner, req.repo, req.props)
	h.respond(w, "get repository", http.StatusOK, repo, err)
}

// ListUserRepositories returns one page of a user's repositories.
func (h *Handler) ListUserRepositories(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withPage)
	if !ok {
		return
	}
	user := r.PathValue("user")
	if !isValidName(user) {
		writeError(w, http.StatusBadRequest, "invalid user name")
		return
	}

	repos, err := h.remote.ListUserRepositories(r.Context(), user, req.page, req.props)
	h.respond(w, "list user repositories", http.StatusOK, repos, err)
}

// ListOrganizationRepositories returns one page of an organization's repositories.
func (h *Handler) ListOrganizationRepositories(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withPage)
	if !ok {
		return
	}
	org := r.PathValue("org")
	if !isValidName(org) {
		writeError(w, http.StatusBadRequest, "invalid organization name")
		return
	}

	repos, err := h.remote.ListOrganizationRepositories(r.Context(), org, req.page, req.props)
	h.respond(w, "list organization repositories", http.StatusOK, repos, err)
}

// ListAllRepositories returns one page of the repositories visible to the caller.
func (h *Handler) ListAllRepositories(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withPage)
	if !ok {
		return
	}

	repos, err := h.remote.ListAllRepositories(r.Context(), req.page, req.props)
	h.respond(w, "list all repositories", http.StatusOK, repos, err)
}

// ListForks returns one page of a repository's forks.
func (h *Handler) ListForks(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withRepo|withPage)
	if !ok {
		return
	}

	forks, err := h.remote.ListForks(r.Context(), req.owner, req.repo, req.page, req.props)
	h.respond(w, "list forks", http.StatusOK, forks, err)
}

// CreateFork forks a repository. The provider creates forks asynchronously,
// so the response is 202 Accepted.
func (h *Handler) CreateFork(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withRepo)
	if !ok {
		return
	}

	fork, err := h.remote.CreateFork(r.Context(), req.owner, req.repo, req.props)
	h.respond(w, "create fork", http.StatusAccepted, fork, err)
}

// ListCollaborators returns one page of a repository's collaborators.
func (h *Handler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withRepo|withPage)
	if !ok {
		return
	}

	users, err := h.remote.ListCollaborators(r.Context(), req.owner, req.repo, req.page, req.props)
	h.respond(w, "list collaborators", http.StatusOK, users, err)
}

// CommentIssue posts a comment on an issue or pull request.
func (h *Handler) CommentIssue(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withRepo|withNumber)
	if !ok {
		return
	}

	var body CommentRequest
	if !decodeBody(w, r, &body) {
		return
	}

	comment, err := h.remote.CommentIssue(r.Context(), req.owner, req.repo, req.number, body.Body, req.props)
	h.respond(w, "comment issue", http.StatusCreated, comment, err)
}

// GetPullRequest returns a single pull request.
func (h *Handler) GetPullRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withRepo|withNumber)
	if !ok {
		return
	}

	pr, err := h.remote.GetPullRequest(r.Context(), req.owner, req.repo, req.number, req.props)
	h.respond(w, "get pull request", http.StatusOK, pr, err)
}

// ListPullRequests returns one page of a repository's pull requests.
func (h *Handler) ListPullRequests(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withRepo|withPage)
	if !ok {
		return
	}

	prs, err := h.remote.ListPullRequests(r.Context(), req.owner, req.repo, req.page, req.props)
	h.respond(w, "list pull requests", http.StatusOK, prs, err)
}

// CreatePullRequest opens a pull request.
func (h *Handler) CreatePullRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withRepo)
	if !ok {
		return
	}

	var body CreatePullRequestRequest
	if !decodeBody(w, r, &body) {
		return
	}

	pr, err := h.remote.CreatePullRequest(r.Context(), req.owner, req.repo, body.Head, body.Base, body.Title, req.props)
	h.respond(w, "create pull request", http.StatusCreated, pr, err)
}

// UpdatePullRequest edits the title, body, state or base branch of a pull request.
func (h *Handler) UpdatePullRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withRepo|withNumber)
	if !ok {
		return
	}

	var body UpdatePullRequestRequest
	if !decodeBody(w, r, &body) {
		return
	}

	update := model.PullRequestUpdate{
		Title: body.Title,
		Body:  body.Body,
		State: body.State,
		Base:  body.Base,
	}
	pr, err := h.remote.UpdatePullRequest(r.Context(), req.owner, req.repo, req.number, update, req.props)
	h.respond(w, "update pull request", http.StatusOK, pr, err)
}

// ListOrganizations returns one page of the caller's organizations.
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, withPage)
	if !ok {
		return
	}

	orgs, err := h.remote.ListOrganizations(r.Context(), req.page, req.props)
	h.respond(w, "list organizations", http.StatusOK, orgs, err)
}

// GetCurrentUser returns the user the request's credentials belong to.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, 0)
	if !ok {
		return
	}

	user, err := h.remote.GetCurrentUser(r.Context(), req.props)
	h.respond(w, "get current user", http.StatusOK, user, err)
}

// UploadSSHKey uploads the local SSH public key under the requested title,
// generating a keypair first if none exists.
func (h *Handler) UploadSSHKey(w http.ResponseWriter, r *http.Request) {
	if h.keys == nil {
		writeError(w, http.StatusServiceUnavailable, "ssh key provisioning is not configured")
		return
	}

	req, ok := h.parse(w, r, 0)
	if !ok {
		return
	}

	var body UploadKeyRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	key, err := h.keys.UploadSSHKey(r.Context(), body.Title, req.props)
	h.respond(w, "upload ssh key", http.StatusCreated, key, err)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// respond writes payload with status on success, or maps err to an error response.
func (h *Handler) respond(w http.ResponseWriter, op string, status int, payload any, err error) {
	if err != nil {
		h.writeFailure(w, op, err)
		return
	}
	writeJSON(w, status, payload)
}

// decodeBody decodes the JSON request body into dst, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
