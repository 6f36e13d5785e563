package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/ghremote/internal/domain/model"
)

// ErrUnsupportedCredentialType is returned by ClientFactory.NewClient when the
// supplied credentials name an authentication scheme the adapter cannot build.
var ErrUnsupportedCredentialType = errors.New("unsupported credential type")

// RemoteClient defines the driven port for the remote provider's REST API.
// Every method issues exactly one request and returns the decoded payload as is.
// Errors from the provider are returned unchanged.
type RemoteClient interface {
	// Repositories

	GetRepository(ctx context.Context, owner, repo string) (*model.Repository, error)
	ListUserRepositories(ctx context.Context, user string, page model.Page) ([]*model.Repository, error)
	ListOrganizationRepositories(ctx context.Context, org string, page model.Page) ([]*model.Repository, error)
	// ListAllRepositories lists repositories visible to the authenticated user.
	ListAllRepositories(ctx context.Context, page model.Page) ([]*model.Repository, error)
	ListForks(ctx context.Context, owner, repo string, page model.Page) ([]*model.Repository, error)
	CreateFork(ctx context.Context, owner, repo string) (*model.Repository, error)
	ListCollaborators(ctx context.Context, owner, repo string, page model.Page) ([]*model.Collaborator, error)

	// Issues and pull requests

	CommentIssue(ctx context.Context, owner, repo string, number int, body string) (*model.IssueComment, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*model.PullRequest, error)
	ListPullRequests(ctx context.Context, owner, repo string, page model.Page) ([]*model.PullRequest, error)
	CreatePullRequest(ctx context.Context, owner, repo, head, base, title string) (*model.PullRequest, error)
	UpdatePullRequest(ctx context.Context, owner, repo string, number int, update model.PullRequestUpdate) (*model.PullRequest, error)

	// Users and organizations

	ListOrganizations(ctx context.Context, page model.Page) ([]*model.Organization, error)
	GetCurrentUser(ctx context.Context) (*model.User, error)
	// CreateKey registers publicKey on the authenticated user's account under title.
	CreateKey(ctx context.Context, title, publicKey string) (*model.Key, error)
}

// ClientFactory builds a transient RemoteClient for one call. A nil props, or
// props without credentials, yields an anonymous client.
type ClientFactory interface {
	NewClient(props *model.Properties) (RemoteClient, error)
}
