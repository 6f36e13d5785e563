package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/ghremote/internal/domain/model"
	"github.com/ericfisherdev/ghremote/internal/domain/port/driven"
)

// RemoteService is the facade over the remote provider. Each method builds a
// transient client for the supplied properties, issues exactly one call and
// returns the payload and error from that call unchanged.
type RemoteService struct {
	factory driven.ClientFactory
}

// NewRemoteService creates a RemoteService that obtains clients from factory.
func NewRemoteService(factory driven.ClientFactory) *RemoteService {
	return &RemoteService{factory: factory}
}

func (s *RemoteService) client(props *model.Properties) (driven.RemoteClient, error) {
	client, err := s.factory.NewClient(props)
	if err != nil {
		return nil, fmt.Errorf("creating remote client: %w", err)
	}
	return client, nil
}

// GetRepository returns a single repository.
func (s *RemoteService) GetRepository(ctx context.Context, owner, repo string, props *model.Properties) (*model.Repository, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.GetRepository(ctx, owner, repo)
}

// ListUserRepositories returns one page of a user's repositories.
func (s *RemoteService) ListUserRepositories(ctx context.Context, user string, page model.Page, props *model.Properties) ([]*model.Repository, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.ListUserRepositories(ctx, user, page)
}

// ListOrganizationRepositories returns one page of an organization's repositories.
func (s *RemoteService) ListOrganizationRepositories(ctx context.Context, org string, page model.Page, props *model.Properties) ([]*model.Repository, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.ListOrganizationRepositories(ctx, org, page)
}

// ListAllRepositories returns one page of the repositories visible to the caller.
func (s *RemoteService) ListAllRepositories(ctx context.Context, page model.Page, props *model.Properties) ([]*model.Repository, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.ListAllRepositories(ctx, page)
}

// ListForks returns one page of a repository's forks.
func (s *RemoteService) ListForks(ctx context.Context, owner, repo string, page model.Page, props *model.Properties) ([]*model.Repository, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.ListForks(ctx, owner, repo, page)
}

// CreateFork forks a repository into the caller's account.
func (s *RemoteService) CreateFork(ctx context.Context, owner, repo string, props *model.Properties) (*model.Repository, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.CreateFork(ctx, owner, repo)
}

// CommentIssue posts body as a comment on issue or pull request number.
func (s *RemoteService) CommentIssue(ctx context.Context, owner, repo string, number int, body string, props *model.Properties) (*model.IssueComment, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.CommentIssue(ctx, owner, repo, number, body)
}

// GetPullRequest returns a single pull request.
func (s *RemoteService) GetPullRequest(ctx context.Context, owner, repo string, number int, props *model.Properties) (*model.PullRequest, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.GetPullRequest(ctx, owner, repo, number)
}

// ListPullRequests returns one page of a repository's pull requests.
func (s *RemoteService) ListPullRequests(ctx context.Context, owner, repo string, page model.Page, props *model.Properties) ([]*model.PullRequest, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.ListPullRequests(ctx, owner, repo, page)
}

// CreatePullRequest opens a pull request from head into base.
func (s *RemoteService) CreatePullRequest(ctx context.Context, owner, repo, head, base, title string, props *model.Properties) (*model.PullRequest, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.CreatePullRequest(ctx, owner, repo, head, base, title)
}

// UpdatePullRequest edits the title, body, state or base of a pull request.
func (s *RemoteService) UpdatePullRequest(ctx context.Context, owner, repo string, number int, update model.PullRequestUpdate, props *model.Properties) (*model.PullRequest, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.UpdatePullRequest(ctx, owner, repo, number, update)
}

// ListOrganizations returns one page of the caller's organizations.
func (s *RemoteService) ListOrganizations(ctx context.Context, page model.Page, props *model.Properties) ([]*model.Organization, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.ListOrganizations(ctx, page)
}

// GetCurrentUser returns the user the credentials belong to.
func (s *RemoteService) GetCurrentUser(ctx context.Context, props *model.Properties) (*model.User, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.GetCurrentUser(ctx)
}

// ListCollaborators returns one page of a repository's collaborators.
func (s *RemoteService) ListCollaborators(ctx context.Context, owner, repo string, page model.Page, props *model.Properties) ([]*model.Collaborator, error) {
	client, err := s.client(props)
	if err != nil {
		return nil, err
	}
	return client.ListCollaborators(ctx, owner, repo, page)
}
