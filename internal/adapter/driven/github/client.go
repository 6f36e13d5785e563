// Package github implements the RemoteClient port using the go-github library.
//
// Payloads are returned exactly as go-github decodes them and errors are passed
// through unwrapped, so callers can still match *gh.ErrorResponse,
// *gh.RateLimitError and friends with errors.As.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/ghremote/internal/domain/model"
	"github.com/ericfisherdev/ghremote/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RemoteClient = (*Client)(nil)

// Client implements the driven.RemoteClient port on top of a single go-github client.
type Client struct {
	gh *gh.Client
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*model.Repository, error) {
	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	logRateLimit(resp, "repos/"+owner+"/"+repo, 0, 1)
	return repository, err
}

// ListUserRepositories lists public repositories of the given user.
func (c *Client) ListUserRepositories(ctx context.Context, user string, page model.Page) ([]*model.Repository, error) {
	opts := &gh.RepositoryListByUserOptions{ListOptions: listOptions(page)}
	repos, resp, err := c.gh.Repositories.ListByUser(ctx, user, opts)
	logRateLimit(resp, "users/"+user+"/repos", opts.Page, len(repos))
	return repos, err
}

// ListOrganizationRepositories lists repositories of the given organization.
func (c *Client) ListOrganizationRepositories(ctx context.Context, org string, page model.Page) ([]*model.Repository, error) {
	opts := &gh.RepositoryListByOrgOptions{ListOptions: listOptions(page)}
	repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
	logRateLimit(resp, "orgs/"+org+"/repos", opts.Page, len(repos))
	return repos, err
}

// ListAllRepositories lists repositories the authenticated user can access.
func (c *Client) ListAllRepositories(ctx context.Context, page model.Page) ([]*model.Repository, error) {
	opts := &gh.RepositoryListByAuthenticatedUserOptions{ListOptions: listOptions(page)}
	repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
	logRateLimit(resp, "user/repos", opts.Page, len(repos))
	return repos, err
}

// ListForks lists forks of a repository.
func (c *Client) ListForks(ctx context.Context, owner, repo string, page model.Page) ([]*model.Repository, error) {
	opts := &gh.RepositoryListForksOptions{ListOptions: listOptions(page)}
	forks, resp, err := c.gh.Repositories.ListForks(ctx, owner, repo, opts)
	logRateLimit(resp, "repos/"+owner+"/"+repo+"/forks", opts.Page, len(forks))
	return forks, err
}

// CreateFork forks a repository into the authenticated user's account.
// GitHub answers 202 Accepted while the fork is created in the background;
// go-github reports that as *gh.AcceptedError but still decodes the body,
// so it is treated as success here.
func (c *Client) CreateFork(ctx context.Context, owner, repo string) (*model.Repository, error) {
	fork, resp, err := c.gh.Repositories.CreateFork(ctx, owner, repo, &gh.RepositoryCreateForkOptions{})
	logRateLimit(resp, "repos/"+owner+"/"+repo+"/forks", 0, 1)

	var accepted *gh.AcceptedError
	if errors.As(err, &accepted) {
		return fork, nil
	}
	return fork, err
}

// ListCollaborators lists users with access to a repository.
func (c *Client) ListCollaborators(ctx context.Context, owner, repo string, page model.Page) ([]*model.Collaborator, error) {
	opts := &gh.ListCollaboratorsOptions{ListOptions: listOptions(page)}
	users, resp, err := c.gh.Repositories.ListCollaborators(ctx, owner, repo, opts)
	logRateLimit(resp, "repos/"+owner+"/"+repo+"/collaborators", opts.Page, len(users))
	return users, err
}

// CommentIssue posts a comment on an issue or pull request conversation.
func (c *Client) CommentIssue(ctx context.Context, owner, repo string, number int, body string) (*model.IssueComment, error) {
	comment, resp, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	logRateLimit(resp, "repos/"+owner+"/"+repo+"/issues/comments", 0, 1)
	return comment, err
}

// GetPullRequest fetches a single pull request.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*model.PullRequest, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	logRateLimit(resp, "repos/"+owner+"/"+repo+"/pulls", 0, 1)
	return pr, err
}

// ListPullRequests lists pull requests of a repository. The provider's default
// state filter (open) applies.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, page model.Page) ([]*model.PullRequest, error) {
	opts := &gh.PullRequestListOptions{ListOptions: listOptions(page)}
	prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
	logRateLimit(resp, "repos/"+owner+"/"+repo+"/pulls", opts.Page, len(prs))
	return prs, err
}

// CreatePullRequest opens a pull request merging head into base.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo, head, base, title string) (*model.PullRequest, error) {
	pr, resp, err := c.gh.PullRequests.Create(ctx, owner, repo, &gh.NewPullRequest{
		Title: gh.Ptr(title),
		Head:  gh.Ptr(head),
		Base:  gh.Ptr(base),
	})
	logRateLimit(resp, "repos/"+owner+"/"+repo+"/pulls", 0, 1)
	return pr, err
}

// pullRequestEdit is the PATCH body for a pull request update.
type pullRequestEdit struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
	State *string `json:"state,omitempty"`
	Base  *string `json:"base,omitempty"`
}

// UpdatePullRequest edits the title, body, state and base branch of a pull request.
// Fields left nil in update are not sent. Every given field is sent as is,
// base included when state is "closed".
func (c *Client) UpdatePullRequest(ctx context.Context, owner, repo string, number int, update model.PullRequestUpdate) (*model.PullRequest, error) {
	edit := &pullRequestEdit{
		Title: update.Title,
		Body:  update.Body,
		State: update.State,
		Base:  update.Base,
	}

	u := fmt.Sprintf("repos/%v/%v/pulls/%d", owner, repo, number)
	req, err := c.gh.NewRequest(http.MethodPatch, u, edit)
	if err != nil {
		return nil, err
	}

	pr := new(gh.PullRequest)
	resp, err := c.gh.Do(ctx, req, pr)
	logRateLimit(resp, "repos/"+owner+"/"+repo+"/pulls", 0, 1)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// ListOrganizations lists organizations of the authenticated user.
func (c *Client) ListOrganizations(ctx context.Context, page model.Page) ([]*model.Organization, error) {
	opts := listOptions(page)
	orgs, resp, err := c.gh.Organizations.List(ctx, "", &opts)
	logRateLimit(resp, "user/orgs", opts.Page, len(orgs))
	return orgs, err
}

// GetCurrentUser fetches the authenticated user.
func (c *Client) GetCurrentUser(ctx context.Context) (*model.User, error) {
	user, resp, err := c.gh.Users.Get(ctx, "")
	logRateLimit(resp, "user", 0, 1)
	return user, err
}

// CreateKey uploads a public SSH key to the authenticated user's account.
func (c *Client) CreateKey(ctx context.Context, title, publicKey string) (*model.Key, error) {
	key, resp, err := c.gh.Users.CreateKey(ctx, &gh.Key{
		Title: gh.Ptr(title),
		Key:   gh.Ptr(publicKey),
	})
	logRateLimit(resp, "user/keys", 0, 1)
	return key, err
}

// listOptions maps a Page onto go-github's list options. Zero values are
// omitted from the query string by go-github.
func listOptions(page model.Page) gh.ListOptions {
	return gh.ListOptions{
		Page:    page.NormalizedNumber(),
		PerPage: page.NormalizedSize(),
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
