package application_test

import (
	"context"

	"github.com/ericfisherdev/ghremote/internal/domain/model"
	"github.com/ericfisherdev/ghremote/internal/domain/port/driven"
)

// --- Mock implementations ---

// remoteCall records the arguments a mockRemoteClient method received.
type remoteCall struct {
	Method string
	Owner  string
	Repo   string
	Name   string // user, org or key title
	Number int
	Page   model.Page
	Args   []string
	Update model.PullRequestUpdate
}

// mockRemoteClient records every call and answers with canned payloads.
type mockRemoteClient struct {
	calls []remoteCall

	repo          *model.Repository
	repos         []*model.Repository
	comment       *model.IssueComment
	pr            *model.PullRequest
	prs           []*model.PullRequest
	orgs          []*model.Organization
	user          *model.User
	collaborators []*model.Collaborator
	key           *model.Key
	err           error
}

func (m *mockRemoteClient) record(c remoteCall) { m.calls = append(m.calls, c) }

func (m *mockRemoteClient) GetRepository(_ context.Context, owner, repo string) (*model.Repository, error) {
	m.record(remoteCall{Method: "GetRepository", Owner: owner, Repo: repo})
	return m.repo, m.err
}

func (m *mockRemoteClient) ListUserRepositories(_ context.Context, user string, page model.Page) ([]*model.Repository, error) {
	m.record(remoteCall{Method: "ListUserRepositories", Name: user, Page: page})
	return m.repos, m.err
}

func (m *mockRemoteClient) ListOrganizationRepositories(_ context.Context, org string, page model.Page) ([]*model.Repository, error) {
	m.record(remoteCall{Method: "ListOrganizationRepositories", Name: org, Page: page})
	return m.repos, m.err
}

func (m *mockRemoteClient) ListAllRepositories(_ context.Context, page model.Page) ([]*model.Repository, error) {
	m.record(remoteCall{Method: "ListAllRepositories", Page: page})
	return m.repos, m.err
}

func (m *mockRemoteClient) ListForks(_ context.Context, owner, repo string, page model.Page) ([]*model.Repository, error) {
	m.record(remoteCall{Method: "ListForks", Owner: owner, Repo: repo, Page: page})
	return m.repos, m.err
}

func (m *mockRemoteClient) CreateFork(_ context.Context, owner, repo string) (*model.Repository, error) {
	m.record(remoteCall{Method: "CreateFork", Owner: owner, Repo: repo})
	return m.repo, m.err
}

func (m *mockRemoteClient) ListCollaborators(_ context.Context, owner, repo string, page model.Page) ([]*model.Collaborator, error) {
	m.record(remoteCall{Method: "ListCollaborators", Owner: owner, Repo: repo, Page: page})
	return m.collaborators, m.err
}

func (m *mockRemoteClient) CommentIssue(_ context.Context, owner, repo string, number int, body string) (*model.IssueComment, error) {
	m.record(remoteCall{Method: "CommentIssue", Owner: owner, Repo: repo, Number: number, Args: []string{body}})
	return m.comment, m.err
}

func (m *mockRemoteClient) GetPullRequest(_ context.Context, owner, repo string, number int) (*model.PullRequest, error) {
	m.record(remoteCall{Method: "GetPullRequest", Owner: owner, Repo: repo, Number: number})
	return m.pr, m.err
}

func (m *mockRemoteClient) ListPullRequests(_ context.Context, owner, repo string, page model.Page) ([]*model.PullRequest, error) {
	m.record(remoteCall{Method: "ListPullRequests", Owner: owner, Repo: repo, Page: page})
	return m.prs, m.err
}

func (m *mockRemoteClient) CreatePullRequest(_ context.Context, owner, repo, head, base, title string) (*model.PullRequest, error) {
	m.record(remoteCall{Method: "CreatePullRequest", Owner: owner, Repo: repo, Args: []string{head, base, title}})
	return m.pr, m.err
}

func (m *mockRemoteClient) UpdatePullRequest(_ context.Context, owner, repo string, number int, update model.PullRequestUpdate) (*model.PullRequest, error) {
	m.record(remoteCall{Method: "UpdatePullRequest", Owner: owner, Repo: repo, Number: number, Update: update})
	return m.pr, m.err
}

func (m *mockRemoteClient) ListOrganizations(_ context.Context, page model.Page) ([]*model.Organization, error) {
	m.record(remoteCall{Method: "ListOrganizations", Page: page})
	return m.orgs, m.err
}

func (m *mockRemoteClient) GetCurrentUser(_ context.Context) (*model.User, error) {
	m.record(remoteCall{Method: "GetCurrentUser"})
	return m.user, m.err
}

func (m *mockRemoteClient) CreateKey(_ context.Context, title, publicKey string) (*model.Key, error) {
	m.record(remoteCall{Method: "CreateKey", Name: title, Args: []string{publicKey}})
	return m.key, m.err
}

// mockClientFactory hands out the same client and records the properties of every call.
type mockClientFactory struct {
	client driven.RemoteClient
	err    error
	props  []*model.Properties
}

func (f *mockClientFactory) NewClient(props *model.Properties) (driven.RemoteClient, error) {
	f.props = append(f.props, props)
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

// mockKeyPairStore serves a fixed pair from Get and counts Generate calls.
type mockKeyPairStore struct {
	existing    *model.SSHKeyPair
	generated   *model.SSHKeyPair
	getErr      error
	generateErr error

	getCalls      []string
	generateCalls []string
}

func (s *mockKeyPairStore) Get(_ context.Context, service, host string) (*model.SSHKeyPair, error) {
	s.getCalls = append(s.getCalls, service+"/"+host)
	return s.existing, s.getErr
}

func (s *mockKeyPairStore) Generate(_ context.Context, service, host string) (*model.SSHKeyPair, error) {
	s.generateCalls = append(s.generateCalls, service+"/"+host)
	return s.generated, s.generateErr
}

func (s *mockKeyPairStore) List(_ context.Context) ([]model.SSHKeyPair, error) { return nil, nil }

func (s *mockKeyPairStore) Delete(_ context.Context, _, _ string) error { return nil }
