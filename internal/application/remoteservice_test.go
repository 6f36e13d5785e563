package application_test

import (
	"context"
	"errors"
	"testing"

	gh "github.com/google/go-github/v82/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ghremote/internal/application"
	"github.com/ericfisherdev/ghremote/internal/domain/model"
	"github.com/ericfisherdev/ghremote/internal/domain/port/driven"
)

var testProps = &model.Properties{
	Credentials: &model.Credentials{Type: model.CredentialToken, Token: "ghp_test"},
}

func newService(client *mockRemoteClient) (*application.RemoteService, *mockClientFactory) {
	factory := &mockClientFactory{client: client}
	return application.NewRemoteService(factory), factory
}

// assertSingleCall checks that exactly one client was built with props and
// exactly one remote call was made, returning that call.
func assertSingleCall(t *testing.T, factory *mockClientFactory, client *mockRemoteClient, props *model.Properties) remoteCall {
	t.Helper()
	require.Len(t, factory.props, 1)
	assert.Same(t, props, factory.props[0])
	require.Len(t, client.calls, 1)
	return client.calls[0]
}

func TestRemoteService_GetRepository(t *testing.T) {
	client := &mockRemoteClient{repo: &model.Repository{FullName: gh.Ptr("octo/hello")}}
	svc, factory := newService(client)

	got, err := svc.GetRepository(context.Background(), "octo", "hello", testProps)

	require.NoError(t, err)
	assert.Same(t, client.repo, got)
	call := assertSingleCall(t, factory, client, testProps)
	assert.Equal(t, remoteCall{Method: "GetRepository", Owner: "octo", Repo: "hello"}, call)
}

func TestRemoteService_AnonymousPropertiesPassedThrough(t *testing.T) {
	client := &mockRemoteClient{user: &model.User{Login: gh.Ptr("ghost")}}
	svc, factory := newService(client)

	got, err := svc.GetCurrentUser(context.Background(), nil)

	require.NoError(t, err)
	assert.Same(t, client.user, got)
	require.Len(t, factory.props, 1)
	assert.Nil(t, factory.props[0])
}

func TestRemoteService_ListOperationsPassPageAndPayload(t *testing.T) {
	page := model.Page{Number: 4, Size: 50}
	repos := []*model.Repository{{ID: gh.Ptr(int64(1))}, {ID: gh.Ptr(int64(2))}}
	prs := []*model.PullRequest{{Number: gh.Ptr(3)}}
	orgs := []*model.Organization{{Login: gh.Ptr("acme")}}
	collaborators := []*model.Collaborator{{Login: gh.Ptr("alice")}}

	tests := []struct {
		name string
		call func(*application.RemoteService) (any, error)
		want any
		exp  remoteCall
	}{
		{
			name: "user repositories",
			call: func(s *application.RemoteService) (any, error) {
				return s.ListUserRepositories(context.Background(), "octo", page, testProps)
			},
			want: repos,
			exp:  remoteCall{Method: "ListUserRepositories", Name: "octo", Page: page},
		},
		{
			name: "organization repositories",
			call: func(s *application.RemoteService) (any, error) {
				return s.ListOrganizationRepositories(context.Background(), "acme", page, testProps)
			},
			want: repos,
			exp:  remoteCall{Method: "ListOrganizationRepositories", Name: "acme", Page: page},
		},
		{
			name: "all repositories",
			call: func(s *application.RemoteService) (any, error) {
				return s.ListAllRepositories(context.Background(), page, testProps)
			},
			want: repos,
			exp:  remoteCall{Method: "ListAllRepositories", Page: page},
		},
		{
			name: "forks",
			call: func(s *application.RemoteService) (any, error) {
				return s.ListForks(context.Background(), "octo", "hello", page, testProps)
			},
			want: repos,
			exp:  remoteCall{Method: "ListForks", Owner: "octo", Repo: "hello", Page: page},
		},
		{
			name: "pull requests",
			call: func(s *application.RemoteService) (any, error) {
				return s.ListPullRequests(context.Background(), "octo", "hello", page, testProps)
			},
			want: prs,
			exp:  remoteCall{Method: "ListPullRequests", Owner: "octo", Repo: "hello", Page: page},
		},
		{
			name: "organizations",
			call: func(s *application.RemoteService) (any, error) {
				return s.ListOrganizations(context.Background(), page, testProps)
			},
			want: orgs,
			exp:  remoteCall{Method: "ListOrganizations", Page: page},
		},
		{
			name: "collaborators",
			call: func(s *application.RemoteService) (any, error) {
				return s.ListCollaborators(context.Background(), "octo", "hello", page, testProps)
			},
			want: collaborators,
			exp:  remoteCall{Method: "ListCollaborators", Owner: "octo", Repo: "hello", Page: page},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockRemoteClient{repos: repos, prs: prs, orgs: orgs, collaborators: collaborators}
			svc, factory := newService(client)

			got, err := tt.call(svc)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.exp, assertSingleCall(t, factory, client, testProps))
		})
	}
}

func TestRemoteService_CreateFork(t *testing.T) {
	client := &mockRemoteClient{repo: &model.Repository{Fork: gh.Ptr(true)}}
	svc, factory := newService(client)

	got, err := svc.CreateFork(context.Background(), "octo", "hello", testProps)

	require.NoError(t, err)
	assert.Same(t, client.repo, got)
	assert.Equal(t, remoteCall{Method: "CreateFork", Owner: "octo", Repo: "hello"},
		assertSingleCall(t, factory, client, testProps))
}

func TestRemoteService_CommentIssue(t *testing.T) {
	client := &mockRemoteClient{comment: &model.IssueComment{ID: gh.Ptr(int64(99))}}
	svc, factory := newService(client)

	got, err := svc.CommentIssue(context.Background(), "octo", "hello", 17, "Thanks!", testProps)

	require.NoError(t, err)
	assert.Same(t, client.comment, got)
	assert.Equal(t,
		remoteCall{Method: "CommentIssue", Owner: "octo", Repo: "hello", Number: 17, Args: []string{"Thanks!"}},
		assertSingleCall(t, factory, client, testProps))
}

func TestRemoteService_GetPullRequest(t *testing.T) {
	client := &mockRemoteClient{pr: &model.PullRequest{Number: gh.Ptr(8)}}
	svc, factory := newService(client)

	got, err := svc.GetPullRequest(context.Background(), "octo", "hello", 8, testProps)

	require.NoError(t, err)
	assert.Same(t, client.pr, got)
	assert.Equal(t, remoteCall{Method: "GetPullRequest", Owner: "octo", Repo: "hello", Number: 8},
		assertSingleCall(t, factory, client, testProps))
}

func TestRemoteService_CreatePullRequest(t *testing.T) {
	client := &mockRemoteClient{pr: &model.PullRequest{Number: gh.Ptr(10)}}
	svc, factory := newService(client)

	got, err := svc.CreatePullRequest(context.Background(), "octo", "hello", "feature", "main", "Add X", testProps)

	require.NoError(t, err)
	assert.Same(t, client.pr, got)
	assert.Equal(t,
		remoteCall{Method: "CreatePullRequest", Owner: "octo", Repo: "hello", Args: []string{"feature", "main", "Add X"}},
		assertSingleCall(t, factory, client, testProps))
}

func TestRemoteService_UpdatePullRequest(t *testing.T) {
	client := &mockRemoteClient{pr: &model.PullRequest{State: gh.Ptr("closed")}}
	svc, factory := newService(client)
	update := model.PullRequestUpdate{Title: gh.Ptr("T"), Body: gh.Ptr("B"), State: gh.Ptr("closed"), Base: gh.Ptr("dev")}

	got, err := svc.UpdatePullRequest(context.Background(), "octo", "hello", 10, update, testProps)

	require.NoError(t, err)
	assert.Same(t, client.pr, got)
	assert.Equal(t,
		remoteCall{Method: "UpdatePullRequest", Owner: "octo", Repo: "hello", Number: 10, Update: update},
		assertSingleCall(t, factory, client, testProps))
}

func TestRemoteService_RemoteErrorReturnedUnchanged(t *testing.T) {
	remoteErr := &gh.ErrorResponse{Message: "Bad credentials"}
	client := &mockRemoteClient{err: remoteErr}
	svc, _ := newService(client)

	_, err := svc.GetCurrentUser(context.Background(), testProps)

	assert.Same(t, remoteErr, err)
}

func TestRemoteService_NoRetryOnFailure(t *testing.T) {
	client := &mockRemoteClient{err: errors.New("connection reset")}
	svc, factory := newService(client)

	_, err := svc.ListPullRequests(context.Background(), "octo", "hello", model.Page{}, testProps)

	require.Error(t, err)
	assert.Len(t, client.calls, 1)
	assert.Len(t, factory.props, 1)
}

func TestRemoteService_FactoryError(t *testing.T) {
	factory := &mockClientFactory{err: driven.ErrUnsupportedCredentialType}
	svc := application.NewRemoteService(factory)

	_, err := svc.GetRepository(context.Background(), "octo", "hello", testProps)

	require.ErrorIs(t, err, driven.ErrUnsupportedCredentialType)
}
