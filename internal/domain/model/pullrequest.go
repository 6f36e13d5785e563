package model

import gh "github.com/google/go-github/v82/github"

// PullRequest is a remote pull request as returned by the provider.
type PullRequest = gh.PullRequest

// PullRequestUpdate carries the editable fields of a pull request.
// A nil field is left unchanged on the remote.
type PullRequestUpdate struct {
	Title *string
	Body  *string
	State *string
	Base  *string
}
