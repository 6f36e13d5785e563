// Package model holds the shapes exchanged with the remote provider.
//
// Remote entities are aliases of the go-github response types: the facade hands
// them back exactly as decoded and adds no fields or invariants of its own.
package model

import gh "github.com/google/go-github/v82/github"

// Repository is a remote repository as returned by the provider.
type Repository = gh.Repository

// User is a remote user account.
type User = gh.User

// Organization is a remote organization.
type Organization = gh.Organization

// Collaborator is a user with access to a repository. The provider returns
// collaborators as plain user objects.
type Collaborator = gh.User

// Key is a public SSH key registered on the authenticated user's account.
type Key = gh.Key
