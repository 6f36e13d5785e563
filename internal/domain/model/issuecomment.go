package model

import gh "github.com/google/go-github/v82/github"

// IssueComment is a comment posted on an issue or pull request conversation.
type IssueComment = gh.IssueComment
