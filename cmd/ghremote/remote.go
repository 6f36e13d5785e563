package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/ghremote/internal/application"
	"github.com/ericfisherdev/ghremote/internal/domain/model"
)

// remoteCall performs one facade operation for a command invocation.
type remoteCall func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error)

// runRemote adapts call into a RunE that prints the raw payload as JSON.
// Remote errors are returned as they came back from GitHub.
func (c *cli) runRemote(call remoteCall) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := c.config()
		if err != nil {
			return err
		}
		factory, err := newFactory(cfg)
		if err != nil {
			return err
		}
		props, err := c.properties()
		if err != nil {
			return err
		}

		result, err := call(cmd.Context(), application.NewRemoteService(factory), props, args)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	}
}

// parseNumber parses an issue or pull request number argument.
func parseNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid issue or pull request number %q", arg)
	}
	return n, nil
}

func newRepoCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Repository commands",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get OWNER REPO",
			Short: "Show a repository",
			Args:  cobra.ExactArgs(2),
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
				return svc.GetRepository(ctx, args[0], args[1], props)
			}),
		},
		&cobra.Command{
			Use:   "list-user USER",
			Short: "List a user's repositories",
			Args:  cobra.ExactArgs(1),
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
				return svc.ListUserRepositories(ctx, args[0], c.page, props)
			}),
		},
		&cobra.Command{
			Use:   "list-org ORG",
			Short: "List an organization's repositories",
			Args:  cobra.ExactArgs(1),
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
				return svc.ListOrganizationRepositories(ctx, args[0], c.page, props)
			}),
		},
		&cobra.Command{
			Use:   "list-all",
			Short: "List the repositories the authenticated user can access",
			Args:  cobra.NoArgs,
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, _ []string) (any, error) {
				return svc.ListAllRepositories(ctx, c.page, props)
			}),
		},
		&cobra.Command{
			Use:   "forks OWNER REPO",
			Short: "List a repository's forks",
			Args:  cobra.ExactArgs(2),
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
				return svc.ListForks(ctx, args[0], args[1], c.page, props)
			}),
		},
		&cobra.Command{
			Use:   "fork OWNER REPO",
			Short: "Fork a repository into the authenticated user's account",
			Args:  cobra.ExactArgs(2),
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
				return svc.CreateFork(ctx, args[0], args[1], props)
			}),
		},
	)
	return cmd
}

func newPRCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Pull request commands",
	}

	var create struct {
		head, base, title string
	}
	createCmd := &cobra.Command{
		Use:   "create OWNER REPO",
		Short: "Open a pull request",
		Args:  cobra.ExactArgs(2),
		RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
			return svc.CreatePullRequest(ctx, args[0], args[1], create.head, create.base, create.title, props)
		}),
	}
	createCmd.Flags().StringVar(&create.head, "head", "", "branch containing the changes")
	createCmd.Flags().StringVar(&create.base, "base", "", "branch to merge into")
	createCmd.Flags().StringVar(&create.title, "title", "", "pull request title")
	_ = createCmd.MarkFlagRequired("head")
	_ = createCmd.MarkFlagRequired("base")
	_ = createCmd.MarkFlagRequired("title")

	updateCmd := &cobra.Command{
		Use:   "update OWNER REPO NUMBER",
		Short: "Edit the title, body, state or base branch of a pull request",
		Args:  cobra.ExactArgs(3),
	}
	updateCmd.Flags().String("title", "", "new title")
	updateCmd.Flags().String("body", "", "new description")
	updateCmd.Flags().String("state", "", "open or closed")
	updateCmd.Flags().String("base", "", "new base branch")
	updateCmd.RunE = c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
		number, err := parseNumber(args[2])
		if err != nil {
			return nil, err
		}

		// Only flags given on the command line are sent.
		changed := func(name string) *string {
			flag := updateCmd.Flags().Lookup(name)
			if !flag.Changed {
				return nil
			}
			v := flag.Value.String()
			return &v
		}
		update := model.PullRequestUpdate{
			Title: changed("title"),
			Body:  changed("body"),
			State: changed("state"),
			Base:  changed("base"),
		}
		return svc.UpdatePullRequest(ctx, args[0], args[1], number, update, props)
	})

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get OWNER REPO NUMBER",
			Short: "Show a pull request",
			Args:  cobra.ExactArgs(3),
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
				number, err := parseNumber(args[2])
				if err != nil {
					return nil, err
				}
				return svc.GetPullRequest(ctx, args[0], args[1], number, props)
			}),
		},
		&cobra.Command{
			Use:   "list OWNER REPO",
			Short: "List a repository's pull requests",
			Args:  cobra.ExactArgs(2),
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
				return svc.ListPullRequests(ctx, args[0], args[1], c.page, props)
			}),
		},
		createCmd,
		updateCmd,
	)
	return cmd
}

func newIssueCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue commands",
	}

	var body string
	commentCmd := &cobra.Command{
		Use:   "comment OWNER REPO NUMBER",
		Short: "Comment on an issue or pull request",
		Args:  cobra.ExactArgs(3),
		RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
			number, err := parseNumber(args[2])
			if err != nil {
				return nil, err
			}
			return svc.CommentIssue(ctx, args[0], args[1], number, body, props)
		}),
	}
	commentCmd.Flags().StringVar(&body, "body", "", "comment text")
	_ = commentCmd.MarkFlagRequired("body")

	cmd.AddCommand(commentCmd)
	return cmd
}

func newOrgCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Organization commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the authenticated user's organizations",
		Args:  cobra.NoArgs,
		RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, _ []string) (any, error) {
			return svc.ListOrganizations(ctx, c.page, props)
		}),
	})
	return cmd
}

func newUserCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "current",
			Short: "Show the user the credentials belong to",
			Args:  cobra.NoArgs,
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, _ []string) (any, error) {
				return svc.GetCurrentUser(ctx, props)
			}),
		},
		&cobra.Command{
			Use:   "collaborators OWNER REPO",
			Short: "List a repository's collaborators",
			Args:  cobra.ExactArgs(2),
			RunE: c.runRemote(func(ctx context.Context, svc *application.RemoteService, props *model.Properties, args []string) (any, error) {
				return svc.ListCollaborators(ctx, args[0], args[1], c.page, props)
			}),
		},
	)
	return cmd
}
