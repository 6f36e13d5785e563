package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/ghremote/internal/adapter/driven/github"
	"github.com/ericfisherdev/ghremote/internal/config"
	"github.com/ericfisherdev/ghremote/internal/domain/model"
)

// Credential keys, read from flags or GHREMOTE_TOKEN, GHREMOTE_OAUTH_TOKEN,
// GHREMOTE_USERNAME and GHREMOTE_PASSWORD.
const (
	keyToken      = "token"
	keyOAuthToken = "oauth_token"
	keyUsername   = "username"
	keyPassword   = "password"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// cli carries state shared by every subcommand.
type cli struct {
	v     *viper.Viper
	debug bool
	page  model.Page
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix(config.EnvPrefix)
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "ghremote",
		Short: "Thin facade over the GitHub REST API",

		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},

		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if c.debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&c.debug, "debug", false, "enable verbose debug logging")
	flags.String("token", "", "personal access token")
	flags.String("oauth-token", "", "OAuth access token")
	flags.String("username", "", "username for basic authentication")
	flags.String("password", "", "password for basic authentication")
	flags.IntVar(&c.page.Number, "page", 0, "page to request from list endpoints (0 leaves it to GitHub)")
	flags.IntVar(&c.page.Size, "per-page", 0, "page size for list endpoints (0 leaves it to GitHub)")
	flags.String("api-url", "", "GitHub REST API root, for GitHub Enterprise")
	flags.String("db-path", "", "SQLite database holding the SSH keypair")
	flags.String("timeout", "", "timeout for each GitHub request, e.g. 30s")

	for key, flag := range map[string]string{
		keyToken:               "token",
		keyOAuthToken:          "oauth-token",
		keyUsername:            "username",
		keyPassword:            "password",
		config.KeyGitHubAPIURL: "api-url",
		config.KeyDBPath:       "db-path",
		config.KeyHTTPTimeout:  "timeout",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newServeCmd(c),
		newRepoCmd(c),
		newPRCmd(c),
		newIssueCmd(c),
		newOrgCmd(c),
		newUserCmd(c),
		newKeyCmd(c),
	)
	return root
}

// config loads the validated configuration, layering flags over the environment.
func (c *cli) config() (*config.Config, error) {
	return config.LoadFrom(c.v)
}

// newFactory builds the GitHub client factory described by cfg.
func newFactory(cfg *config.Config) (*githubadapter.Factory, error) {
	return githubadapter.NewFactory(githubadapter.Options{
		BaseURL:            cfg.GitHubAPIURL,
		Timeout:            cfg.HTTPTimeout,
		HTTPCache:          cfg.HTTPCache,
		SecondaryRateLimit: cfg.SecondaryRateLimit,
	})
}

// properties builds call properties from the credential flags. At most one
// kind of credential may be given; none means anonymous access.
func (c *cli) properties() (*model.Properties, error) {
	token := c.v.GetString(keyToken)
	oauthToken := c.v.GetString(keyOAuthToken)
	username := c.v.GetString(keyUsername)
	password := c.v.GetString(keyPassword)

	kinds := 0
	for _, given := range []bool{token != "", oauthToken != "", username != "" || password != ""} {
		if given {
			kinds++
		}
	}
	if kinds > 1 {
		return nil, errors.New("use only one of --token, --oauth-token or --username/--password")
	}

	var creds *model.Credentials
	switch {
	case token != "":
		creds = &model.Credentials{Type: model.CredentialToken, Token: token}
	case oauthToken != "":
		creds = &model.Credentials{Type: model.CredentialOAuth, Token: oauthToken}
	case username != "" && password != "":
		creds = &model.Credentials{Type: model.CredentialBasic, Username: username, Password: password}
	case username != "":
		return nil, errors.New("--password is required with --username")
	case password != "":
		return nil, errors.New("--username is required with --password")
	default:
		return nil, nil
	}

	return &model.Properties{Credentials: creds}, nil
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
