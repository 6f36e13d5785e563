package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/ghremote/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/ghremote/internal/adapter/driven/sshkey"
	"github.com/ericfisherdev/ghremote/internal/application"
	"github.com/ericfisherdev/ghremote/internal/config"
)

// keyPairSummary is the printable form of a stored pair. The private key is
// never printed.
type keyPairSummary struct {
	Service     string    `json:"service"`
	Host        string    `json:"host"`
	PublicKey   string    `json:"public_key"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

// withKeyStore opens the keypair database, runs migrations and hands the
// store to fn.
func (c *cli) withKeyStore(ctx context.Context, fn func(cfg *config.Config, store *sqliteadapter.KeyPairRepo) error) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if _, err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}

	return fn(cfg, sqliteadapter.NewKeyPairRepo(db, cfg.SecretKey))
}

func newKeyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "SSH key commands",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "upload TITLE",
			Short: "Upload the local SSH public key, generating a keypair if none exists",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withKeyStore(cmd.Context(), func(cfg *config.Config, store *sqliteadapter.KeyPairRepo) error {
					factory, err := newFactory(cfg)
					if err != nil {
						return err
					}
					props, err := c.properties()
					if err != nil {
						return err
					}

					key, err := application.NewKeyProvisioner(store, factory, slog.Default()).UploadSSHKey(cmd.Context(), args[0], props)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), key)
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List locally held keypairs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withKeyStore(cmd.Context(), func(_ *config.Config, store *sqliteadapter.KeyPairRepo) error {
					pairs, err := store.List(cmd.Context())
					if err != nil {
						return err
					}

					summaries := make([]keyPairSummary, 0, len(pairs))
					for _, pair := range pairs {
						fingerprint, err := sshkey.Fingerprint(pair.PublicKey)
						if err != nil {
							return fmt.Errorf("fingerprint %s/%s: %w", pair.Service, pair.Host, err)
						}
						summaries = append(summaries, keyPairSummary{
							Service:     pair.Service,
							Host:        pair.Host,
							PublicKey:   pair.PublicKey,
							Fingerprint: fingerprint,
							CreatedAt:   pair.CreatedAt,
						})
					}
					return printJSON(cmd.OutOrStdout(), summaries)
				})
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Delete the local keypair used for uploads",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withKeyStore(cmd.Context(), func(_ *config.Config, store *sqliteadapter.KeyPairRepo) error {
					if err := store.Delete(cmd.Context(), application.SSHKeyService, application.SSHKeyHost); err != nil {
						return err
					}
					slog.Info("deleted ssh key pair", "service", application.SSHKeyService, "host", application.SSHKeyHost)
					return nil
				})
			},
		},
	)
	return cmd
}
