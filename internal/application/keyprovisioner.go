package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/ghremote/internal/domain/model"
	"github.com/ericfisherdev/ghremote/internal/domain/port/driven"
)

// The keypair used for remote uploads is always looked up under this pair.
const (
	SSHKeyService = "vcs"
	SSHKeyHost    = "github.com"
)

// KeyProvisioner uploads the local SSH public key to the remote account,
// generating a keypair first when none is held.
type KeyProvisioner struct {
	keys    driven.KeyPairStore
	factory driven.ClientFactory
	logger  *slog.Logger
}

// NewKeyProvisioner creates a KeyProvisioner.
func NewKeyProvisioner(keys driven.KeyPairStore, factory driven.ClientFactory, logger *slog.Logger) *KeyProvisioner {
	return &KeyProvisioner{keys: keys, factory: factory, logger: logger}
}

// UploadSSHKey registers the local public key under title on the account the
// credentials in props belong to. The remote error, if any, is returned unchanged.
func (p *KeyProvisioner) UploadSSHKey(ctx context.Context, title string, props *model.Properties) (*model.Key, error) {
	pair, err := p.keys.Get(ctx, SSHKeyService, SSHKeyHost)
	if err != nil {
		return nil, fmt.Errorf("looking up ssh key pair: %w", err)
	}

	if !pair.HasPublicKey() {
		pair, err = p.keys.Generate(ctx, SSHKeyService, SSHKeyHost)
		if err != nil {
			return nil, fmt.Errorf("generating ssh key pair: %w", err)
		}
		p.logger.Info("generated ssh key pair", "service", SSHKeyService, "host", SSHKeyHost)
	}

	client, err := p.factory.NewClient(props)
	if err != nil {
		return nil, fmt.Errorf("creating remote client: %w", err)
	}

	return client.CreateKey(ctx, title, pair.PublicKey)
}
