package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/ghremote/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by KeyPairStore operations that read or
// write private keys when GHREMOTE_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set GHREMOTE_SECRET_KEY")

// KeyPairStore defines the driven port for the local SSH keypair provider.
// Pairs are addressed by (service, host).
type KeyPairStore interface {
	// Get returns the pair for service and host, or (nil, nil) when none exists.
	Get(ctx context.Context, service, host string) (*model.SSHKeyPair, error)

	// Generate creates a fresh pair for service and host, replacing any
	// existing one, and returns it.
	Generate(ctx context.Context, service, host string) (*model.SSHKeyPair, error)

	// List returns every stored pair ordered by service and host.
	List(ctx context.Context) ([]model.SSHKeyPair, error)

	// Delete removes the pair for service and host. Deleting a missing pair is not an error.
	Delete(ctx context.Context, service, host string) error
}
