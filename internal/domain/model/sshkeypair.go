package model

import "time"

// SSHKeyPair is a locally held keypair scoped to a service and host, e.g.
// ("vcs", "github.com"). PublicKey is in authorized_keys format; PrivateKey is
// an OpenSSH PEM block.
type SSHKeyPair struct {
	Service    string
	Host       string
	PublicKey  string
	PrivateKey string
	CreatedAt  time.Time
}

// HasPublicKey reports whether the pair carries a usable public key.
func (k *SSHKeyPair) HasPublicKey() bool {
	return k != nil && k.PublicKey != ""
}
