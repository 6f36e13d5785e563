package sshkey_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/ericfisherdev/ghremote/internal/adapter/driven/sshkey"
)

func TestGenerateEd25519_ProducesMatchingPair(t *testing.T) {
	pub, priv, err := sshkey.GenerateEd25519("vcs@github.com")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(pub, "ssh-ed25519 "))
	assert.True(t, strings.HasSuffix(pub, " vcs@github.com"))
	assert.Contains(t, priv, "BEGIN OPENSSH PRIVATE KEY")

	parsedPub, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(pub))
	require.NoError(t, err)
	assert.Equal(t, "vcs@github.com", comment)

	signer, err := ssh.ParsePrivateKey([]byte(priv))
	require.NoError(t, err)
	assert.Equal(t, parsedPub.Marshal(), signer.PublicKey().Marshal())
}

func TestGenerateEd25519_UniquePerCall(t *testing.T) {
	first, _, err := sshkey.GenerateEd25519("")
	require.NoError(t, err)
	second, _, err := sshkey.GenerateEd25519("")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, len(strings.Fields(first)), "no comment field expected")
}

func TestFingerprint(t *testing.T) {
	pub, _, err := sshkey.GenerateEd25519("test")
	require.NoError(t, err)

	fp, err := sshkey.Fingerprint(pub)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fp, "SHA256:"))
}

func TestFingerprint_Invalid(t *testing.T) {
	_, err := sshkey.Fingerprint("not a key")
	require.Error(t, err)
}
