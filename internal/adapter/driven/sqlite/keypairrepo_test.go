package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ghremote/internal/domain/port/driven"
)

// testKey is a fixed 32-byte AES-256 key for tests.
var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestKeyPairRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, testKey)

	pair, err := repo.Get(context.Background(), "vcs", "github.com")

	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestKeyPairRepo_GenerateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, testKey)
	ctx := context.Background()

	generated, err := repo.Generate(ctx, "vcs", "github.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(generated.PublicKey, "ssh-ed25519 "))
	assert.Contains(t, generated.PrivateKey, "OPENSSH PRIVATE KEY")
	assert.False(t, generated.CreatedAt.IsZero())

	got, err := repo.Get(ctx, "vcs", "github.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "vcs", got.Service)
	assert.Equal(t, "github.com", got.Host)
	assert.Equal(t, generated.PublicKey, got.PublicKey)
	assert.Equal(t, generated.PrivateKey, got.PrivateKey)
	assert.True(t, generated.CreatedAt.Equal(got.CreatedAt))
}

func TestKeyPairRepo_PrivateKeyEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, testKey)
	ctx := context.Background()

	generated, err := repo.Generate(ctx, "vcs", "github.com")
	require.NoError(t, err)

	var stored string
	err = db.Reader.QueryRowContext(ctx,
		`SELECT private_key FROM ssh_key_pairs WHERE service = ? AND host = ?`, "vcs", "github.com",
	).Scan(&stored)
	require.NoError(t, err)

	assert.NotEqual(t, generated.PrivateKey, stored)
	assert.NotContains(t, stored, "PRIVATE KEY")
}

func TestKeyPairRepo_GenerateReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, testKey)
	ctx := context.Background()

	first, err := repo.Generate(ctx, "vcs", "github.com")
	require.NoError(t, err)
	second, err := repo.Generate(ctx, "vcs", "github.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.PublicKey, second.PublicKey)

	pairs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, second.PublicKey, pairs[0].PublicKey)
}

func TestKeyPairRepo_ListOrdered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, testKey)
	ctx := context.Background()

	_, err := repo.Generate(ctx, "vcs", "gitlab.com")
	require.NoError(t, err)
	_, err = repo.Generate(ctx, "vcs", "github.com")
	require.NoError(t, err)

	pairs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "github.com", pairs[0].Host)
	assert.Equal(t, "gitlab.com", pairs[1].Host)
}

func TestKeyPairRepo_ListEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, testKey)

	pairs, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestKeyPairRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, testKey)
	ctx := context.Background()

	_, err := repo.Generate(ctx, "vcs", "github.com")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "vcs", "github.com"))

	pair, err := repo.Get(ctx, "vcs", "github.com")
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestKeyPairRepo_DeleteNonexistent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, testKey)

	err := repo.Delete(context.Background(), "vcs", "nowhere")
	assert.NoError(t, err, "deleting a nonexistent pair should not error")
}

func TestKeyPairRepo_NoEncryptionKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, nil)
	ctx := context.Background()

	_, err := repo.Get(ctx, "vcs", "github.com")
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)

	_, err = repo.Generate(ctx, "vcs", "github.com")
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)

	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}

func TestKeyPairRepo_WrongKeyFailsToDecrypt(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := NewKeyPairRepo(db, testKey).Generate(ctx, "vcs", "github.com")
	require.NoError(t, err)

	other := NewKeyPairRepo(db, []byte("fedcba9876543210fedcba9876543210"))
	_, err = other.Get(ctx, "vcs", "github.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decrypt key pair")
}

func TestKeyPairRepo_GeneratorFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKeyPairRepo(db, testKey)
	boom := errors.New("entropy exhausted")
	repo.generate = func(string) (string, string, error) { return "", "", boom }

	_, err := repo.Generate(context.Background(), "vcs", "github.com")

	require.ErrorIs(t, err, boom)
	pairs, listErr := repo.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, pairs, "nothing must be stored when generation fails")
}
