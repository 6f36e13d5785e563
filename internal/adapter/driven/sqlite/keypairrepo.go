package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ericfisherdev/ghremote/internal/adapter/driven/sshkey"
	"github.com/ericfisherdev/ghremote/internal/domain/model"
	"github.com/ericfisherdev/ghremote/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.KeyPairStore = (*KeyPairRepo)(nil)

// KeyPairRepo is the SQLite implementation of the KeyPairStore port interface.
// Private keys are encrypted with AES-256-GCM before write and decrypted after read;
// public keys are stored in the clear.
type KeyPairRepo struct {
	db       *DB
	key      []byte // 32-byte AES-256 key; nil when encryption is disabled.
	generate func(comment string) (publicKey, privateKey string, err error)
}

// NewKeyPairRepo creates a new KeyPairRepo. key must be 32 bytes for AES-256-GCM,
// or nil, in which case Get, Generate and List return ErrEncryptionKeyNotSet.
func NewKeyPairRepo(db *DB, key []byte) *KeyPairRepo {
	return &KeyPairRepo{db: db, key: key, generate: sshkey.GenerateEd25519}
}

// Get returns the pair for service and host, or (nil, nil) if none is stored.
func (r *KeyPairRepo) Get(ctx context.Context, service, host string) (*model.SSHKeyPair, error) {
	if r.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT public_key, private_key, created_at FROM ssh_key_pairs WHERE service = ? AND host = ?`

	var encrypted, createdAt string
	pair := model.SSHKeyPair{Service: service, Host: host}
	err := r.db.Reader.QueryRowContext(ctx, query, service, host).Scan(&pair.PublicKey, &encrypted, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get key pair %s/%s: %w", service, host, err)
	}

	if pair.PrivateKey, err = r.decrypt(encrypted); err != nil {
		return nil, fmt.Errorf("decrypt key pair %s/%s: %w", service, host, err)
	}
	if pair.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for key pair %s/%s: %w", service, host, err)
	}

	return &pair, nil
}

// Generate creates a new ed25519 pair for service and host and stores it,
// replacing any pair already held for them.
func (r *KeyPairRepo) Generate(ctx context.Context, service, host string) (*model.SSHKeyPair, error) {
	if r.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	publicKey, privateKey, err := r.generate(service + "@" + host)
	if err != nil {
		return nil, fmt.Errorf("generate key pair %s/%s: %w", service, host, err)
	}

	encrypted, err := r.encrypt(privateKey)
	if err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC().Truncate(time.Second)

	const query = `INSERT INTO ssh_key_pairs (service, host, public_key, private_key, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(service, host) DO UPDATE SET
			public_key = excluded.public_key,
			private_key = excluded.private_key,
			created_at = excluded.created_at`

	_, err = r.db.Writer.ExecContext(ctx, query, service, host, publicKey, encrypted, createdAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("store key pair %s/%s: %w", service, host, err)
	}

	return &model.SSHKeyPair{
		Service:    service,
		Host:       host,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		CreatedAt:  createdAt,
	}, nil
}

// List returns all stored pairs with decrypted private keys, ordered by service and host.
func (r *KeyPairRepo) List(ctx context.Context) ([]model.SSHKeyPair, error) {
	if r.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT service, host, public_key, private_key, created_at FROM ssh_key_pairs ORDER BY service, host`
	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list key pairs: %w", err)
	}
	defer rows.Close()

	pairs := []model.SSHKeyPair{}
	for rows.Next() {
		var pair model.SSHKeyPair
		var encrypted, createdAt string
		if err := rows.Scan(&pair.Service, &pair.Host, &pair.PublicKey, &encrypted, &createdAt); err != nil {
			return nil, fmt.Errorf("scan key pair: %w", err)
		}

		if pair.PrivateKey, err = r.decrypt(encrypted); err != nil {
			return nil, fmt.Errorf("decrypt key pair %s/%s: %w", pair.Service, pair.Host, err)
		}
		if pair.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for key pair %s/%s: %w", pair.Service, pair.Host, err)
		}

		pairs = append(pairs, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate key pairs: %w", err)
	}

	return pairs, nil
}

// Delete removes the pair for service and host.
func (r *KeyPairRepo) Delete(ctx context.Context, service, host string) error {
	const query = `DELETE FROM ssh_key_pairs WHERE service = ? AND host = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, service, host); err != nil {
		return fmt.Errorf("delete key pair %s/%s: %w", service, host, err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded string
// containing the nonce (12 bytes) prepended to the ciphertext.
func (r *KeyPairRepo) encrypt(plaintext string) (string, error) {
	gcm, err := r.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *KeyPairRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := r.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}

func (r *KeyPairRepo) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}

// parseTime parses the timestamp formats SQLite may hand back for DATETIME columns.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
