// Package valkey provides a Valkey-backed client registry for
// multi-instance deployments where client records are shared between
// authorization server replicas.
package valkey

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	valkeygo "github.com/valkey-io/valkey-go"
	"golang.org/x/crypto/bcrypt"

	nativeapps "github.com/pressline/oauth-nativeapps"
	"github.com/pressline/oauth-nativeapps/registry"
)

const (
	// DefaultKeyPrefix is the default prefix for all registry keys.
	DefaultKeyPrefix = "nativeapps:"

	// connectionVerifyTimeout is the timeout for the initial ping.
	connectionVerifyTimeout = 5 * time.Second

	// scanBatchSize is the number of keys fetched per SCAN iteration.
	scanBatchSize = 100
)

// Config holds configuration for the Valkey registry backend.
type Config struct {
	// Address is the Valkey server address (required), e.g. "localhost:6379".
	Address string

	// Password is the optional authentication password.
	Password string

	// DB is the optional database number (default 0).
	DB int

	// KeyPrefix is the prefix for all keys (default "nativeapps:").
	KeyPrefix string

	// TLS is the optional TLS configuration for encrypted connections.
	TLS *tls.Config

	// Logger is the optional structured logger (default slog.Default()).
	Logger *slog.Logger
}

// Store is a Valkey-backed registry.ClientRegistry and
// registry.SecretVerifier.
type Store struct {
	client valkeygo.Client
	prefix string
	logger *slog.Logger
}

var (
	_ registry.ClientRegistry = (*Store)(nil)
	_ registry.SecretVerifier = (*Store)(nil)
)

// clientJSON is the stored wire shape of a client record.
type clientJSON struct {
	ClientID       string    `json:"client_id"`
	SecretHash     string    `json:"secret_hash,omitempty"`
	Confidential   bool      `json:"confidential"`
	ThirdParty     bool      `json:"third_party"`
	Label          string    `json:"label,omitempty"`
	RedirectURIs   []string  `json:"redirect_uris"`
	NativeOverride string    `json:"native_override,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// New creates a Valkey-backed registry and verifies the connection.
func New(cfg Config) (*Store, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("valkey address is required")
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := valkeygo.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.TLS != nil {
		opts.TLSConfig = cfg.TLS
	}

	client, err := valkeygo.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionVerifyTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to valkey: %w", err)
	}

	logger.Info("connected to Valkey client registry",
		"address", cfg.Address,
		"db", cfg.DB,
		"prefix", prefix)

	return &Store{
		client: client,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Close closes the Valkey connection.
func (s *Store) Close() {
	s.client.Close()
	s.logger.Info("Valkey client registry connection closed")
}

// SaveClient stores a client record. Provisioning belongs to the
// surrounding client-management component.
func (s *Store) SaveClient(ctx context.Context, client *registry.Client) error {
	if client == nil || client.ClientID == "" {
		return fmt.Errorf("invalid client")
	}

	stored := clientJSON{
		ClientID:       client.ClientID,
		SecretHash:     client.SecretHash,
		Confidential:   client.Confidential,
		ThirdParty:     client.ThirdParty,
		Label:          client.Label,
		RedirectURIs:   client.RedirectURIs,
		NativeOverride: string(client.NativeOverride),
		CreatedAt:      client.CreatedAt,
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal client: %w", err)
	}

	key := s.clientKey(client.ClientID)
	if err := s.client.Do(ctx, s.client.B().Set().Key(key).Value(string(data)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}

	s.logger.Debug("saved client", "client_id", client.ClientID)
	return nil
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(ctx context.Context, clientID string) (*registry.Client, error) {
	key := s.clientKey(clientID)

	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if valkeygo.IsValkeyNil(err) {
			return nil, registry.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	var stored clientJSON
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client: %w", err)
	}
	return fromJSON(&stored), nil
}

// ListClients lists all registered clients using cursor-based SCAN so
// large registries do not block the server.
func (s *Store) ListClients(ctx context.Context) ([]*registry.Client, error) {
	var clients []*registry.Client
	var cursor uint64

	pattern := s.clientKey("*")
	for {
		entry, err := s.client.Do(ctx, s.client.B().Scan().Cursor(cursor).Match(pattern).Count(scanBatchSize).Build()).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to scan clients: %w", err)
		}

		for _, key := range entry.Elements {
			data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
			if err != nil {
				if valkeygo.IsValkeyNil(err) {
					continue // deleted between SCAN and GET
				}
				return nil, fmt.Errorf("failed to get client %s: %w", key, err)
			}
			var stored clientJSON
			if err := json.Unmarshal([]byte(data), &stored); err != nil {
				s.logger.Warn("skipping undecodable client record", "key", key, "error", err)
				continue
			}
			clients = append(clients, fromJSON(&stored))
		}

		cursor = entry.Cursor
		if cursor == 0 {
			break
		}
	}

	return clients, nil
}

// VerifySecret checks a client secret against the stored bcrypt hash.
// All failure paths return the same generic error.
func (s *Store) VerifySecret(ctx context.Context, clientID, secret string) error {
	client, err := s.GetClient(ctx, clientID)
	if err != nil || client.SecretHash == "" {
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinval"), []byte(secret))
		return fmt.Errorf("invalid client credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(secret)); err != nil {
		return fmt.Errorf("invalid client credentials")
	}
	return nil
}

func (s *Store) clientKey(clientID string) string {
	return s.prefix + "client:" + clientID
}

func fromJSON(stored *clientJSON) *registry.Client {
	override, ok := nativeapps.ParseClientKind(stored.NativeOverride)
	if !ok {
		// Legacy or corrupted value: fall back to algorithmic detection
		// rather than failing the lookup.
		override = nativeapps.ClientKindUnset
	}
	return &registry.Client{
		ClientID:       stored.ClientID,
		SecretHash:     stored.SecretHash,
		Confidential:   stored.Confidential,
		ThirdParty:     stored.ThirdParty,
		Label:          stored.Label,
		RedirectURIs:   stored.RedirectURIs,
		NativeOverride: override,
		CreatedAt:      stored.CreatedAt,
	}
}
