// Package memory provides an in-memory client registry, suitable for
// development, testing, and single-instance deployments.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pressline/oauth-nativeapps/registry"
)

// Store is an in-memory registry.ClientRegistry and
// registry.SecretVerifier. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	clients map[string]*registry.Client
	logger  *slog.Logger
}

// New creates an empty in-memory registry.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		clients: make(map[string]*registry.Client),
		logger:  logger,
	}
}

// SaveClient stores a client record. The record is copied so later caller
// mutations cannot leak into the registry. Provisioning belongs to the
// surrounding client-management component; the native-apps core itself
// never calls this.
func (s *Store) SaveClient(_ context.Context, client *registry.Client) error {
	if client == nil || client.ClientID == "" {
		return fmt.Errorf("invalid client")
	}

	stored := cloneClient(client)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.clients[stored.ClientID] = stored
	s.mu.Unlock()

	s.logger.Debug("saved client", "client_id", stored.ClientID)
	return nil
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(_ context.Context, clientID string) (*registry.Client, error) {
	s.mu.RLock()
	client, ok := s.clients[clientID]
	s.mu.RUnlock()
	if !ok {
		return nil, registry.ErrClientNotFound
	}
	return cloneClient(client), nil
}

// ListClients lists all registered clients sorted by client ID.
func (s *Store) ListClients(_ context.Context) ([]*registry.Client, error) {
	s.mu.RLock()
	out := make([]*registry.Client, 0, len(s.clients))
	for _, client := range s.clients {
		out = append(out, cloneClient(client))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out, nil
}

// VerifySecret checks a client secret against the stored bcrypt hash.
// Unknown clients, public clients, and wrong secrets all return the same
// generic error so the response cannot be used as a client oracle.
func (s *Store) VerifySecret(_ context.Context, clientID, secret string) error {
	s.mu.RLock()
	client, ok := s.clients[clientID]
	s.mu.RUnlock()

	if !ok || client.SecretHash == "" {
		// Burn comparable time so unknown clients are not
		// distinguishable by response latency.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinval"), []byte(secret))
		return fmt.Errorf("invalid client credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(secret)); err != nil {
		return fmt.Errorf("invalid client credentials")
	}
	return nil
}

func cloneClient(c *registry.Client) *registry.Client {
	clone := *c
	clone.RedirectURIs = append([]string(nil), c.RedirectURIs...)
	return &clone
}
