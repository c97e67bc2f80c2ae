// Package registry defines the read-only OAuth client record collaborator
// consumed by the native-apps core, with in-memory and Valkey-backed
// implementations. The core only ever reads client records; creation and
// editing belong to the surrounding client-management component.
package registry

import (
	"context"
	"errors"
	"time"

	nativeapps "github.com/pressline/oauth-nativeapps"
)

// ErrClientNotFound is returned when no client exists for an identifier.
var ErrClientNotFound = errors.New("client not found")

// Client is one registered OAuth client as seen by the native-apps core.
type Client struct {
	// ClientID is the client identifier.
	ClientID string

	// SecretHash is the bcrypt hash of the client secret. Empty for
	// public clients.
	SecretHash string

	// Confidential is true when the client can hold a secret.
	Confidential bool

	// ThirdParty marks clients operated by an external party.
	ThirdParty bool

	// Label is the human-readable display name.
	Label string

	// RedirectURIs is the ordered list of registered redirect URIs.
	RedirectURIs []string

	// NativeOverride is the manual classification override: unset for
	// algorithmic detection, or an explicit native/web decision.
	NativeOverride nativeapps.ClientKind

	// CreatedAt is when the record was created.
	CreatedAt time.Time
}

// ClientRegistry is the lookup interface the detector and the
// surrounding server consume. Implementations must be safe for
// concurrent use.
type ClientRegistry interface {
	// GetClient retrieves a client by ID. Returns ErrClientNotFound
	// when no such client exists.
	GetClient(ctx context.Context, clientID string) (*Client, error)

	// ListClients lists all registered clients, for admin tooling.
	ListClients(ctx context.Context) ([]*Client, error)
}

// SecretVerifier is implemented by registries that can verify
// confidential client secrets.
type SecretVerifier interface {
	// VerifySecret checks a client secret against the stored hash.
	// Returns nil on success; a generic error otherwise (no distinction
	// between unknown client and wrong secret, to avoid oracle leaks).
	VerifySecret(ctx context.Context, clientID, secret string) error
}
