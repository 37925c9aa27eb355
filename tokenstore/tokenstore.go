// tokenstore.go
/* Package tokenstore hands out the access token attached to token-bearing
requests. The client treats the store as a black box: it asks for the current
token per attempt and drops the cached value when the platform reports the
token as expired, forcing the next attempt to fetch a fresh one. */
package tokenstore

import (
	"context"
	"sync"

	"github.com/thingscale/go-openapi-http-client/logger"
)

// Source fetches a fresh access token from the platform's token endpoint.
// The acquisition protocol itself lives outside this module.
type Source func(ctx context.Context) (string, error)

// Store is the token cache collaborator used by the HTTP client.
type Store interface {
	// Token returns a token believed to be valid, refreshing through the
	// source if nothing is cached.
	Token(ctx context.Context) (string, error)

	// Invalidate drops the cached token so the next Token call refreshes.
	Invalidate()
}

// Memory is a Store caching the most recent token in process memory.
// Invalidation is best effort: concurrent requests may each observe an
// expired token and independently trigger a refresh, which is acceptable
// because refreshing is idempotent.
type Memory struct {
	mu     sync.Mutex
	token  string
	source Source
	log    logger.Logger
}

var _ Store = (*Memory)(nil)

// NewMemory returns a Memory store refreshing through source.
func NewMemory(source Source, log logger.Logger) *Memory {
	return &Memory{
		source: source,
		log:    log,
	}
}

// Token returns the cached token, fetching a fresh one from the source when
// the cache is empty.
func (m *Memory) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" {
		return m.token, nil
	}

	m.log.Debug("no cached access token, fetching a fresh one")
	token, err := m.source(ctx)
	if err != nil {
		return "", err
	}
	m.token = token
	return token, nil
}

// Invalidate clears the cached token.
func (m *Memory) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.log.Debug("cached access token invalidated")
}

// Static is a Store returning a fixed token. Useful in tests and for tooling
// that manages tokens out of band.
type Static string

var _ Store = Static("")

// Token returns the fixed token.
func (s Static) Token(context.Context) (string, error) { return string(s), nil }

// Invalidate is a no-op: there is nothing cached to drop.
func (s Static) Invalidate() {}
