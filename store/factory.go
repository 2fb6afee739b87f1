// Package store provides the BlockWard datastore: PostgreSQL through gorm, or in memory.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/blockward/blockward-backend/interfaces"
)

// Store is a Datastore that can also be seeded with profiles.
type Store interface {
	interfaces.Datastore

	PutStudent(ctx context.Context, p *interfaces.StudentProfile) error
	PutIssuer(ctx context.Context, p *interfaces.IssuerProfile) error
}

// Open creates a datastore from a URI.
//
// Supported schemes:
//   - postgres://, postgresql:// - PostgreSQL DSN passed to gorm
//   - memory:// - in-process store, lost on exit
func Open(ctx context.Context, uri string, log *slog.Logger) (Store, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidDatastoreURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		log.Debug("Opening postgres datastore", slog.String("host", u.Host))
		return NewPostgresStore(ctx, uri, log)
	case "memory":
		log.Warn("Using in-memory datastore, records are lost on restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidDatastoreURI, u.Scheme)
	}
}
