// Package store persists named diagram documents.
//
// A Store is byte-oriented: it saves and returns the JSON produced by the
// document package without looking inside it. Three backends are provided:
//   - file: one JSON file per document, for single-user CLI use
//   - redis: shared storage with a sorted index for listing
//   - mongo: one BSON record per document in a collection
//
// Names are validated with errors.ValidateDocumentName before they reach a
// backend, since they become file names, Redis keys and MongoDB ids.
//
// # Usage
//
//	s, err := store.Open(ctx, cfg.Store, dir)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Save(ctx, "roadmap", data); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/canopy/pkg/config"
	errs "github.com/matzehuels/canopy/pkg/errors"
)

// ErrNotFound is returned by Load and Delete when no document has the name.
var ErrNotFound = errors.New("document not found")

// Info describes a stored document without its payload.
type Info struct {
	Name      string
	Size      int
	UpdatedAt time.Time
}

// Store is the interface for document storage backends.
type Store interface {
	// Save creates or replaces the named document.
	Save(ctx context.Context, name string, data []byte) error

	// Load returns the named document, or ErrNotFound.
	Load(ctx context.Context, name string) ([]byte, error)

	// List returns all documents, most recently updated first.
	List(ctx context.Context) ([]Info, error)

	// Delete removes the named document, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error

	// Close releases connections held by the backend.
	Close() error
}

// Open builds the backend selected by cfg. dir is used by the file backend
// when cfg.Dir is empty. Remote backends verify connectivity before
// returning.
func Open(ctx context.Context, cfg config.StoreConfig, dir string) (Store, error) {
	if cfg.Dir != "" {
		dir = cfg.Dir
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.BackendFile, "":
		s, err = NewFileStore(dir)
	case config.BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.KeyPrefix,
		})
	case config.BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
			Timeout:    cfg.Timeout,
		})
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "open %s store", backendName(cfg.Backend))
	}
	return Instrument(s, backendName(cfg.Backend)), nil
}

func backendName(b string) string {
	if b == "" {
		return config.BackendFile
	}
	return b
}
