package store

import (
	"context"
	"time"

	"github.com/matzehuels/canopy/pkg/observability"
)

// instrumented reports every call of the wrapped store to the registered
// observability.StoreHooks.
type instrumented struct {
	inner   Store
	backend string
}

// Instrument wraps s so each operation is reported under backend.
func Instrument(s Store, backend string) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{inner: s, backend: backend}
}

func (s *instrumented) report(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Save(ctx context.Context, name string, data []byte) error {
	start := time.Now()
	err := s.inner.Save(ctx, name, data)
	s.report(ctx, "save", start, err)
	return err
}

func (s *instrumented) Load(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	data, err := s.inner.Load(ctx, name)
	s.report(ctx, "load", start, err)
	return data, err
}

func (s *instrumented) List(ctx context.Context) ([]Info, error) {
	start := time.Now()
	infos, err := s.inner.List(ctx)
	s.report(ctx, "list", start, err)
	return infos, err
}

func (s *instrumented) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, name)
	s.report(ctx, "delete", start, err)
	return err
}

func (s *instrumented) Close() error {
	return s.inner.Close()
}
