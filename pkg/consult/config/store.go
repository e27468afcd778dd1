package config

import (
	"context"
	"fmt"

	"github.com/cognicore/consult/pkg/consult/store"
	"github.com/cognicore/consult/pkg/consult/store/memstore"
	"github.com/cognicore/consult/pkg/consult/store/sqlite"
)

// OpenStore opens the configured archive. DriverNone yields a nil store.
func OpenStore(ctx context.Context, s Store) (store.Store, error) {
	switch s.Driver {
	case DriverNone:
		return nil, nil
	case DriverMemory:
		return memstore.New(), nil
	case DriverSQLite:
		st, err := sqlite.OpenSQLite(ctx, s.Path)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", s.Path, err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", s.Driver)
	}
}
