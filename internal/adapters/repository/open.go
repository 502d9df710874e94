package repository

import (
	"context"
	"fmt"
)

// Driver names accepted by Open.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Open connects the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMongo:
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
	case DriverSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
