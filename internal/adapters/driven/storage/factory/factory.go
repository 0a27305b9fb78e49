// Package factory resolves connection-environment-variable names into
// connected blob stores. Callers of process_file name the environment
// variable carrying the connection string rather than passing the
// string itself; this package performs that indirection.
package factory

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/finwatch/findetect/internal/adapters/driven/storage/azure"
	"github.com/finwatch/findetect/internal/adapters/driven/storage/filesystem"
	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/ports/driven"
	"github.com/finwatch/findetect/internal/logger"
)

// fileScheme prefixes connection strings that point at a local
// directory instead of a storage account. Used by the watch command and
// local development.
const fileScheme = "file://"

// Ensure EnvFactory implements the interface.
var _ driven.BlobStoreFactory = (*EnvFactory)(nil)

// EnvFactory creates blob stores from connection strings held in
// environment variables.
type EnvFactory struct {
	allowed []string
}

// NewEnvFactory creates a factory. A non-empty allowed list restricts
// which environment variable names callers may reference; an empty list
// permits any.
func NewEnvFactory(allowed []string) *EnvFactory {
	return &EnvFactory{allowed: allowed}
}

// Create resolves envVar and connects to the storage it names.
func (f *EnvFactory) Create(_ context.Context, envVar string) (driven.BlobStore, error) {
	if envVar == "" {
		return nil, fmt.Errorf("%w: no connection environment variable named", domain.ErrStoreUnavailable)
	}
	if len(f.allowed) > 0 && !slices.Contains(f.allowed, envVar) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEnvNotAllowed, envVar)
	}

	connectionString := os.Getenv(envVar)
	if connectionString == "" {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrStoreUnavailable, envVar)
	}

	if strings.HasPrefix(connectionString, fileScheme) {
		root := strings.TrimPrefix(connectionString, fileScheme)
		logger.Debug("Resolved %s to local store at %s", envVar, root)
		store, err := filesystem.NewStore(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		return store, nil
	}

	store, err := azure.NewStore(connectionString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	logger.Debug("Resolved %s to Azure store", envVar)
	return store, nil
}
