package driven

import "context"

// BlobStore reads and writes blobs in a storage account.
// Each adapter (azure, filesystem, memory) implements this interface.
type BlobStore interface {
	// Download fetches the full contents of a blob.
	// Returns domain.ErrNotFound when the blob does not exist.
	Download(ctx context.Context, container, path string) ([]byte, error)

	// Upload writes a blob, overwriting any existing one.
	Upload(ctx context.Context, container, path string, data []byte) error

	// List returns blob paths in a container under the given prefix.
	List(ctx context.Context, container, prefix string) ([]string, error)

	// Close releases resources.
	Close() error
}

// BlobStoreFactory resolves a connection environment variable name to a
// connected store. The caller names the environment variable holding the
// connection string, not the connection string itself, matching the
// process_file invocation contract.
type BlobStoreFactory interface {
	// Create resolves envVar and connects to the storage account.
	// Returns domain.ErrEnvNotAllowed when envVar is not on the
	// configured allowlist, and domain.ErrStoreUnavailable when the
	// variable is unset or the connection string is rejected.
	Create(ctx context.Context, envVar string) (BlobStore, error)
}
