// Package azure implements driven.BlobStore on Azure Blob Storage
// using the azblob SDK client.
package azure

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/ports/driven"
	"github.com/finwatch/findetect/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store is an Azure Blob Storage backed blob store.
type Store struct {
	client *azblob.Client
}

// NewStore connects to a storage account using a connection string.
func NewStore(connectionString string) (*Store, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("connect storage account: %w", err)
	}
	return &Store{client: client}, nil
}

// Download fetches the full contents of a blob.
func (s *Store) Download(ctx context.Context, container, path string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, container, path, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("download blob: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read blob body: %w", err)
	}

	logger.Debug("Downloaded %s/%s (%d bytes)", container, path, len(data))
	return data, nil
}

// Upload writes a blob, overwriting any existing one.
func (s *Store) Upload(ctx context.Context, container, path string, data []byte) error {
	if _, err := s.client.UploadBuffer(ctx, container, path, data, nil); err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	logger.Debug("Uploaded %s/%s (%d bytes)", container, path, len(data))
	return nil
}

// List returns blob paths in a container under the given prefix.
func (s *Store) List(ctx context.Context, container, prefix string) ([]string, error) {
	options := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		options.Prefix = &prefix
	}

	var paths []string
	pager := s.client.NewListBlobsFlatPager(container, options)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if bloberror.HasCode(err, bloberror.ContainerNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("list blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				paths = append(paths, *item.Name)
			}
		}
	}
	return paths, nil
}

// Close releases resources. The azblob client needs no explicit close.
func (s *Store) Close() error {
	return nil
}
