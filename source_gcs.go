package repojanitor

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSSource implements Source for Google Cloud Storage buckets, with the
// same object-to-entry mapping as the S3 source.
type GCSSource struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSSource creates a new GCS source instance. An empty credentials
// file falls back to application default credentials.
func NewGCSSource(ctx context.Context, bucket, prefix, credentialsFile string) (*GCSSource, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS bucket name is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSSource{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// List returns one entry per object under the configured prefix. An
// iteration failure ends the listing with the entries collected so far.
func (s *GCSSource) List(ctx context.Context) ([]Entry, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: s.prefix})

	var entries []Entry
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			slog.Warn("object listing request failed, proceeding with partial results",
				"bucket", s.bucket, "error", err)
			break
		}
		entries = append(entries, Entry{
			ID:      attrs.Name,
			Version: path.Base(attrs.Name),
			Assets:  []Asset{{Path: attrs.Name, LastModified: attrs.Updated}},
		})
	}

	return entries, nil
}

// Delete removes an object by its name.
func (s *GCSSource) Delete(ctx context.Context, id string) error {
	if err := s.client.Bucket(s.bucket).Object(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object: %w", err)
	}
	return nil
}

// Type returns the source type name.
func (s *GCSSource) Type() string {
	return "gcs"
}
