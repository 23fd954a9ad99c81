package repojanitor

import (
	"context"
	"fmt"
)

// Source lists and deletes components in an artifact store.
type Source interface {
	// Type returns the source type name.
	Type() string

	// List returns every listing entry of the configured repository.
	// A mid-listing request failure yields the entries collected so far
	// rather than an error; only a pagination safety abort is fatal.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes a single component by its identifier.
	Delete(ctx context.Context, id string) error
}

// New builds the source selected by the configuration.
func New(cfg *Config) (Source, error) {
	switch cfg.SourceType {
	case SourceNexus:
		return NewNexusSource(cfg.ServerURL, cfg.Username, cfg.Password, cfg.Repository)
	case SourceS3:
		return NewS3Source(cfg.S3Endpoint, cfg.S3Region, cfg.Repository,
			cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3PathStyle, cfg.SourcePrefix)
	case SourceGCS:
		return NewGCSSource(context.Background(), cfg.Repository, cfg.SourcePrefix, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.SourceType)
	}
}
