package repojanitor

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Source implements Source for S3-compatible artifact buckets. Each
// object is treated as a single-asset component: the object key is both
// the identifier and the storage path, the base name is the version.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Source creates a new S3 source instance.
// Compatible with AWS S3, GCP Cloud Storage, MinIO, and other S3-compatible services
func NewS3Source(endpoint, region, bucket, accessKey, secretKey string, pathStyle bool, prefix string) (*S3Source, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}

	ctx := context.Background()

	// Build config options
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(region))

	// Set credentials if provided
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Build S3 client options
	var s3Opts []func(*s3.Options)

	// Set custom endpoint for MinIO, R2, etc.
	if endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	// Set path style for MinIO and other S3-compatible services
	if pathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &S3Source{
		client: s3.NewFromConfig(cfg, s3Opts...),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// List returns one entry per object under the configured prefix. A failed
// page request ends the listing with the entries collected so far, matching
// the partial-results policy of the other sources.
func (s *S3Source) List(ctx context.Context) ([]Entry, error) {
	prefix := s.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var entries []Entry
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			slog.Warn("object listing request failed, proceeding with partial results",
				"bucket", s.bucket, "error", err)
			break
		}

		for _, obj := range page.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				continue
			}
			entries = append(entries, Entry{
				ID:      *obj.Key,
				Version: path.Base(*obj.Key),
				Assets:  []Asset{{Path: *obj.Key, LastModified: *obj.LastModified}},
			})
		}
	}

	return entries, nil
}

// Delete removes an object by its key.
func (s *S3Source) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete S3 object: %w", err)
	}
	return nil
}

// Type returns the source type name.
func (s *S3Source) Type() string {
	return "s3"
}
