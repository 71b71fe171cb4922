// Package s3store implements the store.Store interface on an S3-compatible bucket.
// Each map is one object under a key prefix; timestamps travel as object
// metadata.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/alfredjeanlab/marketmaps/internal/model"
	"github.com/alfredjeanlab/marketmaps/internal/store"
)

// Object metadata keys. S3 lowercases user metadata keys on read.
const (
	metaCreatedAt = "created-at"
	metaUpdatedAt = "updated-at"
)

// S3Store implements store.Store on an S3 bucket.
//
// PutMap reads the existing object's metadata before writing so an overwrite
// can keep its creation time. The read and the write are not atomic; two
// concurrent first writes to the same ID may record different creation times.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	now    func() time.Time
}

// Compile-time check that S3Store implements store.Store.
var _ store.Store = (*S3Store)(nil)

// New creates an S3 store from the default AWS credential chain. If endpoint
// is non-empty, path-style addressing is enabled (for MinIO and similar).
func New(ctx context.Context, bucket, prefix, region, endpoint string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return NewWithClient(s3.NewFromConfig(cfg, s3opts...), bucket, prefix), nil
}

// NewWithClient creates an S3 store using an existing client.
func NewWithClient(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *S3Store) key(id string) string {
	return s.prefix + id
}

func (s *S3Store) PutMap(ctx context.Context, id, mapData string) (*model.MarketMap, error) {
	now := s.now()
	m := model.NewMarketMap(id, mapData, now)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	switch {
	case err == nil:
		if created, ok := parseMetaTime(head.Metadata, metaCreatedAt); ok {
			m.CreatedAt = created
		}
	case !isNotFound(err):
		return nil, fmt.Errorf("s3 head object: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader([]byte(mapData)),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata: map[string]string{
			metaCreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
			metaUpdatedAt: m.UpdatedAt.Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put object: %w", err)
	}
	return m, nil
}

func (s *S3Store) GetMap(ctx context.Context, id string) (*model.MarketMap, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if isNotFound(err) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read object: %w", err)
	}

	m := &model.MarketMap{ID: id, MapData: string(data)}
	m.CreatedAt, _ = parseMetaTime(out.Metadata, metaCreatedAt)
	m.UpdatedAt, _ = parseMetaTime(out.Metadata, metaUpdatedAt)
	if m.UpdatedAt.IsZero() && out.LastModified != nil {
		m.UpdatedAt = out.LastModified.UTC()
	}
	return m, nil
}

// Ping checks that the bucket exists and is reachable.
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("s3 head bucket: %w", err)
	}
	return nil
}

func (s *S3Store) Close() error { return nil }

// isNotFound reports whether err is a 404 from S3. HeadObject returns a bare
// 404 with no error code, so the status is checked rather than the code.
func isNotFound(err error) bool {
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}

func parseMetaTime(meta map[string]string, key string) (time.Time, bool) {
	v, ok := meta[key]
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
