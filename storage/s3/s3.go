// Package s3 provides an S3-compatible storage backend built on the MinIO
// client. Flows are written as yaml manifests under a key prefix inside a
// single bucket; Build ensures the bucket exists.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/flowstore/core"
	"github.com/hupe1980/flowstore/internal/manifest"
	"github.com/hupe1980/flowstore/internal/util"
	"github.com/hupe1980/flowstore/schema"
	"github.com/hupe1980/flowstore/storage"
)

// Kind is the kind tag of the S3 backend.
const Kind = "S3"

func init() {
	schema.Register(Kind, s3Schema{})
}

// Config holds the connection settings for the S3-compatible endpoint.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// KeyPrefix is prepended to every object key. Defaults to "flows".
	KeyPrefix string
	// Timeout bounds each object operation. Defaults to 30s.
	Timeout time.Duration
}

// Storage stores flow manifests in an S3-compatible bucket. Locations are
// object keys. Direct execution is not supported; GetEnvRunner keeps the
// contract default.
type Storage struct {
	*storage.Base

	client    *minio.Client
	bucket    string
	region    string
	keyPrefix string
	timeout   time.Duration

	initOnce sync.Once
	initErr  error
}

// New constructs an S3 backend from the given config. The remote endpoint
// is not contacted here; the bucket is ensured lazily on first write or at
// Build.
func New(cfg Config, optFns ...func(o *storage.Options)) (*Storage, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	keyPrefix := strings.Trim(cfg.KeyPrefix, "/")
	if keyPrefix == "" {
		keyPrefix = "flows"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &Storage{
		Base:      storage.NewBase(Kind, []string{"s3-flow-storage"}, optFns...),
		client:    client,
		bucket:    bucket,
		region:    region,
		keyPrefix: keyPrefix,
		timeout:   timeout,
	}, nil
}

// Bucket returns the bucket flows are stored in.
func (s *Storage) Bucket() string { return s.bucket }

func (s *Storage) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *Storage) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// AddFlow uploads the flow manifest and returns its object key.
// Re-registering a flow name overwrites the previous object.
func (s *Storage) AddFlow(f *core.Flow) (string, error) {
	if f == nil {
		return "", fmt.Errorf("add flow: nil flow")
	}

	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	data, err := yaml.Marshal(manifest.FromFlow(f))
	if err != nil {
		return "", fmt.Errorf("encode flow manifest: %w", err)
	}

	key := s.objectKey(f.Name)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/x-yaml",
	})
	if err != nil {
		return "", fmt.Errorf("upload flow %q: %w", f.Name, err)
	}

	s.Track(key, f)
	s.Logger().Debug("flow uploaded", "flow", f.Name, "bucket", s.bucket, "key", key)

	return key, nil
}

// Contains reports whether the given object key belongs to this backend.
func (s *Storage) Contains(candidate string) bool {
	_, ok := s.Tracked(candidate)
	return ok
}

// Build finalizes the backend, ensuring the bucket exists even when no
// flow was registered.
func (s *Storage) Build() (core.Storage, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("build s3 storage: %w", err)
	}
	return s, nil
}

// GetFlow downloads and decodes the flow manifest at the given object key.
func (s *Storage) GetFlow(location string) (*core.Flow, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	obj, err := s.client.GetObject(ctx, s.bucket, location, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get flow at %q: %w", location, err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("get flow at %q: %w", location, core.ErrFlowNotFound)
		}
		return nil, fmt.Errorf("read flow at %q: %w", location, err)
	}

	var m manifest.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode flow manifest at %q: %w", location, err)
	}

	return m.ToFlow(), nil
}

// Serialize delegates to the S3 schema, which adds bucket and key prefix to
// the common fields.
func (s *Storage) Serialize() (map[string]any, error) {
	return schema.Dump(s)
}

func (s *Storage) objectKey(flowName string) string {
	return path.Join(s.keyPrefix, util.Slugify(flowName))
}

// s3Schema extends the base dump with the bucket coordinates.
type s3Schema struct {
	schema.BaseSchema
}

func (ss s3Schema) Dump(m core.Metadata) (map[string]any, error) {
	out, err := ss.BaseSchema.Dump(m)
	if err != nil {
		return nil, err
	}

	s, ok := m.(*Storage)
	if !ok {
		return nil, fmt.Errorf("s3 schema: unexpected backend type %T", m)
	}
	out["bucket"] = s.bucket
	out["key_prefix"] = s.keyPrefix

	return out, nil
}
