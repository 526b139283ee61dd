package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Store using a MinIO (or any S3-compatible) backend.
// Switching providers is a matter of changing STORAGE_ENDPOINT and credentials —
// no code changes are needed.
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioStore creates a MinIO client, ensures the bucket exists with a
// public-read policy, and returns a ready-to-use MinioStore.
func NewMinioStore(endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStore{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload streams reader to MinIO under key. size must be the exact byte count
// (pass -1 only if the size is genuinely unknown — MinIO will buffer it).
// With opts.Overwrite false, an occupied key is an error; the existence check
// is a stat-then-put rather than a conditional write, which is sufficient
// because keys carry a timestamp+uuid component and never collide in practice.
func (s *MinioStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, opts UploadOptions) error {
	if !opts.Overwrite {
		_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
		if err == nil {
			return fmt.Errorf("object %q already exists", key)
		}
		if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" && resp.Code != "NotFound" {
			return fmt.Errorf("stat object %q: %w", key, err)
		}
	}

	putOpts := minio.PutObjectOptions{ContentType: opts.ContentType}
	if opts.CacheSeconds > 0 {
		putOpts.CacheControl = fmt.Sprintf("max-age=%d", opts.CacheSeconds)
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, putOpts); err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// List returns the entries directly under folder, newest first, capped at limit.
// S3 listings come back in lexical key order, so the creation-time ordering is
// applied client-side before the cap.
func (s *MinioStore) List(ctx context.Context, folder string, limit int) ([]ObjectInfo, error) {
	prefix := strings.TrimRight(folder, "/") + "/"

	var entries []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %q: %w", folder, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue // common-prefix (sub-folder) entry, not an object
		}
		entries = append(entries, ObjectInfo{
			Name:      strings.TrimPrefix(obj.Key, prefix),
			CreatedAt: obj.LastModified,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// PublicURL returns the browser-accessible URL for the given key.
// For local MinIO: "http://localhost:9000/memories/uploads/file.jpg".
func (s *MinioStore) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// Remove deletes each key in order, stopping at the first failure.
func (s *MinioStore) Remove(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove object %q: %w", key, err)
		}
	}
	return nil
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
