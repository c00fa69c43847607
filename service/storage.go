package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const gcsEndpoint = "storage.googleapis.com"

// ObjectStorage writes uploads to the S3-compatible asset bucket
type ObjectStorage struct {
	client *minio.Client
	bucket string
	config *config.StorageConfig
}

func NewObjectStorage(cfg *config.StorageConfig) (*ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &ObjectStorage{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

func (s *ObjectStorage) Bucket() string {
	return s.bucket
}

// BucketExists reports whether the configured bucket is reachable.
// An error means the check itself failed, usually a permissions problem.
func (s *ObjectStorage) BucketExists(ctx context.Context) (bool, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket: %w", err)
	}
	return exists, nil
}

// Put streams reader into the bucket under key. size may be -1 when unknown.
func (s *ObjectStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// Remove deletes an object, used to purge orphans
func (s *ObjectStorage) Remove(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ListObjects returns every object under prefix with its modification time
func (s *ObjectStorage) ListObjects(ctx context.Context, prefix string) ([]StoredObject, error) {
	var objects []StoredObject
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		objects = append(objects, StoredObject{Key: obj.Key, LastModified: obj.LastModified})
	}
	return objects, nil
}

// PublicURL returns the URL clients use to fetch the object
func (s *ObjectStorage) PublicURL(key string) string {
	return publicURL(s.config, s.bucket, key)
}

// ObjectPath returns the scheme-qualified location of the object,
// gs:// for Cloud Storage and s3:// for everything else.
func (s *ObjectStorage) ObjectPath(key string) string {
	return objectPath(s.config, s.bucket, key)
}

func publicURL(cfg *config.StorageConfig, bucket, key string) string {
	if cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(cfg.PublicBaseURL, "/"), bucket, key)
	}
	protocol := "http"
	if cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, cfg.Endpoint, bucket, key)
}

func objectPath(cfg *config.StorageConfig, bucket, key string) string {
	scheme := "s3"
	if strings.EqualFold(cfg.Endpoint, gcsEndpoint) {
		scheme = "gs"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, bucket, key)
}
