package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// PresignedUpload is handed to the browser so it can PUT an attachment
// straight into the bucket and paste the public URL into a form.
type PresignedUpload struct {
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type MinIOService struct {
	client    *minio.Client
	bucket    string
	publicURL string
	expiry    time.Duration
	logger    *logrus.Logger
	now       func() time.Time
}

// NewMinIOService creates a MinIO client and ensures the bucket exists.
func NewMinIOService(cfg *config.MinIOConfig, logger *logrus.Logger) (*MinIOService, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("MinIO client initialized successfully")

	service := &MinIOService{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
		expiry:    cfg.PresignExpiry,
		logger:    logger,
		now:       time.Now,
	}

	if err := service.ensureBucket(context.Background(), cfg.Region); err != nil {
		logger.WithError(err).Warn("Failed to configure bucket, but continuing...")
	}

	return service, nil
}

func (s *MinIOService) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created successfully")
	}

	// Staged artwork and videos are referenced by URL from the catalog
	// backend, so objects must be publicly readable.
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// Presign returns a short-lived PUT URL for one attachment.
func (s *MinIOService) Presign(ctx context.Context, category, filename string) (*PresignedUpload, error) {
	key := objectKey(category, filename, s.now())

	presigned, err := s.client.PresignedPutObject(ctx, s.bucket, key, s.expiry)
	if err != nil {
		s.logger.WithError(err).WithField("objectKey", key).Error("Failed to generate presigned URL")
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"filename":  filename,
		"objectKey": key,
		"expiry":    s.expiry,
	}).Info("Generated presigned URL")

	return &PresignedUpload{
		UploadURL: presigned.String(),
		PublicURL: publicObjectURL(s.publicURL, s.bucket, key),
		ObjectKey: key,
		ExpiresAt: s.now().Add(s.expiry).UTC(),
	}, nil
}

// Upload stores a form attachment and returns its public URL. Movie videos
// go through here when staging is enabled.
func (s *MinIOService) Upload(ctx context.Context, part apiclient.FilePart) (string, error) {
	category := strings.SplitN(part.ContentType, "/", 2)[0]
	if category == "" {
		category = "files"
	}
	key := objectKey(category, part.Filename, s.now())

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(part.Content), int64(len(part.Content)), minio.PutObjectOptions{
		ContentType: part.ContentType,
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"objectKey": key,
			"size":      len(part.Content),
		}).Error("Failed to upload attachment")
		return "", fmt.Errorf("failed to upload %s: %w", part.Filename, err)
	}

	s.logger.WithFields(logrus.Fields{
		"objectKey": key,
		"size":      len(part.Content),
	}).Info("Attachment staged")

	return publicObjectURL(s.publicURL, s.bucket, key), nil
}

// Delete removes an object by key or by its public URL.
func (s *MinIOService) Delete(ctx context.Context, ref string) error {
	key := keyFromRef(ref, s.bucket)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.WithError(err).WithField("objectKey", key).Error("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.WithField("objectKey", key).Info("File deleted successfully from MinIO")
	return nil
}

// Health checks that the bucket is reachable.
func (s *MinIOService) Health(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("minio health check failed: %w", err)
	}
	return nil
}

// objectKey builds "<category>/<yyyy>/<mm>/<name>_<id8><ext>".
func objectKey(category, filename string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ' || r == '.':
			return '-'
		}
		return -1
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return path.Join(category, now.UTC().Format("2006/01"), fmt.Sprintf("%s_%s%s", name, uuid.New().String()[:8], ext))
}

func publicObjectURL(publicBase, bucket, key string) string {
	u, err := url.Parse(publicBase)
	if err != nil || u.Host == "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(publicBase, "/"), bucket, key)
	}
	return fmt.Sprintf("%s://%s/%s/%s", u.Scheme, u.Host, bucket, key)
}

func keyFromRef(ref, bucket string) string {
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		ref = u.Path
	}
	ref = strings.TrimPrefix(ref, "/")
	return strings.TrimPrefix(ref, bucket+"/")
}
