// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/easyretail/shop-backend/internal/config"
)

type StorageService struct {
	s3Client s3iface.S3API
	aws      config.AWSConfig
	upload   config.UploadConfig
	now      func() time.Time
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

type UploadOptions struct {
	Folder   string
	MaxSize  int64 // in bytes
	IsPublic bool
}

func NewStorageService(aws config.AWSConfig, upload config.UploadConfig) (*StorageService, error) {
	svc := &StorageService{aws: aws, upload: upload, now: time.Now}
	if aws.AccessKeyID == "" {
		// Local disk storage
		return svc, nil
	}

	client, err := newS3Client(aws)
	if err != nil {
		return nil, err
	}
	svc.s3Client = client
	return svc, nil
}

func newS3Client(cfg config.AWSConfig) (*s3.S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return s3.New(sess), nil
}

// ProductImageOptions are the limits for product pictures.
func (s *StorageService) ProductImageOptions() UploadOptions {
	return UploadOptions{
		Folder:   "products",
		MaxSize:  s.upload.MaxBytes,
		IsPublic: true,
	}
}

// UploadImage stores an image and returns where it can be fetched. Files
// over the size limit, or whose content is not an image, are rejected with
// ErrValidation.
func (s *StorageService) UploadImage(file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, validationError("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, options.MaxSize)
	}

	limit := options.MaxSize
	if limit <= 0 {
		limit = header.Size
	}
	fileBytes, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if options.MaxSize > 0 && int64(len(fileBytes)) > options.MaxSize {
		return nil, validationError("file exceeds maximum allowed size %d bytes", options.MaxSize)
	}

	mtype := mimetype.Detect(fileBytes)
	if !strings.HasPrefix(mtype.String(), "image/") || mtype.Is("image/svg+xml") {
		return nil, validationError("only image files are allowed, got %s", mtype.String())
	}

	key := s.generateFileName(mtype.Extension(), options.Folder)

	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, key, mtype.String(), options.IsPublic)
	}
	return s.uploadToLocal(fileBytes, key, mtype.String())
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string, isPublic bool) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	}
	if isPublic {
		params.ACL = aws.String("public-read")
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	target := filepath.Join(s.upload.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(target, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      path.Join(s.upload.PublicURL, key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

// KeyFromURL returns the storage key behind a URL handed out by UploadImage.
// Anything else, such as an emoji placeholder or an external link, reports
// false.
func (s *StorageService) KeyFromURL(url string) (string, bool) {
	var prefix string
	if s.s3Client != nil {
		prefix = s.getS3URL("")
	} else {
		prefix = strings.TrimRight(s.upload.PublicURL, "/") + "/"
	}
	if prefix == "/" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// RemoveImage deletes the stored file behind url. URLs this service did not
// issue are left alone.
func (s *StorageService) RemoveImage(url string) error {
	key, ok := s.KeyFromURL(url)
	if !ok {
		return nil
	}
	return s.DeleteFile(key)
}

func (s *StorageService) DeleteFile(key string) error {
	if s.s3Client == nil {
		err := os.Remove(filepath.Join(s.upload.Dir, filepath.FromSlash(key)))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.aws.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// generateFileName names the stored object after the detected content type.
// The client's file name is never used, so a ".html" upload carrying PNG
// bytes is stored and served as ".png".
func (s *StorageService) generateFileName(ext, folder string) string {
	id := uuid.New()

	timestamp := s.now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext)

	if folder != "" {
		return path.Join(folder, filename)
	}
	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.aws.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.aws.CloudFrontURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.aws.S3Bucket, s.aws.Region, key)
}
