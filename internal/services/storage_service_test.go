package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyretail/shop-backend/internal/config"
)

// 1x1 transparent PNG
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// formFile builds a multipart upload the way a browser would send it.
func formFile(t *testing.T, name string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestStorageService_LocalUpload(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewStorageService(config.AWSConfig{}, config.UploadConfig{Dir: dir, MaxBytes: 1024, PublicURL: "/uploads"})
	require.NoError(t, err)

	file, header := formFile(t, "shirt.PNG", tinyPNG)
	result, err := svc.UploadImage(file, header, svc.ProductImageOptions())
	require.NoError(t, err)

	assert.Equal(t, "image/png", result.MimeType)
	assert.True(t, strings.HasPrefix(result.URL, "/uploads/products/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.Key)))
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, stored)

	require.NoError(t, svc.DeleteFile(result.Key))
	require.NoError(t, svc.DeleteFile(result.Key), "deleting twice is fine")
}

func TestStorageService_RejectsNonImagesAndLargeFiles(t *testing.T) {
	svc, err := NewStorageService(config.AWSConfig{}, config.UploadConfig{Dir: t.TempDir(), MaxBytes: 64})
	require.NoError(t, err)

	file, header := formFile(t, "notes.png", []byte("plain text pretending to be a picture"))
	_, err = svc.UploadImage(file, header, svc.ProductImageOptions())
	assert.ErrorIs(t, err, ErrValidation)

	big := append(append([]byte{}, tinyPNG...), make([]byte, 128)...)
	file, header = formFile(t, "big.png", big)
	_, err = svc.UploadImage(file, header, svc.ProductImageOptions())
	assert.ErrorIs(t, err, ErrValidation)
}

type fakeS3 struct {
	s3iface.S3API
	put *s3.PutObjectInput
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, nil
}

func TestStorageService_S3Upload(t *testing.T) {
	fake := &fakeS3{}
	svc := &StorageService{
		s3Client: fake,
		aws:      config.AWSConfig{Region: "eu-west-1", S3Bucket: "shop-images"},
		upload:   config.UploadConfig{MaxBytes: 1024},
		now:      func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) },
	}

	file, header := formFile(t, "cap.png", tinyPNG)
	result, err := svc.UploadImage(file, header, svc.ProductImageOptions())
	require.NoError(t, err)

	require.NotNil(t, fake.put)
	assert.Equal(t, "shop-images", aws.StringValue(fake.put.Bucket))
	assert.Equal(t, "public-read", aws.StringValue(fake.put.ACL))
	assert.Equal(t, "image/png", aws.StringValue(fake.put.ContentType))
	assert.True(t, strings.HasPrefix(result.Key, "products/20240102_"))
	assert.Equal(t, "https://shop-images.s3.eu-west-1.amazonaws.com/"+result.Key, result.URL)
}

func TestStorageService_NamesFilesByDetectedType(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewStorageService(config.AWSConfig{}, config.UploadConfig{Dir: dir, MaxBytes: 1024, PublicURL: "/uploads"})
	require.NoError(t, err)

	payload := append(append([]byte{}, tinyPNG...), []byte("<html><script>alert(1)</script></html>")...)
	file, header := formFile(t, "evil.html", payload)
	result, err := svc.UploadImage(file, header, svc.ProductImageOptions())
	require.NoError(t, err)

	assert.Equal(t, "image/png", result.MimeType)
	assert.NotRegexp(t, `\.html$`, result.Key)
	assert.Regexp(t, `^products/\d{8}_[0-9a-f]{8}\.png$`, result.Key)
	assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(result.Key)))

	file, header = formFile(t, "noext", tinyPNG)
	result, err = svc.UploadImage(file, header, svc.ProductImageOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
}

func TestStorageService_RejectsSVG(t *testing.T) {
	svc, err := NewStorageService(config.AWSConfig{}, config.UploadConfig{Dir: t.TempDir(), MaxBytes: 1024})
	require.NoError(t, err)

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)
	file, header := formFile(t, "logo.svg", svg)
	_, err = svc.UploadImage(file, header, svc.ProductImageOptions())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStorageService_RemoveImage(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewStorageService(config.AWSConfig{}, config.UploadConfig{Dir: dir, MaxBytes: 1024, PublicURL: "/uploads"})
	require.NoError(t, err)

	file, header := formFile(t, "shirt.png", tinyPNG)
	result, err := svc.UploadImage(file, header, svc.ProductImageOptions())
	require.NoError(t, err)

	key, ok := svc.KeyFromURL(result.URL)
	require.True(t, ok)
	assert.Equal(t, result.Key, key)

	for _, url := range []string{"📦", "https://cdn.example.com/a.png", "/uploads/", "/uploads/../secret"} {
		_, ok := svc.KeyFromURL(url)
		assert.False(t, ok, url)
		assert.NoError(t, svc.RemoveImage(url), url)
	}

	require.NoError(t, svc.RemoveImage(result.URL))
	assert.NoFileExists(t, filepath.Join(dir, filepath.FromSlash(result.Key)))
}

func TestStorageService_KeyFromS3URL(t *testing.T) {
	svc := &StorageService{
		s3Client: &fakeS3{},
		aws:      config.AWSConfig{Region: "eu-west-1", S3Bucket: "shop-images"},
	}

	key, ok := svc.KeyFromURL("https://shop-images.s3.eu-west-1.amazonaws.com/products/20240102_ab12cd34.png")
	assert.True(t, ok)
	assert.Equal(t, "products/20240102_ab12cd34.png", key)

	_, ok = svc.KeyFromURL("/uploads/products/20240102_ab12cd34.png")
	assert.False(t, ok)
}
