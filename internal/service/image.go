package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mealloop/backend/config"
)

// ImageStore persists decoded image bytes under a key and returns the URL
// clients should use to fetch them.
type ImageStore interface {
	Save(ctx context.Context, data []byte, key, contentType string) (string, error)
}

// S3Store uploads recipe images to the configured bucket.
type S3Store struct {
	s3 *config.S3Config
}

func NewS3Store(s3cfg *config.S3Config) *S3Store {
	return &S3Store{s3: s3cfg}
}

func (s *S3Store) Save(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3.BucketName, key)
	log.Printf("[ImageService] uploaded image to %s", url)
	return url, nil
}

// LocalStore writes images under a media directory; the default when no
// bucket is configured.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Save(ctx context.Context, data []byte, key, contentType string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/media/" + key, nil
}

var dataURIPattern = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,(.+)$`)

// ImageService turns client image payloads (data URIs or multipart uploads)
// into stored files named by a generated id with the extension preserved.
type ImageService struct {
	store ImageStore
}

func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// SaveDataURI decodes a data:image/<ext>;base64,... payload and stores it.
func (s *ImageService) SaveDataURI(ctx context.Context, payload string) (string, error) {
	m := dataURIPattern.FindStringSubmatch(payload)
	if m == nil {
		return "", NewValidationError("malformed image payload")
	}
	ext, encoded := m[1], m[2]
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", NewValidationError("malformed image payload")
	}
	key := fmt.Sprintf("recipes/images/%s.%s", uuid.New().String(), ext)
	return s.store.Save(ctx, data, key, "image/"+ext)
}

// SaveUpload stores a multipart file, keeping the original extension.
func (s *ImageService) SaveUpload(ctx context.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", NewValidationError("malformed image payload")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if ext == "" {
		return "", NewValidationError("malformed image payload")
	}
	key := fmt.Sprintf("recipes/images/%s.%s", uuid.New().String(), ext)
	return s.store.Save(ctx, data, key, "image/"+ext)
}
