package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/tnqbao/gau-craft-catalog/utils"
)

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrImageExists      = errors.New("image already exists")
	ErrInvalidImageName = errors.New("invalid image name")
)

type ImageInfo struct {
	Size        int64
	ContentType string
}

// ImageStorage is the content store behind uploaded craft images. Save must
// fail with ErrImageExists rather than overwrite an existing image.
type ImageStorage interface {
	Save(ctx context.Context, name string, data io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, *ImageInfo, error)
}

type DiskImageStorage struct {
	dir string
}

func NewDiskImageStorage(dir string) *DiskImageStorage {
	return &DiskImageStorage{dir: dir}
}

func (s *DiskImageStorage) Save(_ context.Context, name string, data io.Reader, _ int64, _ string) error {
	if !utils.IsValidImageName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidImageName, name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrImageExists, name)
		}
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

func (s *DiskImageStorage) Open(_ context.Context, name string) (io.ReadCloser, *ImageInfo, error) {
	if !utils.IsValidImageName(name) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidImageName, name)
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrImageNotFound, name)
		}
		return nil, nil, fmt.Errorf("failed to open image file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	return f, &ImageInfo{Size: stat.Size(), ContentType: contentTypeFor(name)}, nil
}

type MinioImageStorage struct {
	minio *MinioClient
}

func NewMinioImageStorage(client *MinioClient) *MinioImageStorage {
	return &MinioImageStorage{minio: client}
}

// Save checks for an existing key before writing; the check and the write
// are not atomic.
func (s *MinioImageStorage) Save(ctx context.Context, name string, data io.Reader, size int64, contentType string) error {
	if !utils.IsValidImageName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidImageName, name)
	}

	if _, err := s.minio.HeadObject(ctx, name); err == nil {
		return fmt.Errorf("%w: %s", ErrImageExists, name)
	} else if !isMinioNotFound(err) {
		return err
	}

	if contentType == "" {
		contentType = contentTypeFor(name)
	}
	return s.minio.PutObjectStream(ctx, name, data, size, contentType)
}

func (s *MinioImageStorage) Open(ctx context.Context, name string) (io.ReadCloser, *ImageInfo, error) {
	if !utils.IsValidImageName(name) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidImageName, name)
	}

	obj, stat, err := s.minio.GetObjectStream(ctx, name)
	if err != nil {
		if isMinioNotFound(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrImageNotFound, name)
		}
		return nil, nil, err
	}

	contentType := stat.ContentType
	if contentType == "" {
		contentType = contentTypeFor(name)
	}
	return obj, &ImageInfo{Size: stat.Size, ContentType: contentType}, nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
