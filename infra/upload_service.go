package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/tnqbao/gau-craft-catalog/config"
	"github.com/tnqbao/gau-craft-catalog/utils"
)

var (
	ErrNoImage       = errors.New("no image file in request")
	ErrImageTooLarge = errors.New("image exceeds upload size limit")
)

// maxNameAttempts bounds how often a colliding name is bumped by a millisecond.
const maxNameAttempts = 8

// UploadService persists uploaded craft images and hands back the generated
// reference stored on the craft record.
type UploadService struct {
	storage  ImageStorage
	maxBytes int64
	logger   *LoggerClient
	now      func() time.Time
}

func InitUploadService(cfg *config.EnvConfig, storage ImageStorage, logger *LoggerClient) *UploadService {
	return NewUploadService(storage, cfg.Upload.MaxBytes).WithLogger(logger)
}

func NewUploadService(storage ImageStorage, maxBytes int64) *UploadService {
	return &UploadService{
		storage:  storage,
		maxBytes: maxBytes,
		logger:   NewDiscardLogger(),
		now:      time.Now,
	}
}

func (s *UploadService) WithLogger(logger *LoggerClient) *UploadService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// SaveImage stores the file under "{unixMillis}-{basename}" and returns that
// name. A nil header yields ErrNoImage.
func (s *UploadService) SaveImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", ErrNoImage
	}
	if s.maxBytes > 0 && fileHeader.Size > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, fileHeader.Size)
	}

	original := utils.SanitizeFilename(fileHeader.Filename)
	if original == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidImageName, fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	ts := s.now()

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := utils.GenerateImageName(ts, original)

		err := s.storage.Save(ctx, name, file, fileHeader.Size, contentType)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, ErrImageExists) {
			return "", fmt.Errorf("failed to store image: %w", err)
		}

		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
		}
		ts = ts.Add(time.Millisecond)
		s.logger.DebugWithContextf(ctx, "[Upload] Image name '%s' taken, retrying at %d", name, ts.UnixMilli())
	}

	return "", fmt.Errorf("failed to store image: no free name for %s after %d attempts", original, maxNameAttempts)
}
