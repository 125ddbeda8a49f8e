// internal/services/file_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"linkedout/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// ImageUploader is the part of the Cloudinary upload API the file service uses
type ImageUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// fileService implements FileService on top of Cloudinary
type fileService struct {
	uploader ImageUploader
	logger   *zap.Logger
	config   *FileServiceConfig
}

// FileServiceConfig holds file service configuration
type FileServiceConfig struct {
	Folder            string        `json:"folder"`
	MaxImageSize      int64         `json:"max_image_size"`
	AllowedImageTypes []string      `json:"allowed_image_types"`
	UploadTimeout     time.Duration `json:"upload_timeout"`
	MaxRetries        int           `json:"max_retries"`
}

// DefaultFileConfig returns default file service configuration
func DefaultFileConfig() *FileServiceConfig {
	return &FileServiceConfig{
		Folder:            "linkedout/avatars",
		MaxImageSize:      5 * 1024 * 1024,
		AllowedImageTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		UploadTimeout:     30 * time.Second,
		MaxRetries:        3,
	}
}

// FileConfigFrom maps the Cloudinary settings onto a file service config
func FileConfigFrom(cfg *config.CloudinaryConfig) *FileServiceConfig {
	fc := DefaultFileConfig()
	if cfg == nil {
		return fc
	}
	if cfg.AvatarFolder != "" {
		fc.Folder = cfg.AvatarFolder
	}
	if cfg.MaxFileSize > 0 {
		fc.MaxImageSize = cfg.MaxFileSize
	}
	if cfg.UploadTimeout > 0 {
		fc.UploadTimeout = cfg.UploadTimeout
	}
	if cfg.MaxRetries > 0 {
		fc.MaxRetries = cfg.MaxRetries
	}
	return fc
}

// NewCloudinaryUploader builds the Cloudinary client, or returns nil when
// credentials are not configured.
func NewCloudinaryUploader(cfg *config.CloudinaryConfig) (ImageUploader, error) {
	if cfg == nil || !cfg.CloudinaryEnabled() {
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &cld.Upload, nil
}

// NewFileService creates a file service. A nil uploader disables uploads.
func NewFileService(up ImageUploader, logger *zap.Logger, config *FileServiceConfig) FileService {
	if config == nil {
		config = DefaultFileConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fileService{uploader: up, logger: logger.Named("files"), config: config}
}

// UploadAvatar validates and uploads a profile picture, retrying transient failures
func (s *fileService) UploadAvatar(ctx context.Context, req *AvatarUploadRequest) (*FileUploadResult, error) {
	if s.uploader == nil {
		return nil, NewServiceUnavailableError("avatar uploads are not configured")
	}
	contentType, err := s.validateImage(req)
	if err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder:         s.config.Folder,
		PublicID:       "avatar_" + req.UserID,
		ResourceType:   "image",
		Overwrite:      BoolPtr(true),
		UseFilename:    BoolPtr(false),
		UniqueFilename: BoolPtr(false),
		Tags:           []string{"linkedout", "avatar"},
	}

	var result *uploader.UploadResult
	operation := func() error {
		if _, err := req.File.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(err)
		}
		var opErr error
		result, opErr = s.uploader.Upload(uploadCtx, req.File, params)
		if opErr == nil && result != nil && result.Error.Message != "" {
			opErr = fmt.Errorf("cloudinary: %s", result.Error.Message)
		}
		return opErr
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = s.config.UploadTimeout / 2
	err = backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.config.MaxRetries)), uploadCtx),
		func(err error, d time.Duration) {
			s.logger.Warn("Avatar upload attempt failed",
				zap.String("user_id", req.UserID),
				zap.Error(err),
				zap.Duration("backoff", d),
			)
		},
	)
	if err != nil {
		s.logger.Error("All avatar upload attempts failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, NewInternalError("failed to upload avatar")
	}

	s.logger.Info("Avatar uploaded",
		zap.String("user_id", req.UserID),
		zap.String("public_id", result.PublicID),
		zap.String("content_type", contentType),
	)
	return &FileUploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Size:     int64(result.Bytes),
		Format:   result.Format,
		Width:    result.Width,
		Height:   result.Height,
	}, nil
}

// DeleteFile removes a stored file by its public ID
func (s *fileService) DeleteFile(ctx context.Context, publicID string) error {
	if publicID == "" {
		return NewValidationError("public ID is required", nil)
	}
	if s.uploader == nil {
		return NewServiceUnavailableError("avatar uploads are not configured")
	}

	deleteCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	result, err := s.uploader.Destroy(deleteCtx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		s.logger.Error("Failed to delete file from Cloudinary",
			zap.Error(err),
			zap.String("public_id", publicID),
		)
		return NewInternalError("failed to delete file")
	}
	if result != nil && result.Result != "ok" && result.Result != "not found" {
		s.logger.Warn("File deletion result was not OK",
			zap.String("public_id", publicID),
			zap.String("result", result.Result),
		)
		return NewInternalError("file deletion was not successful")
	}

	s.logger.Info("File deleted successfully", zap.String("public_id", publicID))
	return nil
}

// validateImage checks size, extension and the sniffed content type
func (s *fileService) validateImage(req *AvatarUploadRequest) (string, error) {
	if req == nil || req.File == nil {
		return "", fmt.Errorf("file is required")
	}
	if req.Size <= 0 {
		return "", fmt.Errorf("file is empty")
	}
	if req.Size > s.config.MaxImageSize {
		return "", fmt.Errorf("image too large (max %d bytes)", s.config.MaxImageSize)
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !slices.Contains([]string{".jpg", ".jpeg", ".png", ".gif", ".webp"}, ext) {
		return "", fmt.Errorf("unsupported file extension %q", ext)
	}

	head := make([]byte, 512)
	n, err := req.File.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if _, err := req.File.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind file: %w", err)
	}

	contentType := http.DetectContentType(head[:n])
	if !slices.Contains(s.config.AllowedImageTypes, contentType) {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	return contentType, nil
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}
