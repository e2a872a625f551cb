package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"declara/internal/config"
	"declara/internal/domain"
	"declara/internal/port"
)

// FileUploadInput is the DTO for file upload requests.
type FileUploadInput struct {
	TenantID   uuid.UUID
	UploadedBy uuid.UUID
	File       multipart.File
	Header     *multipart.FileHeader
	// Optional caller-provided document type; empty means auto-detect.
	DocTypeHint string
}

// FileService defines the file management contract.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error)
	GetDownloadURL(ctx context.Context, tenantID, fileID uuid.UUID) (string, error)
}

type fileService struct {
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	cfg      *config.S3Config
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) FileService {
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	if input.DocTypeHint != "" && !domain.DocumentType(input.DocTypeHint).Valid() {
		return nil, fmt.Errorf("unknown document type hint %q: %w", input.DocTypeHint, domain.ErrUnsupportedFileType)
	}

	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	fileID := uuid.New()
	s3Key := fmt.Sprintf("tenants/%s/files/%s/%s", input.TenantID, fileID, input.Header.Filename)
	contentType := domain.AllowedFileTypes[fileType]

	meta := &domain.FileMeta{
		ID:           fileID,
		TenantID:     input.TenantID,
		UploadedBy:   input.UploadedBy,
		FileName:     fileID.String() + "." + ext,
		OriginalName: input.Header.Filename,
		FileType:     fileType,
		FileSize:     input.Header.Size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        s3Key,
		ContentType:  contentType,
		DocTypeHint:  input.DocTypeHint,
		Status:       domain.FileStatusPending,
	}

	log.Printf("fileService.Upload: uploading file %s (%s, %d bytes) for tenant %s by user %s",
		input.Header.Filename, contentType, input.Header.Size, input.TenantID, input.UploadedBy)

	if err := s.fileRepo.Create(ctx, meta); err != nil {
		log.Printf("fileService.Upload: failed to create file metadata: %v", err)
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         s3Key,
		Body:        input.File,
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("fileService.Upload: S3 upload failed for file %s: %v", meta.ID, err)
		_ = s.fileRepo.UpdateStatus(ctx, meta.TenantID, meta.ID, domain.FileStatusFailed)
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(ctx, meta.TenantID, meta.ID, domain.FileStatusUploaded); err != nil {
		return nil, fmt.Errorf("updating file status: %w", err)
	}
	meta.Status = domain.FileStatusUploaded

	return meta, nil
}

func (s *fileService) GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error) {
	return s.fileRepo.GetByID(ctx, tenantID, fileID)
}

func (s *fileService) GetDownloadURL(ctx context.Context, tenantID, fileID uuid.UUID) (string, error) {
	meta, err := s.fileRepo.GetByID(ctx, tenantID, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, meta.S3Bucket, meta.S3Key, s.cfg.PresignExpiry)
}
