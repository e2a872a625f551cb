package service_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"declara/internal/config"
	"declara/internal/domain"
	"declara/internal/port"
	"declara/internal/service"
	"declara/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "ap-south-1",
		Bucket:        "test-bucket",
		MaxFileSizeMB: 50,
		PresignExpiry: 3600,
	}
}

// createMultipartFile creates a fake multipart file header and content for testing.
func createMultipartFile(t *testing.T, filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	assert.NoError(t, err)
	file, err := form.File["file"][0].Open()
	assert.NoError(t, err)
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 test content that is at least a few bytes long")
}

func TestFileServiceUploadPDF(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	tenantID := uuid.New()
	userID := uuid.New()

	file, header := createMultipartFile(t, "invoice.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/test", ETag: "abc"}, nil)
	fileRepo.On("UpdateStatus", mock.Anything, tenantID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusUploaded).Return(nil)

	result, err := svc.Upload(context.Background(), service.FileUploadInput{
		TenantID:    tenantID,
		UploadedBy:  userID,
		File:        file,
		Header:      header,
		DocTypeHint: "INVOICE",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, domain.FileTypePDF, result.FileType)
	assert.Equal(t, "invoice.pdf", result.OriginalName)
	assert.Equal(t, "INVOICE", result.DocTypeHint)
	assert.Equal(t, domain.FileStatusUploaded, result.Status)
	assert.Contains(t, result.S3Key, "tenants/"+tenantID.String()+"/files/")
}

func TestFileServiceUploadUnsupportedExtension(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	file, header := createMultipartFile(t, "scan.png", []byte{0x89, 0x50, 0x4E, 0x47}, "image/png")
	defer file.Close()

	_, err := svc.Upload(context.Background(), service.FileUploadInput{
		TenantID:   uuid.New(),
		UploadedBy: uuid.New(),
		File:       file,
		Header:     header,
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFileServiceUploadUnknownDocTypeHint(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	file, header := createMultipartFile(t, "invoice.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	_, err := svc.Upload(context.Background(), service.FileUploadInput{
		TenantID:    uuid.New(),
		UploadedBy:  uuid.New(),
		File:        file,
		Header:      header,
		DocTypeHint: "RECEIPT",
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFileServiceUploadTooLarge(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	cfg.MaxFileSizeMB = 0
	svc := service.NewFileService(fileRepo, storage, &cfg)

	file, header := createMultipartFile(t, "big.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	_, err := svc.Upload(context.Background(), service.FileUploadInput{
		TenantID:   uuid.New(),
		UploadedBy: uuid.New(),
		File:       file,
		Header:     header,
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestFileServiceUploadStorageFailureMarksFile(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	tenantID := uuid.New()
	file, header := createMultipartFile(t, "invoice.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, assert.AnError)
	fileRepo.On("UpdateStatus", mock.Anything, tenantID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusFailed).Return(nil)

	_, err := svc.Upload(context.Background(), service.FileUploadInput{
		TenantID:   tenantID,
		UploadedBy: uuid.New(),
		File:       file,
		Header:     header,
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	fileRepo.AssertCalled(t, "UpdateStatus", mock.Anything, tenantID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusFailed)
}

func TestFileServiceGetDownloadURL(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	tenantID := uuid.New()
	fileID := uuid.New()
	fileRepo.On("GetByID", mock.Anything, tenantID, fileID).Return(&domain.FileMeta{
		ID:       fileID,
		S3Bucket: "test-bucket",
		S3Key:    "tenants/t/files/f/invoice.pdf",
	}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "tenants/t/files/f/invoice.pdf", int64(3600)).
		Return("https://signed.example.com/invoice.pdf", nil)

	url, err := svc.GetDownloadURL(context.Background(), tenantID, fileID)

	assert.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/invoice.pdf", url)
}
