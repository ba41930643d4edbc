package domain

import (
	"context"
	"io"
	"time"
)

// StoredFile describes an attachment written to object storage.
type StoredFile struct {
	FileName    string `json:"fileName"`
	FilePath    string `json:"filePath"`
	ContentType string `json:"contentType,omitempty"`
	FileURL     string `json:"fileUrl"`
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FilePath string `json:"filePath"`
}

// UploadRequest carries one multipart file into the upload use case.
type UploadRequest struct {
	FormType    string
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
	ClientIP    string
	RequestID   string
}

// FileRecord is a row of the files metadata table.
type FileRecord struct {
	ID          int64     `json:"id"`
	FormType    string    `json:"form_type"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	FileURL     string    `json:"file_url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileRepository stores upload metadata.
type FileRepository interface {
	Create(ctx context.Context, rec *FileRecord) error
}

// UploadUsecase validates and stores attachments.
type UploadUsecase interface {
	Upload(ctx context.Context, req *UploadRequest) (*StoredFile, error)
}
