package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/apperror"
	"mecahub-backend/pkg/logger"
	"mecahub-backend/pkg/metrics"
	"mecahub-backend/pkg/security"
	"mecahub-backend/pkg/security/antivirus"
	"mecahub-backend/pkg/storage"
)

const (
	msgInvalidFormType = "Type de formulaire invalide"
	msgUploadFailed    = "Erreur lors de l'upload du fichier"
	msgMalware         = "Fichier rejeté par l'analyse antivirus"
)

type uploadUsecase struct {
	store   storage.Storage
	files   domain.FileRepository
	scanner antivirus.Scanner
	secLog  *security.SecurityLogger
	now     func() time.Time
}

// NewUploadUsecase wires the upload pipeline. files and scanner may be nil:
// metadata is then not recorded and no antivirus scan runs.
func NewUploadUsecase(store storage.Storage, files domain.FileRepository, scanner antivirus.Scanner, secLog *security.SecurityLogger) domain.UploadUsecase {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	return &uploadUsecase{
		store:   store,
		files:   files,
		scanner: scanner,
		secLog:  secLog,
		now:     time.Now,
	}
}

// Upload checks metadata and content, stores the raw bytes under a
// timestamped key and records metadata on a best-effort basis.
func (uc *uploadUsecase) Upload(ctx context.Context, req *domain.UploadRequest) (*domain.StoredFile, error) {
	formType, ok := domain.ParseFormType(req.FormType)
	if !ok {
		return nil, apperror.BadRequest(msgInvalidFormType)
	}
	policy, _ := security.PolicyFor(string(formType))

	reject := func(msg string) error {
		metrics.RecordUpload(string(formType), metrics.OutcomeRejected)
		return apperror.BadRequest(msg)
	}

	meta := security.FileMeta{Name: req.FileName, Size: req.Size, ContentType: req.ContentType}
	if res := security.ValidateFile(meta, policy); !res.Valid {
		uc.secLog.LogValidationFailed(ctx, req.ClientIP, req.RequestID, "file", res.Error)
		return nil, reject(res.Error)
	}

	// the declared size is not trusted; read at most one byte past the limit
	data, err := io.ReadAll(io.LimitReader(req.Content, policy.MaxSizeBytes+1))
	if err != nil {
		metrics.RecordUpload(string(formType), metrics.OutcomeError)
		return nil, apperror.Internal(fmt.Errorf("read upload: %w", err))
	}
	if int64(len(data)) > policy.MaxSizeBytes {
		res := security.ValidateFile(security.FileMeta{Name: req.FileName, Size: int64(len(data)), ContentType: req.ContentType}, policy)
		return nil, reject(res.Error)
	}

	if res := security.ValidateFileContent(req.ContentType, data); !res.Valid {
		uc.secLog.LogUploadRejected(ctx, security.EventDangerousUpload, req.ClientIP, req.RequestID, req.FileName, res.Error)
		return nil, reject(res.Error)
	}

	if uc.scanner != nil {
		scan := uc.scanner.Scan(ctx, req.FileName, bytes.NewReader(data))
		if scan.Infected {
			reason := scan.ThreatName
			if scan.Error != nil {
				reason = scan.Error.Error()
			}
			uc.secLog.LogUploadRejected(ctx, security.EventMalwareDetected, req.ClientIP, req.RequestID, req.FileName, reason)
			return nil, reject(msgMalware)
		}
	}

	name := security.SanitizeFilename(req.FileName)
	key := fmt.Sprintf("%s/%d_%s", formType.StoragePrefix(), uc.now().UnixMilli(), name)

	obj, err := uc.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), req.ContentType)
	if err != nil {
		metrics.RecordUpload(string(formType), metrics.OutcomeError)
		logger.Log.Error("Upload failed", "key", key, "error", err)
		return nil, apperror.Upload(msgUploadFailed, err).WithDetails(err.Error())
	}

	if uc.files != nil {
		rec := &domain.FileRecord{
			FormType:    string(formType),
			FileName:    name,
			FilePath:    key,
			FileURL:     obj.URL,
			ContentType: req.ContentType,
			SizeBytes:   int64(len(data)),
		}
		if err := uc.files.Create(ctx, rec); err != nil {
			logger.Log.Warn("File metadata not recorded", "key", key, "error", err)
		}
	}

	metrics.RecordUpload(string(formType), metrics.OutcomeSuccess)
	logger.Log.Info("File uploaded", "key", key, "size", len(data), "formType", formType)

	return &domain.StoredFile{
		FileName:    name,
		FilePath:    key,
		ContentType: req.ContentType,
		FileURL:     obj.URL,
	}, nil
}
