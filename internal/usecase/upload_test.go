package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"mecahub-backend/internal/domain"
	"mecahub-backend/internal/usecase"
	"mecahub-backend/pkg/apperror"
	"mecahub-backend/pkg/security/antivirus"
	"mecahub-backend/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")

func uploadRequest(formType, name, contentType string, data []byte) *domain.UploadRequest {
	return &domain.UploadRequest{
		FormType:    formType,
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
		ClientIP:    "203.0.113.7",
	}
}

func TestUpload_StoresUnderTimestampedKey(t *testing.T) {
	store := new(MockStorage)
	files := new(MockFileRepo)
	uc := usecase.NewUploadUsecase(store, files, nil, quietSecurityLogger())

	keyPattern := regexp.MustCompile(`^cv_uploads/\d{13}_My_R_sum_final_\.pdf$`)
	store.On("Put", mock.Anything, mock.MatchedBy(keyPattern.MatchString), int64(len(pdfBytes)), "application/pdf").
		Return(storage.Object{URL: "https://cdn.example.com/cv_uploads/x.pdf"}, nil)
	files.On("Create", mock.Anything, mock.MatchedBy(func(rec *domain.FileRecord) bool {
		return rec.FormType == "job" && rec.FileName == "My_R_sum_final_.pdf" && rec.SizeBytes == int64(len(pdfBytes))
	})).Return(nil)

	got, err := uc.Upload(context.Background(), uploadRequest("job", "My Résumé (final)!!.pdf", "application/pdf", pdfBytes))
	require.NoError(t, err)

	assert.Equal(t, "My_R_sum_final_.pdf", got.FileName)
	assert.Regexp(t, keyPattern, got.FilePath)
	assert.Equal(t, "https://cdn.example.com/cv_uploads/x.pdf", got.FileURL)
	assert.Equal(t, pdfBytes, store.body)
	store.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestUpload_MetadataFailureIsNotFatal(t *testing.T) {
	store := new(MockStorage)
	files := new(MockFileRepo)
	uc := usecase.NewUploadUsecase(store, files, nil, quietSecurityLogger())

	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.Object{URL: "u"}, nil)
	files.On("Create", mock.Anything, mock.Anything).Return(errors.New("relation \"files\" does not exist"))

	got, err := uc.Upload(context.Background(), uploadRequest("contact", "plan.pdf", "application/pdf", pdfBytes))
	require.NoError(t, err)
	assert.Equal(t, "u", got.FileURL)
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *domain.UploadRequest
		wantMsg string
	}{
		{
			name:    "unknown form type",
			req:     uploadRequest("newsletter", "a.pdf", "application/pdf", pdfBytes),
			wantMsg: "Type de formulaire invalide",
		},
		{
			name:    "cv must be pdf",
			req:     uploadRequest("job", "cv.png", "image/png", []byte("\x89PNG\r\n\x1a\n")),
			wantMsg: "Type de fichier non autorisé: image/png",
		},
		{
			name:    "executable renamed to pdf",
			req:     uploadRequest("job", "cv.pdf", "application/pdf", []byte("MZ\x90\x00\x03\x00")),
			wantMsg: "Le fichier ne semble pas être un PDF valide",
		},
		{
			name:    "executable declared as image",
			req:     uploadRequest("contact", "photo.png", "image/png", []byte("MZ\x90\x00\x03\x00")),
			wantMsg: "Fichier potentiellement dangereux détecté",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStorage)
			uc := usecase.NewUploadUsecase(store, nil, nil, quietSecurityLogger())

			_, err := uc.Upload(context.Background(), tt.req)
			require.Error(t, err)

			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
			store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpload_UnderstatedSizeIsCaught(t *testing.T) {
	store := new(MockStorage)
	uc := usecase.NewUploadUsecase(store, nil, nil, quietSecurityLogger())

	big := append(append([]byte{}, pdfBytes...), make([]byte, 5*1024*1024)...)
	req := uploadRequest("contact", "plan.pdf", "application/pdf", big)
	req.Size = 100

	_, err := uc.Upload(context.Background(), req)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Fichier trop volumineux. Taille maximum: 5MB", appErr.Message)
}

func TestUpload_InfectedFileRejected(t *testing.T) {
	store := new(MockStorage)
	scanner := stubScanner{result: antivirus.ScanResult{Infected: true, ThreatName: "Eicar-Test-Signature"}}
	uc := usecase.NewUploadUsecase(store, nil, scanner, quietSecurityLogger())

	_, err := uc.Upload(context.Background(), uploadRequest("job", "cv.pdf", "application/pdf", pdfBytes))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_StorageFailure(t *testing.T) {
	store := new(MockStorage)
	uc := usecase.NewUploadUsecase(store, nil, nil, quietSecurityLogger())
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.Object{}, errors.New("bucket not found"))

	_, err := uc.Upload(context.Background(), uploadRequest("job", "cv.pdf", "application/pdf", pdfBytes))
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, apperror.KindUpload, appErr.Kind)
	assert.Equal(t, "bucket not found", appErr.Details)
}
