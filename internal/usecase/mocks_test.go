package usecase_test

import (
	"context"
	"io"
	"time"

	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/email"
	"mecahub-backend/pkg/security"
	"mecahub-backend/pkg/security/antivirus"
	"mecahub-backend/pkg/storage"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func quietSecurityLogger() *security.SecurityLogger {
	return security.NewSecurityLogger(zap.NewNop(), "test", "test")
}

type MockStorage struct {
	mock.Mock
	body []byte
}

func (m *MockStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (storage.Object, error) {
	m.body, _ = io.ReadAll(body)
	args := m.Called(ctx, key, size, contentType)
	return args.Get(0).(storage.Object), args.Error(1)
}

func (m *MockStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type MockFileRepo struct {
	mock.Mock
}

func (m *MockFileRepo) Create(ctx context.Context, rec *domain.FileRecord) error {
	return m.Called(ctx, rec).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockMailer) Send(ctx context.Context, content email.Content, replyTo string) (string, error) {
	args := m.Called(ctx, content, replyTo)
	return args.String(0), args.Error(1)
}

type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, rec *domain.ContactRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockContactRepo) ListSince(ctx context.Context, since time.Time) ([]domain.ContactRecord, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactRecord), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, rec *domain.JobApplicationRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockJobRepo) ListSince(ctx context.Context, since time.Time) ([]domain.JobApplicationRecord, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobApplicationRecord), args.Error(1)
}

type stubScanner struct {
	result antivirus.ScanResult
}

func (s stubScanner) Scan(ctx context.Context, filename string, data io.Reader) antivirus.ScanResult {
	return s.result
}

func (s stubScanner) Name() string { return "stub" }

func (s stubScanner) Available(ctx context.Context) bool { return true }
