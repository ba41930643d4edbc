package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSecurityLogger_RateLimitEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "svc", "test")

	sl.LogRateLimitTriggered(context.Background(), "10.0.0.1", "curl", "req-1", "/send-form-email", "form_submission")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "rate_limit_triggered", fields["event"])
	assert.Equal(t, "10.0.0.1", fields["ip"])
	assert.Contains(t, fields["details"], "form_submission")
}

func TestSecurityLogger_UploadRejectedIsError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "svc", "test")

	sl.LogUploadRejected(context.Background(), EventDangerousUpload, "10.0.0.2", "req-2", "virus.pdf", "bad magic")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, HashValue("virus.pdf"), entry.ContextMap()["subject_value"])
}

func TestSecurityLogger_ValidationMasksEmail(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "svc", "test")

	sl.LogValidationFailed(context.Background(), "", "", "jane@example.com", "email")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "email", fields["subject_type"])
	assert.Equal(t, "j***@example.com", fields["subject_value"])
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "a***@b.fr", MaskEmail("alice@b.fr"))
	assert.Equal(t, "***@x.io", MaskEmail("a@x.io"))
}
