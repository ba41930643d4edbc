package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecorders(t *testing.T) {
	UploadsTotal.Reset()
	NotificationsTotal.Reset()
	RateLimitRejectionsTotal.Reset()

	RecordUpload("job", OutcomeSuccess)
	RecordUpload("job", OutcomeSuccess)
	RecordNotification("contact", OutcomeUnconfigured)
	RecordRateLimited("file_upload")

	out := scrape(t)
	assert.Contains(t, out, `mecahub_forms_uploads_total{form_type="job",outcome="success"} 2`)
	assert.Contains(t, out, `mecahub_forms_notifications_total{form_type="contact",outcome="unconfigured"} 1`)
	assert.Contains(t, out, `mecahub_forms_rate_limit_rejections_total{policy="file_upload"} 1`)
}
