package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	e := BadRequest("Données manquantes")
	assert.Equal(t, http.StatusBadRequest, e.Code)
	assert.Equal(t, KindValidation, e.Kind)

	rl := TooManyRequests("Trop de tentatives", 42*time.Second)
	assert.Equal(t, http.StatusTooManyRequests, rl.Code)
	assert.Equal(t, 42*time.Second, rl.RetryAfter)

	cfg := Configuration("Configuration incomplète", "administrator must configure")
	assert.Equal(t, KindConfiguration, cfg.Kind)
	assert.Equal(t, "administrator must configure", cfg.Details)
}

func TestProvider_DetailsFromCause(t *testing.T) {
	cause := errors.New("resend: status 500: upstream")
	e := Provider("Erreur lors de l'envoi de l'email", cause)
	assert.Equal(t, cause.Error(), e.Details)
	assert.ErrorIs(t, e, cause)
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", BadRequest("x"))
	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "x", appErr.Message)
	assert.True(t, IsKind(wrapped, KindValidation))
	assert.False(t, IsKind(errors.New("plain"), KindValidation))
}

func TestWithDetailsCopies(t *testing.T) {
	base := BadRequest("x")
	d := base.WithDetails("y")
	assert.Empty(t, base.Details)
	assert.Equal(t, "x: y", d.Error())
}
