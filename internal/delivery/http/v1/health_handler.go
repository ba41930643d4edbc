package v1

import (
	"net/http"

	"mecahub-backend/internal/delivery/http/response"
	"mecahub-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(rg *gin.RouterGroup, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	rg.GET("/health", handler.Health)
}

// Health godoc
// @Summary      Health check
// @Description  Reports the state of the optional database and Redis dependencies.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.healthUC.Check(c.Request.Context())
	code := http.StatusOK
	if status["status"] != "ok" {
		code = http.StatusServiceUnavailable
	}
	response.Success(c, code, status)
}
