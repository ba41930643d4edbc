package v1

import (
	"net/http"

	"mecahub-backend/internal/delivery/http/response"
	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const msgMissingData = "Données manquantes"

type NotifyHandler struct {
	notifyUC domain.NotifyUsecase
}

// NewNotifyHandler registers POST /send-form-email
func NewNotifyHandler(rg *gin.RouterGroup, notifyUC domain.NotifyUsecase, mw ...gin.HandlerFunc) {
	handler := &NotifyHandler{
		notifyUC: notifyUC,
	}

	rg.POST("/send-form-email", append(mw, handler.SendFormEmail)...)
}

// SendFormEmail godoc
// @Summary      Send the lead notification email
// @Description  Sanitizes the submitted fields and emails them to the configured recipient. A 500 whose details contain "administrator must configure" means the provider is not set up.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        request  body      domain.NotifyRequest  true  "Form type and data"
// @Success      200      {object}  domain.NotifyResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      429      {object}  response.ErrorBody
// @Failure      500      {object}  response.ErrorBody
// @Router       /send-form-email [post]
func (h *NotifyHandler) SendFormEmail(c *gin.Context) {
	var req domain.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(msgMissingData))
		return
	}

	id, err := h.notifyUC.Notify(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, domain.NotifyResponse{Success: true, EmailID: id})
}
