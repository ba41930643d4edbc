package v1

import (
	"errors"
	"net/http"

	"mecahub-backend/internal/delivery/http/response"
	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	msgMissingFileOrType = "Fichier ou type de formulaire manquant"
	msgBodyTooLarge      = "Fichier trop volumineux"
)

type UploadHandler struct {
	uploadUC       domain.UploadUsecase
	maxUploadBytes int64
}

// NewUploadHandler registers POST /upload-file
func NewUploadHandler(rg *gin.RouterGroup, uploadUC domain.UploadUsecase, maxUploadBytes int64, mw ...gin.HandlerFunc) {
	handler := &UploadHandler{
		uploadUC:       uploadUC,
		maxUploadBytes: maxUploadBytes,
	}

	rg.POST("/upload-file", append(mw, handler.UploadFile)...)
}

// UploadFile godoc
// @Summary      Upload a form attachment
// @Description  Stores a contact attachment or a CV. The file is checked against the policy of its form type and its first bytes are inspected before it is written.
// @Tags         forms
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true  "Attachment"
// @Param        formType  formData  string  true  "contact or job"
// @Success      200  {object}  domain.UploadResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      429  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /upload-file [post]
func (h *UploadHandler) UploadFile(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.BadRequest(msgBodyTooLarge))
			return
		}
		c.Error(apperror.BadRequest(msgMissingFileOrType))
		return
	}
	formType := c.PostForm("formType")
	if formType == "" {
		c.Error(apperror.BadRequest(msgMissingFileOrType))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	stored, err := h.uploadUC.Upload(c.Request.Context(), &domain.UploadRequest{
		FormType:    formType,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
		ClientIP:    c.ClientIP(),
		RequestID:   response.RequestID(c),
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, domain.UploadResponse{
		Success:  true,
		FileName: stored.FileName,
		FileURL:  stored.FileURL,
		FilePath: stored.FilePath,
	})
}
