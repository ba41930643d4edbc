package v1

import (
	"mecahub-backend/internal/delivery/http/middleware"
	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/metrics"
	"mecahub-backend/pkg/ratelimit"
	"mecahub-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	UploadUC       domain.UploadUsecase
	NotifyUC       domain.NotifyUsecase
	HealthUC       domain.HealthUsecase
	UploadLimiter  *ratelimit.Limiter // FileUpload policy, keyed by caller address
	NotifyLimiter  *ratelimit.Limiter // FormSubmission policy, keyed by caller address
	SecurityLogger *security.SecurityLogger
	MaxUploadBytes int64
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	// the API runs behind the hosting proxy; take the first forwarded address
	r.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())

	root := r.Group("")

	NewHealthHandler(root, deps.HealthUC)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var uploadMW, notifyMW []gin.HandlerFunc
	if deps.UploadLimiter != nil {
		uploadMW = append(uploadMW, middleware.RateLimit(deps.UploadLimiter, middleware.MsgUploadRateLimited, deps.SecurityLogger))
	}
	if deps.NotifyLimiter != nil {
		notifyMW = append(notifyMW, middleware.RateLimit(deps.NotifyLimiter, middleware.MsgEmailRateLimited, deps.SecurityLogger))
	}

	NewUploadHandler(root, deps.UploadUC, deps.MaxUploadBytes, uploadMW...)
	NewNotifyHandler(root, deps.NotifyUC, notifyMW...)

	return r
}
