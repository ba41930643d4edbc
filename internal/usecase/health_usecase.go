package usecase

import (
	"context"
	"time"

	"mecahub-backend/internal/domain"
)

type healthUsecase struct {
	deps map[string]domain.Pinger
}

// NewHealthUsecase probes the named dependencies. Nil entries are reported
// as "disabled".
func NewHealthUsecase(deps map[string]domain.Pinger) domain.HealthUsecase {
	return &healthUsecase{deps: deps}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{"status": "ok"}
	for name, dep := range u.deps {
		if dep == nil {
			result[name] = "disabled"
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := dep.Ping(pingCtx)
		cancel()
		if err != nil {
			result[name] = "down"
			result["status"] = "degraded"
			continue
		}
		result[name] = "up"
	}
	return result
}
