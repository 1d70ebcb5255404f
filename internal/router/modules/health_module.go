package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/identityhub/auth-service/internal/interface/http"
)

// HealthModule exposes the kubernetes-style probes at the engine root.
type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule {
	return &HealthModule{Handler: h}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health/live", m.Handler.Live)
	rg.GET("/health/ready", m.Handler.Ready)
	rg.GET("/health/startup", m.Handler.Startup)
}
