package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/identityhub/auth-service/internal/interface/http"
)

// UserModule wires the identity lifecycle routes:
// POST /users, POST /auth, GET/PATCH/DELETE /users/:id,
// POST /users/:id/activate, POST /users/:id/deactivate.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Handler.Register)
	rg.POST("/auth", m.Handler.Authenticate)

	rg.GET("/users/:id", m.Handler.Get)
	rg.PATCH("/users/:id", m.Handler.Update)
	rg.DELETE("/users/:id", m.Handler.Delete)
	rg.POST("/users/:id/activate", m.Handler.Activate)
	rg.POST("/users/:id/deactivate", m.Handler.Deactivate)
}
