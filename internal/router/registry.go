package router

import "github.com/gin-gonic/gin"

// Registry collects modules and registers them in one pass. API modules land
// under /api/v1; root modules (health probes) register on the bare engine.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	api         []Module
	root        []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api/v1")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.api = append(r.api, mod)
}

func (r *Registry) AddRoot(mod Module) {
	r.root = append(r.root, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.api {
		m.Register(r.API)
	}
	rootGroup := r.Engine.Group("/")
	for _, m := range r.root {
		m.Register(rootGroup)
	}
}
