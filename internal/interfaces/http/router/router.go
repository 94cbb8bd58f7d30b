// Package router mounts per-resource route groups under a versioned API prefix.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar is anything that can mount its routes on a gin group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Route is one mounted endpoint.
type Route struct {
	Method string
	Path   string
}

// Router collects registrars and mounts them on Setup.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

type RouterOption func(*Router)

// WithAPIVersion replaces the default "v1" segment of the prefix.
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

// WithMiddleware runs middleware in front of API routes only; routes added
// straight to the engine, such as /health, bypass it.
func WithMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.middleware = append(r.middleware, middleware...) }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// BasePath is the prefix every registrar is mounted under, e.g. /api/v1.
func (r *Router) BasePath() string {
	return path.Join("/api", r.apiVersion)
}

// Setup mounts every registrar in registration order.
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Routes lists the endpoints of registered DomainGroups with full paths.
func (r *Router) Routes() []Route {
	var routes []Route
	for _, registrar := range r.registrars {
		group, ok := registrar.(*DomainGroup)
		if !ok {
			continue
		}
		for _, route := range group.Routes() {
			routes = append(routes, Route{Method: route.Method, Path: path.Join(r.BasePath(), route.Path)})
		}
	}
	return routes
}

// DomainGroup declares the routes of one resource before it is mounted.
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	endpoints  []endpoint
}

type endpoint struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (dg *DomainGroup) Name() string   { return dg.name }
func (dg *DomainGroup) Prefix() string { return dg.prefix }

// Use adds middleware for every route in the group.
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.endpoints = append(dg.endpoints, endpoint{method: method, path: relativePath, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, relativePath, handlers...)
}

func (dg *DomainGroup) POST(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, relativePath, handlers...)
}

func (dg *DomainGroup) PUT(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, relativePath, handlers...)
}

func (dg *DomainGroup) DELETE(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, relativePath, handlers...)
}

// RegisterRoutes mounts the group under rg in declaration order.
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, ep := range dg.endpoints {
		group.Handle(ep.method, ep.path, ep.handlers...)
	}
}

// Routes lists the group's endpoints relative to the API prefix.
func (dg *DomainGroup) Routes() []Route {
	routes := make([]Route, 0, len(dg.endpoints))
	for _, ep := range dg.endpoints {
		routes = append(routes, Route{Method: ep.method, Path: path.Join(dg.prefix, ep.path)})
	}
	return routes
}
