// Package router mounts every domain under /api/v1.
package router

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// CRUDHandler is implemented by basehdl.BaseHandler.
type CRUDHandler interface {
	FindWithPagination(c fiber.Ctx) error
	FindOneById(c fiber.Ctx) error
	FindByLoyverseID(c fiber.Ctx) error
	InsertOne(c fiber.Ctx) error
	UpdateById(c fiber.Ctx) error
	DeleteById(c fiber.Ctx) error
}

// CRUDConfig selects which operations RegisterCRUDRoutes mounts.
type CRUDConfig struct {
	List       bool
	Get        bool
	ByLoyverse bool
	Create     bool
	Update     bool
	Delete     bool
}

// ReadWriteConfig mounts everything.
var ReadWriteConfig = CRUDConfig{List: true, Get: true, ByLoyverse: true, Create: true, Update: true, Delete: true}

// AuthFactory builds an authentication middleware restricted to roles. No roles
// means any authenticated user.
type AuthFactory func(roles ...string) fiber.Handler

// Router carries what domain routers share.
type Router struct {
	app  *fiber.App
	Auth AuthFactory
}

// RoutePrefix holds the API version prefixes.
type RoutePrefix struct {
	V1 string
}

// NewRoutePrefix returns the prefixes in use.
func NewRoutePrefix() RoutePrefix {
	return RoutePrefix{V1: "/api/v1"}
}

// NewRouter wraps app.
func NewRouter(app *fiber.App, auth AuthFactory) *Router {
	return &Router{app: app, Auth: auth}
}

// RegisterRouteWithMiddleware mounts handler at prefix+path behind middlewares. The
// chain is attached to the route itself, never with Use() on the group: several routes
// share a prefix with different role gates.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	chain := append(append([]fiber.Handler{}, middlewares...), handler)

	switch strings.ToUpper(method) {
	case fiber.MethodGet:
		routeGroup.Get(path, chain[0], chain[1:]...)
	case fiber.MethodPost:
		routeGroup.Post(path, chain[0], chain[1:]...)
	case fiber.MethodPut:
		routeGroup.Put(path, chain[0], chain[1:]...)
	case fiber.MethodPatch:
		routeGroup.Patch(path, chain[0], chain[1:]...)
	case fiber.MethodDelete:
		routeGroup.Delete(path, chain[0], chain[1:]...)
	}
}

// RegisterCRUDRoutes mounts the REST routes of one collection:
//
//	GET    /prefix                    list
//	GET    /prefix/loyverse/:loyverseId
//	GET    /prefix/:id
//	POST   /prefix
//	PATCH  /prefix/:id                explicit merge
//	DELETE /prefix/:id
func (r *Router) RegisterCRUDRoutes(router fiber.Router, prefix string, h CRUDHandler, config CRUDConfig, readRoles, writeRoles []string) {
	read := []fiber.Handler{r.Auth(readRoles...)}
	write := []fiber.Handler{r.Auth(writeRoles...)}

	if config.List {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "", read, h.FindWithPagination)
	}
	if config.ByLoyverse {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "/loyverse/:loyverseId", read, h.FindByLoyverseID)
	}
	if config.Get {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "/:id", read, h.FindOneById)
	}
	if config.Create {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodPost, "", write, h.InsertOne)
	}
	if config.Update {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodPatch, "/:id", write, h.UpdateById)
	}
	if config.Delete {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodDelete, "/:id", write, h.DeleteById)
	}
}

// RegisterFunc mounts one domain on the v1 group.
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes mounts every domain on /api/v1.
func SetupRoutes(app *fiber.App, auth AuthFactory, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app, auth)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
