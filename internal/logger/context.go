package logger

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// ContextKey is the type for logging values stored in a context.Context.
type ContextKey string

const (
	RequestIDKey ContextKey = "requestID"
	UserIDKey    ContextKey = "userID"
	ModuleKey    ContextKey = "module"
)

// WithContext returns an app logger entry enriched with the ids carried by ctx.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)
	if v := ctx.Value(RequestIDKey); v != nil {
		entry = entry.WithField("request_id", v)
	}
	if v := ctx.Value(UserIDKey); v != nil {
		entry = entry.WithField("user_id", v)
	}
	if v := ctx.Value(ModuleKey); v != nil {
		entry = entry.WithField("module", v)
	}
	return entry
}

// WithRequest returns an app logger entry carrying the request id, method, path and client ip.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithContext(context.Background())
	if rid := RequestID(c); rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	return entry.WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
}

// RequestID reads the id set by the requestid middleware, falling back to the headers.
func RequestID(c fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		return rid
	}
	if rid := c.Get("X-Request-ID"); rid != "" {
		return rid
	}
	return c.GetRespHeader("X-Request-ID")
}

// RequestContext copies the request id and user id from Fiber locals into a context for services.
func RequestContext(c fiber.Ctx) context.Context {
	var ctx context.Context = c.Context()
	if rid := RequestID(c); rid != "" {
		ctx = context.WithValue(ctx, RequestIDKey, rid)
	}
	if uid, ok := c.Locals("userID").(string); ok && uid != "" {
		ctx = context.WithValue(ctx, UserIDKey, uid)
	}
	return ctx
}

// WithModule returns an entry tagged with a module name, used by the module filter.
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}

// WithError returns an app logger entry carrying err.
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}
