package cache

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const pageKeyPrefix = "page:"

// Routes whose rendered output is cached and dropped after a product mutation.
const (
	RouteAdmin    = "/admin"
	RouteProducts = "/products"
)

// PageCache keeps rendered HTML for a few routes until they are invalidated or expire.
type PageCache struct {
	store Store
	ttl   time.Duration
}

func NewPageCache(store Store, ttl time.Duration) *PageCache {
	return &PageCache{store: store, ttl: ttl}
}

// Key is the storage key for a route's rendered body.
func Key(route string) string {
	return pageKeyPrefix + route
}

// Variant names the cached copy a request may share, e.g. one per signed-in user.
type Variant func(c *fiber.Ctx) string

// Middleware answers GET requests for route from the cache and fills the cache
// from successful HTML responses, one copy per variant. Requests with a query
// string bypass it. It must run after any gate on the route.
func (p *PageCache) Middleware(route string, variant Variant) fiber.Handler {
	key := Key(route)
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet || len(c.Request().URI().QueryString()) > 0 {
			return c.Next()
		}

		field := variant(c)
		if body, _ := p.store.GetField(c.UserContext(), key, field); body != nil {
			c.Set("X-Page-Cache", "hit")
			c.Type("html", "utf-8")
			return c.Send(body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		res := c.Response()
		if res.StatusCode() == fiber.StatusOK && strings.HasPrefix(string(res.Header.ContentType()), fiber.MIMETextHTML) {
			body := append([]byte(nil), res.Body()...)
			_ = p.store.SetField(c.UserContext(), key, field, body, p.ttl)
		}
		c.Set("X-Page-Cache", "miss")
		return nil
	}
}

// Invalidate drops the cached output of each route.
func (p *PageCache) Invalidate(ctx context.Context, routes ...string) {
	keys := make([]string, 0, len(routes))
	for _, route := range routes {
		keys = append(keys, Key(route))
	}
	if err := p.store.Delete(ctx, keys...); err != nil {
		zap.L().Warn("page cache invalidation failed", zap.Strings("routes", routes), zap.Error(err))
	}
}
