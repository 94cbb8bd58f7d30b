package middleware

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Pyroscope label names attached by Profiling
const (
	ProfilingLabelMethod   = "method"
	ProfilingLabelRoute    = "route"
	ProfilingLabelResource = "resource"
)

type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig leaves health checks and the Swagger UI unlabeled.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling labels samples taken while a request runs with its method, route
// pattern and resource, so flame graphs can be filtered per endpoint.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}

	skip := func(p string) bool {
		return slices.Contains(cfg.SkipPaths, p) ||
			slices.ContainsFunc(cfg.SkipPathPrefixes, func(prefix string) bool { return strings.HasPrefix(p, prefix) })
	}

	return func(c *gin.Context) {
		if skip(c.Request.URL.Path) {
			c.Next()
			return
		}
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	return map[string]string{
		ProfilingLabelMethod:   c.Request.Method,
		ProfilingLabelRoute:    route,
		ProfilingLabelResource: resourceFromRoute(route),
	}
}

var versionSegment = regexp.MustCompile(`^[vV][0-9]+$`)

// resourceFromRoute picks the first literal segment after /api/vN,
// e.g. "/api/v1/invoices/:id/pdf" gives "invoices".
func resourceFromRoute(route string) string {
	for _, seg := range strings.Split(route, "/") {
		switch {
		case seg == "", seg == "api", strings.HasPrefix(seg, ":"), versionSegment.MatchString(seg):
			continue
		}
		return seg
	}
	return ""
}
