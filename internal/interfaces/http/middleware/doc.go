// Package middleware holds the gin middleware of the invoice store API:
// request IDs, CORS, security headers, body limits, rate limiting,
// idempotent creates and the tracing, metrics and profiling hooks.
package middleware
