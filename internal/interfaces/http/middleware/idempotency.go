package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Idempotency headers
const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// responseRecorder tees the response body into a buffer
type responseRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the recorded response when a request repeats an
// Idempotency-Key already seen on the same route. A repeat that arrives while
// the first request is still running gets 409. Responses with status 5xx are
// not recorded, so the client may retry them. Requests without the header
// pass through untouched.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		clientKey := c.GetHeader(IdempotencyKeyHeader)
		if clientKey == "" {
			c.Next()
			return
		}
		if len(clientKey) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest,
				"Idempotency-Key must be at most 255 characters",
				GetRequestID(c),
			))
			return
		}

		ctx := c.Request.Context()
		key := c.Request.Method + " " + c.FullPath() + " " + clientKey

		reserved, err := cfg.Store.Reserve(ctx, key, cfg.TTL)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing request without deduplication",
				zap.String("route", c.FullPath()), zap.Error(err))
			c.Next()
			return
		}

		if !reserved {
			stored, err := cfg.Store.Lookup(ctx, key)
			if err != nil {
				log.Warn("Idempotency lookup failed", zap.Error(err))
			}
			if stored != nil {
				replay(c, stored)
				return
			}
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeIdempotencyInProgress,
				"A request with this Idempotency-Key is already being processed",
				GetRequestID(c),
			))
			return
		}

		// The outcome must be stored even when the client has gone away
		storeCtx := context.WithoutCancel(ctx)
		recorded := false
		// Unrecorded outcomes, a recovered panic included, free the key for retries
		defer func() {
			if recorded {
				return
			}
			if err := cfg.Store.Release(storeCtx, key); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}()

		recorder := &responseRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			return
		}

		resp := shared.StoredResponse{
			StatusCode:  status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}
		if err := cfg.Store.Complete(storeCtx, key, resp, cfg.TTL); err != nil {
			log.Warn("Failed to record idempotent response", zap.Error(err))
			return
		}
		recorded = true
	}
}

func replay(c *gin.Context, stored *shared.StoredResponse) {
	c.Header(IdempotentReplayHeader, "true")
	contentType := stored.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	c.Data(stored.StatusCode, contentType, stored.Body)
	c.Abort()
}
