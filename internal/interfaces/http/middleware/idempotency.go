package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader lets clients retry a mutating request safely
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds the client supplied key
const MaxIdempotencyKeyLength = 128

// IdempotencyConfig configures the Idempotency-Key middleware
type IdempotencyConfig struct {
	Store shared.IdempotencyStore
	TTL   time.Duration
	// Scope prefixes stored keys, e.g. "receive"
	Scope  string
	Logger *zap.Logger
}

// IdempotencyKey rejects a replayed request carrying an Idempotency-Key the
// same caller already used on the same path. Keys of failed requests (status
// >= 400) are released so the client can retry. Requests without the header
// pass through.
func IdempotencyKey(cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(IdempotencyKeyHeader)
		if header == "" || cfg.Store == nil {
			c.Next()
			return
		}
		if len(header) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", c.GetString("request_id"),
			))
			return
		}

		key := cfg.Scope + ":" + strconv.FormatInt(GetJWTUserID(c), 10) + ":" + c.Request.URL.Path + ":" + header

		newly, err := cfg.Store.MarkProcessed(c.Request.Context(), key, cfg.TTL)
		if err != nil {
			// the store is down: run the request, the workflow guards stay in place
			if cfg.Logger != nil {
				cfg.Logger.Error("Idempotency store unavailable", zap.String("key", key), zap.Error(err))
			}
			c.Next()
			return
		}
		if !newly {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed",
				c.GetString("request_id"),
			))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			// the request context may already be cancelled
			if err := cfg.Store.Release(context.WithoutCancel(c.Request.Context()), key); err != nil && cfg.Logger != nil {
				cfg.Logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
