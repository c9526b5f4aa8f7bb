package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
)

// Recovery turns a handler panic into the standard internal error body.
// The request logger from RequestID is preferred over log when present.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			l := requestLogger(c, log)
			l.Error().
				Interface("panic", r).
				Str("route", c.FullPath()).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal_server_error",
				"type":  apperrors.TypeInternal,
			})
		}()
		c.Next()
	}
}

func requestLogger(c *gin.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(c.Request.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
