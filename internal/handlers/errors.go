package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
)

func statusFor(t apperrors.Type) int {
	switch t {
	case apperrors.TypeValidation:
		return http.StatusBadRequest
	case apperrors.TypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.TypeForbidden:
		return http.StatusForbidden
	case apperrors.TypeNotFound:
		return http.StatusNotFound
	case apperrors.TypeConflict:
		return http.StatusConflict
	case apperrors.TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// statusClientClosed is recorded when the client went away mid-request.
const statusClientClosed = 499

// respondError writes err as {"error": message}. Internal failures are
// logged and hidden from the client; a cancelled request gets no body.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) {
		h.log.Debug().Str("path", c.Request.URL.Path).Msg("client closed request")
		c.AbortWithStatus(statusClientClosed)
		return
	}
	_ = c.Error(err)
	t := apperrors.TypeOf(err)
	status := statusFor(t)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		if status == http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": "internal_server_error"})
			return
		}
	}
	c.JSON(status, gin.H{"error": err.Error(), "type": string(t)})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": string(apperrors.TypeValidation)})
}
