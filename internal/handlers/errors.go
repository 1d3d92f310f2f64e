package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/taskhub/backend/internal/services"
	"github.com/huangang/taskhub/backend/pkg/logger"
	"github.com/huangang/taskhub/backend/pkg/response"
)

// toAppError maps a service error kind to its HTTP status and code. Errors
// outside the taxonomy are returned unchanged and become a 500.
func toAppError(err error) error {
	kind, ok := services.KindOf(err)
	if !ok {
		return err
	}
	msg := err.Error()
	switch kind {
	case services.KindUnauthorized:
		return response.NewUnauthorized(msg)
	case services.KindInvalidCredentials:
		return response.NewInvalidCredentials(msg)
	case services.KindForbidden:
		return response.NewForbidden(msg)
	case services.KindNotFound:
		return response.NewNotFound(msg)
	case services.KindInvalidInput:
		return response.NewBadRequest(msg)
	}
	return err
}

func fail(c *gin.Context, err error) {
	if _, ok := services.KindOf(err); !ok {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	response.Error(c, toAppError(err))
}
