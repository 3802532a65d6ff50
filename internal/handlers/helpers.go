package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "fairshare/internal/errors"
	"fairshare/internal/logger"
)

// ErrorDetail is the machine-readable part of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON shape of all error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse is the JSON shape of simple confirmation responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// getAccountID extracts the authenticated account ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getAccountID(c *gin.Context) (string, error) {
	accountID, exists := c.Get("accountID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return accountID.(string), nil
}

// getMemberID extracts the authenticated member ID from the Gin context.
func getMemberID(c *gin.Context) (string, error) {
	memberID, exists := c.Get("memberID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return memberID.(string), nil
}

// parsePathID validates a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
