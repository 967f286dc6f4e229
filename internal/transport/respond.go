package transport

import (
	"errors"
	"net/http"

	"inventory-api/internal/domain"
	"inventory-api/internal/middleware"

	"go.uber.org/zap"
)

// respondError logs rejected requests below Error level and leaves store
// failures to middleware.RespondWithDomainError, which logs them.
func respondError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		logger.Debug("Request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
		logger.Warn(message, zap.String("path", r.URL.Path), zap.Error(err))
	}

	middleware.RespondWithDomainError(w, r, logger, err, message)
}

// MessageResponse is the body of operations that return no resource
type MessageResponse struct {
	Message string `json:"message"`
}
