package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/apperrors"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/middleware"
)

// respondError maps service errors to HTTP: not found is 404, a duplicate
// is 409, any other validation error is 400 and the rest is a logged 500.
func respondError(c *gin.Context, logger *slog.Logger, err error, notFound, failure string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		middleware.RespondWithError(c, http.StatusNotFound, notFound)
		return
	}
	if ve, ok := apperrors.AsValidation(err); ok {
		if ve.Duplicate {
			middleware.RespondWithError(c, http.StatusConflict, ve.Message)
			return
		}
		middleware.RespondWithValidationError(c, []middleware.ValidationError{{
			Field:   ve.Field,
			Message: ve.Message,
			Type:    "invalid",
		}})
		return
	}
	logger.Error(failure, "error", err, "request_id", middleware.GetRequestID(c))
	_ = c.Error(err)
	middleware.RespondWithError(c, http.StatusInternalServerError, failure)
}

// pathID parses a positive int64 path parameter and answers 400 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
