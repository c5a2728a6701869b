package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cloudquote/internal/domain"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// MapDomainError translates domain errors into HTTP responses.
func MapDomainError(c *gin.Context, err error) {
	var (
		unsupported *domain.UnsupportedKindError
		exhausted   *domain.ResolutionExhaustedError
		noPrice     *domain.PriceUnavailableError
		remote      *domain.RemoteAPIError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInvalidContentKind):
		respondError(c, http.StatusBadRequest, "INVALID_CONTENT_KIND", err.Error())
	case errors.As(err, &unsupported):
		respondError(c, http.StatusUnprocessableEntity, "UNSUPPORTED_CONTENT_KIND", err.Error())
	case errors.As(err, &exhausted):
		respondError(c, http.StatusUnprocessableEntity, "RESOLUTION_EXHAUSTED", err.Error())
	case errors.As(err, &noPrice):
		respondError(c, http.StatusBadGateway, "PRICE_UNAVAILABLE", err.Error())
	case errors.As(err, &remote):
		respondError(c, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}
