package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blazestudiox/coldforge/api/internal/llm"
	"github.com/blazestudiox/coldforge/api/internal/service"
)

// Success sends {"success":true} merged with the given payload fields.
func Success(c echo.Context, status int, payload map[string]any) error {
	if status == 0 {
		status = http.StatusOK
	}
	body := map[string]any{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	return c.JSON(status, body)
}

// Error sends the standard failure envelope.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, map[string]any{"success": false, "error": message})
}

// mapServiceError converts typed service and provider errors into the
// caller-facing envelope. Unexpected errors collapse to a generic message
// so internals never leak.
func mapServiceError(c echo.Context, err error) error {
	var (
		validationErr *service.ValidationError
		authErr       *service.AuthError
		quotaErr      *service.QuotaError
		timeoutErr    *llm.TimeoutError
		providerErr   *llm.ProviderError
		protocolErr   *llm.ProtocolError
		transportErr  *llm.TransportError
	)

	switch {
	case errors.As(err, &validationErr):
		return Error(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &authErr):
		return Error(c, http.StatusUnauthorized, authErr.Message)
	case errors.As(err, &quotaErr):
		body := map[string]any{"success": false, "error": quotaErr.Message}
		if quotaErr.Limit != 0 {
			body["uses"] = quotaErr.Uses
			body["limit"] = quotaErr.Limit
		}
		if len(quotaErr.Upgrades) > 0 {
			body["upgrades"] = quotaErr.Upgrades
		}
		return c.JSON(http.StatusTooManyRequests, body)
	case errors.As(err, &timeoutErr):
		return Error(c, http.StatusGatewayTimeout, "model provider timed out, try again")
	case errors.As(err, &providerErr), errors.As(err, &protocolErr), errors.As(err, &transportErr):
		return Error(c, http.StatusBadGateway, "model provider request failed")
	default:
		return Error(c, http.StatusInternalServerError, "internal error, try again")
	}
}
