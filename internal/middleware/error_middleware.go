package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
)

// InternalErrorMessage is the only text clients see for unexpected failures
const InternalErrorMessage = "Erro interno do servidor"

type errorCategory struct {
	target  error
	status  int
	message string
}

// categories are checked in order; the first match wins
var categories = []errorCategory{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, "Dados inválidos"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, "Requisição inválida"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Credenciais inválidas"},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, "Token não fornecido"},
	{apperrors.ErrTokenInvalid, http.StatusForbidden, "Token inválido"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, "Acesso negado"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, "Recurso não encontrado"},
	{apperrors.ErrConflict, http.StatusConflict, "Registro duplicado"},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests, "Muitas requisições"},
	{apperrors.ErrGateway, http.StatusBadGateway, "Falha na comunicação com o gateway de pagamento"},
	{apperrors.ErrExhaustedKeyspace, http.StatusServiceUnavailable, "Serviço temporariamente indisponível"},
}

// StatusFor returns the HTTP status an error maps to
func StatusFor(err error) int {
	for _, c := range categories {
		if errors.Is(err, c.target) {
			return c.status
		}
	}
	return http.StatusInternalServerError
}

// ErrorBody builds the response body for err. Unknown errors get the generic message.
func ErrorBody(err error) dto.ErrorResponse {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" && StatusFor(err) != http.StatusInternalServerError {
		return dto.ErrorResponse{Error: ce.Message, Code: ce.Code, Details: ce.Details}
	}
	for _, c := range categories {
		if errors.Is(err, c.target) {
			return dto.ErrorResponse{Error: c.message}
		}
	}
	return dto.ErrorResponse{Error: InternalErrorMessage}
}

// HandleAPIError writes err as a JSON error response and aborts the chain.
// Server side failures are logged with the real error and answered with a redacted body.
func HandleAPIError(c *gin.Context, err error) {
	status := StatusFor(err)
	switch {
	case status == http.StatusBadGateway:
		logger.Warn().Err(err).Str("path", c.FullPath()).Msg("Gateway failure")
	case status >= http.StatusInternalServerError:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, ErrorBody(err))
}
