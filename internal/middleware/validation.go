package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

// BindJSON binds and validates the request body into obj. On failure it writes
// a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse(err))
		return false
	}
	return true
}

// ValidationErrorResponse turns a binding error into the client error body
func ValidationErrorResponse(err error) dto.ErrorResponse {
	resp := dto.ErrorResponse{Error: "Dados inválidos", Code: apperrors.CodeValidationFailed}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{
				Field:   jsonFieldName(fe),
				Message: formatValidationError(fe),
			})
		}
		resp.Details = fields
		return resp
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		resp.Details = []dto.FieldError{{Field: typeErr.Field, Message: "has the wrong type"}}
		return resp
	}
	resp.Error = "Corpo da requisição inválido"
	return resp
}

// jsonFieldName falls back to a lower-cased struct field when no json tag name was registered
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "len":
		return field + " must have exactly " + e.Param() + " characters"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "weekday":
		return field + " must be a day tag such as MONDAY"
	case "accesscode":
		return field + " must have exactly 5 characters"
	case "taxid":
		return field + " must be a valid CPF or CNPJ"
	default:
		return field + " validation failed: " + e.Tag()
	}
}
