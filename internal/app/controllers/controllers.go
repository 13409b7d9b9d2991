// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/middleware"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/auth"
)

// callerID returns the id of the authenticated caller. Routes are always behind the
// role gate, so a missing principal is answered like a missing token.
func callerID(ctx *gin.Context) (uuid.UUID, bool) {
	principal, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrMissingToken)
		return uuid.Nil, false
	}
	return principal.ID, true
}

func caller(ctx *gin.Context) (auth.Principal, bool) {
	principal, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrMissingToken)
	}
	return principal, ok
}

// uuidParam parses a path parameter as a UUID, answering 400 when it is not one
func uuidParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "ID inválido",
			Code:  apperrors.CodeValidationFailed,
			Details: []dto.FieldError{{
				Field:   name,
				Message: name + " must be a valid UUID",
			}},
		})
		return uuid.Nil, false
	}
	return id, true
}

// ownerAndParam resolves the caller and one UUID path parameter
func ownerAndParam(ctx *gin.Context, name string) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := callerID(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := uuidParam(ctx, name)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return owner, id, true
}
