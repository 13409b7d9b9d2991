package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/services"
	"github.com/viniciusfeitosaa/gymapp/internal/middleware"
)

// PersonalController serves the trainer's own profile
type PersonalController struct {
	trainerService services.TrainerService
	logger         zerolog.Logger
}

// NewPersonalController creates a new PersonalController
func NewPersonalController(trainerService services.TrainerService, logger zerolog.Logger) *PersonalController {
	return &PersonalController{trainerService: trainerService, logger: logger}
}

// GetProfile returns the trainer profile
// @Summary Get trainer profile
// @Tags personal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.PersonalTrainer
// @Failure 401 {object} dto.ErrorResponse
// @Router /personal/profile [get]
func (c *PersonalController) GetProfile(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}

	trainer, err := c.trainerService.GetProfile(ctx.Request.Context(), trainerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, trainer)
}

// UpdateProfile updates the trainer profile
// @Summary Update trainer profile
// @Description Updates contact, CREF, CPF and billing address. The CPF is stored digits-only.
// @Tags personal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.PersonalTrainer
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /personal/profile [put]
func (c *PersonalController) UpdateProfile(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	trainer, err := c.trainerService.UpdateProfile(ctx.Request.Context(), trainerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, trainer)
}

// ChangePassword replaces the trainer password
// @Summary Change password
// @Tags personal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Current password does not match"
// @Router /personal/password [put]
func (c *PersonalController) ChangePassword(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.trainerService.ChangePassword(ctx.Request.Context(), trainerID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("trainerId", trainerID.String()).Msg("Password changed")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Senha alterada com sucesso"})
}
