package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/services"
	"github.com/viniciusfeitosaa/gymapp/internal/middleware"
)

// ProgressController handles body measurement records
type ProgressController struct {
	progressService services.ProgressService
	logger          zerolog.Logger
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService services.ProgressService, logger zerolog.Logger) *ProgressController {
	return &ProgressController{progressService: progressService, logger: logger}
}

// ListForStudent returns a student's progress records, newest first
// @Summary List a student's progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {array} models.ProgressRecord
// @Failure 404 {object} dto.ErrorResponse
// @Router /progress/student/{studentId} [get]
func (c *ProgressController) ListForStudent(ctx *gin.Context) {
	trainerID, studentID, ok := ownerAndParam(ctx, "studentId")
	if !ok {
		return
	}

	records, err := c.progressService.ListForStudent(ctx.Request.Context(), trainerID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// Create adds a progress record; the date defaults to today
// @Summary Create progress record
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param request body dto.ProgressRequest true "Measurements"
// @Success 201 {object} models.ProgressRecord
// @Failure 404 {object} dto.ErrorResponse
// @Router /progress/student/{studentId} [post]
func (c *ProgressController) Create(ctx *gin.Context) {
	trainerID, studentID, ok := ownerAndParam(ctx, "studentId")
	if !ok {
		return
	}
	var req dto.ProgressRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.progressService.Create(ctx.Request.Context(), trainerID, studentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, record)
}

// Update changes a progress record
// @Summary Update progress record
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Progress record ID"
// @Param request body dto.ProgressRequest true "Measurements"
// @Success 200 {object} models.ProgressRecord
// @Failure 404 {object} dto.ErrorResponse
// @Router /progress/{id} [put]
func (c *ProgressController) Update(ctx *gin.Context) {
	trainerID, id, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ProgressRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.progressService.Update(ctx.Request.Context(), trainerID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, record)
}

// Delete removes a progress record
// @Summary Delete progress record
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Progress record ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /progress/{id} [delete]
func (c *ProgressController) Delete(ctx *gin.Context) {
	trainerID, id, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.progressService.Delete(ctx.Request.Context(), trainerID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Registro removido com sucesso"})
}

// MyProgress returns the student's own progress records
// @Summary List own progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ProgressRecord
// @Router /progress/my [get]
func (c *ProgressController) MyProgress(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	records, err := c.progressService.MyProgress(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, records)
}
