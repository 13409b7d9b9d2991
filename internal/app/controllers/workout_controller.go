package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/services"
	"github.com/viniciusfeitosaa/gymapp/internal/middleware"
)

// WorkoutController handles workouts, exercises and workout logs
type WorkoutController struct {
	workoutService services.WorkoutService
	logger         zerolog.Logger
}

// NewWorkoutController creates a new WorkoutController
func NewWorkoutController(workoutService services.WorkoutService, logger zerolog.Logger) *WorkoutController {
	return &WorkoutController{workoutService: workoutService, logger: logger}
}

// ListForStudent returns all workouts of one of the trainer's students
// @Summary List a student's workouts
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {array} models.Workout
// @Failure 404 {object} dto.ErrorResponse
// @Router /workouts/student/{studentId} [get]
func (c *WorkoutController) ListForStudent(ctx *gin.Context) {
	trainerID, studentID, ok := ownerAndParam(ctx, "studentId")
	if !ok {
		return
	}

	workouts, err := c.workoutService.ListForStudent(ctx.Request.Context(), trainerID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, workouts)
}

// Get returns a workout with its exercises
// @Summary Get workout
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} models.Workout
// @Failure 404 {object} dto.ErrorResponse
// @Router /workouts/{id} [get]
func (c *WorkoutController) Get(ctx *gin.Context) {
	trainerID, id, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}

	workout, err := c.workoutService.Get(ctx.Request.Context(), trainerID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, workout)
}

// Create adds a workout with its exercises
// @Summary Create workout
// @Tags workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateWorkoutRequest true "Workout"
// @Success 201 {object} models.Workout
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /workouts [post]
func (c *WorkoutController) Create(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.CreateWorkoutRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	workout, err := c.workoutService.Create(ctx.Request.Context(), trainerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, workout)
}

// Update changes a workout; exercises are replaced when sent
// @Summary Update workout
// @Tags workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param request body dto.UpdateWorkoutRequest true "Fields to change"
// @Success 200 {object} models.Workout
// @Failure 404 {object} dto.ErrorResponse
// @Router /workouts/{id} [put]
func (c *WorkoutController) Update(ctx *gin.Context) {
	trainerID, id, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateWorkoutRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	workout, err := c.workoutService.Update(ctx.Request.Context(), trainerID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, workout)
}

// Delete removes a workout
// @Summary Delete workout
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /workouts/{id} [delete]
func (c *WorkoutController) Delete(ctx *gin.Context) {
	trainerID, id, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.workoutService.Delete(ctx.Request.Context(), trainerID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Treino removido com sucesso"})
}

// StudentLogs returns the sessions a student logged
// @Summary List a student's workout logs
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {array} models.WorkoutLog
// @Router /workouts/student/{studentId}/logs [get]
func (c *WorkoutController) StudentLogs(ctx *gin.Context) {
	trainerID, studentID, ok := ownerAndParam(ctx, "studentId")
	if !ok {
		return
	}

	logs, err := c.workoutService.StudentLogs(ctx.Request.Context(), trainerID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, logs)
}

// MyWorkouts returns the student's active workouts
// @Summary List own workouts
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Workout
// @Router /workouts/my [get]
func (c *WorkoutController) MyWorkouts(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	workouts, err := c.workoutService.MyWorkouts(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, workouts)
}

// Today returns the student's workout for the current weekday
// @Summary Today's workout
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TodayWorkoutResponse
// @Router /workouts/today [get]
func (c *WorkoutController) Today(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	today, err := c.workoutService.Today(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, today)
}

// MyLogs returns the sessions the student logged
// @Summary List own workout logs
// @Tags workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.WorkoutLog
// @Router /workouts/my/logs [get]
func (c *WorkoutController) MyLogs(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	logs, err := c.workoutService.MyLogs(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, logs)
}

// Log records a session of one of the student's workouts
// @Summary Log a workout session
// @Tags workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param request body dto.LogWorkoutRequest true "Session"
// @Success 201 {object} models.WorkoutLog
// @Failure 404 {object} dto.ErrorResponse
// @Router /workouts/{id}/log [post]
func (c *WorkoutController) Log(ctx *gin.Context) {
	studentID, workoutID, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.LogWorkoutRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	entry, err := c.workoutService.LogWorkout(ctx.Request.Context(), studentID, workoutID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, entry)
}
