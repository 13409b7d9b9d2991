package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/services"
	"github.com/viniciusfeitosaa/gymapp/internal/middleware"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/helpers"
)

// StudentController handles the trainer's student roster and the student's own profile
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{studentService: studentService, logger: logger}
}

// List returns a page of the trainer's students
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by name"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.StudentListResponse
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.studentService.List(ctx.Request.Context(), trainerID, strings.TrimSpace(ctx.Query("q")), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, list)
}

// Get returns one of the trainer's students
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	trainerID, id, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.Get(ctx.Request.Context(), trainerID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// Create adds a student and assigns an access code
// @Summary Create student
// @Description Creates a student with a unique 5 digit access code. Fails when the plan limit is reached.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} models.Student
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "STUDENT_LIMIT_REACHED"
// @Failure 503 {object} dto.ErrorResponse "ACCESS_CODE_EXHAUSTED"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), trainerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, student)
}

// Update changes one of the trainer's students
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} models.Student
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	trainerID, id, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), trainerID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// Delete removes a student with all of its data
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	trainerID, id, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), trainerID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Aluno removido com sucesso"})
}

// RegenerateAccessCode replaces the student's access code
// @Summary Regenerate access code
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.AccessCodeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id}/access-code [post]
func (c *StudentController) RegenerateAccessCode(ctx *gin.Context) {
	trainerID, id, ok := ownerAndParam(ctx, "id")
	if !ok {
		return
	}

	code, err := c.studentService.RegenerateAccessCode(ctx.Request.Context(), trainerID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AccessCodeResponse{AccessCode: code})
}

// GetMe returns the student's own profile
// @Summary Get own student profile
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Student
// @Router /students/me [get]
func (c *StudentController) GetMe(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetOwnProfile(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// UpdateMe changes the student's contact and body data
// @Summary Update own student profile
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateOwnProfileRequest true "Fields to change"
// @Success 200 {object} models.Student
// @Router /students/me [put]
func (c *StudentController) UpdateMe(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.UpdateOwnProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.UpdateOwnProfile(ctx.Request.Context(), studentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}
