package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/services"
	"github.com/viniciusfeitosaa/gymapp/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles trainer registration
// @Summary Register a personal trainer
// @Description Creates a trainer account on the FREE plan and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Trainer registration information"
// @Success 201 {object} dto.TrainerAuthResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Trainer registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// Login handles trainer login
// @Summary Trainer login
// @Description Authenticates a trainer by email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TrainerAuthResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Debug().Err(err).Str("clientIp", ctx.ClientIP()).Msg("Trainer login rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// StudentLogin handles student login by access code
// @Summary Student login
// @Description Authenticates a student by the access code the trainer shared
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Access code"
// @Success 200 {object} dto.StudentAuthResponse
// @Failure 400 {object} dto.ErrorResponse "Access code must have 5 characters"
// @Failure 401 {object} dto.ErrorResponse "Invalid access code"
// @Failure 429 {object} dto.ErrorResponse "Too many attempts"
// @Router /auth/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.StudentLogin(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Debug().Err(err).Str("clientIp", ctx.ClientIP()).Msg("Student login rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Me returns the authenticated caller
// @Summary Current account
// @Description Returns the trainer or student the token was issued to
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} dto.ErrorResponse "Missing token"
// @Failure 403 {object} dto.ErrorResponse "Invalid token"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	principal, ok := caller(ctx)
	if !ok {
		return
	}

	me, err := c.authService.Me(ctx.Request.Context(), principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, me)
}
