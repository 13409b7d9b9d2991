package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/services"
	"github.com/viniciusfeitosaa/gymapp/internal/middleware"
)

// MessageController handles the trainer and student conversation
type MessageController struct {
	messageService services.MessageService
	logger         zerolog.Logger
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService, logger zerolog.Logger) *MessageController {
	return &MessageController{messageService: messageService, logger: logger}
}

// Conversation returns the messages exchanged with a student
// @Summary Conversation with a student
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {array} models.Message
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/student/{studentId} [get]
func (c *MessageController) Conversation(ctx *gin.Context) {
	trainerID, studentID, ok := ownerAndParam(ctx, "studentId")
	if !ok {
		return
	}

	messages, err := c.messageService.Conversation(ctx.Request.Context(), trainerID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// SendToStudent posts a message from the trainer
// @Summary Send a message to a student
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 404 {object} dto.ErrorResponse
// @Router /messages/student/{studentId} [post]
func (c *MessageController) SendToStudent(ctx *gin.Context) {
	trainerID, studentID, ok := ownerAndParam(ctx, "studentId")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	msg, err := c.messageService.SendToStudent(ctx.Request.Context(), trainerID, studentID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, msg)
}

// MarkStudentMessagesRead marks the student's messages as read by the trainer
// @Summary Mark a student's messages read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} dto.MarkReadResponse
// @Router /messages/student/{studentId}/read [put]
func (c *MessageController) MarkStudentMessagesRead(ctx *gin.Context) {
	trainerID, studentID, ok := ownerAndParam(ctx, "studentId")
	if !ok {
		return
	}

	n, err := c.messageService.MarkStudentMessagesRead(ctx.Request.Context(), trainerID, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MarkReadResponse{Updated: n})
}

// Unread returns unread message counts per student
// @Summary Unread counts
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UnreadCount
// @Router /messages/unread [get]
func (c *MessageController) Unread(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}

	counts, err := c.messageService.Unread(ctx.Request.Context(), trainerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, counts)
}

// MyConversation returns the student's conversation with the trainer
// @Summary Own conversation
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Message
// @Router /messages/my [get]
func (c *MessageController) MyConversation(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	messages, err := c.messageService.MyConversation(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// SendToTrainer posts a message from the student
// @Summary Send a message to the trainer
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Router /messages/my [post]
func (c *MessageController) SendToTrainer(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	msg, err := c.messageService.SendToTrainer(ctx.Request.Context(), studentID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, msg)
}

// MarkTrainerMessagesRead marks the trainer's messages as read by the student
// @Summary Mark trainer messages read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MarkReadResponse
// @Router /messages/my/read [put]
func (c *MessageController) MarkTrainerMessagesRead(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	n, err := c.messageService.MarkTrainerMessagesRead(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MarkReadResponse{Updated: n})
}
