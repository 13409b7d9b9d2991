package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viniciusfeitosaa/gymapp/internal/app/controllers"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/middleware"
)

// Service metadata reported by the root endpoint
const (
	ServiceName    = "gymapp-api"
	ServiceVersion = "1.0.0"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Personal     *controllers.PersonalController
	Student      *controllers.StudentController
	Workout      *controllers.WorkoutController
	Message      *controllers.MessageController
	Progress     *controllers.ProgressController
	Subscription *controllers.SubscriptionController
}

// SetupRouter configures all application routes.
// studentLoginLimit guards the access code login against enumeration.
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	studentLoginLimit gin.HandlerFunc,
) {
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.ServiceInfo{Name: ServiceName, Version: ServiceVersion, Status: "running"})
	})
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Timestamp: time.Now().UTC()})
	})

	api := router.Group("/api")

	// --- Public auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/student/login", studentLoginLimit, c.Auth.StudentLogin)
		auth.GET("/me", authMiddleware.Authenticate(), c.Auth.Me)
	}

	// Gateway callbacks carry their own token, not a bearer token
	api.POST("/webhooks/asaas", c.Subscription.Webhook)

	trainer := authMiddleware.RequireTrainer()
	student := authMiddleware.RequireStudent()

	personal := api.Group("/personal", trainer)
	{
		personal.GET("/profile", c.Personal.GetProfile)
		personal.PUT("/profile", c.Personal.UpdateProfile)
		personal.PUT("/password", c.Personal.ChangePassword)
	}

	students := api.Group("/students")
	{
		students.GET("/me", student, c.Student.GetMe)
		students.PUT("/me", student, c.Student.UpdateMe)

		students.GET("", trainer, c.Student.List)
		students.POST("", trainer, c.Student.Create)
		students.GET("/:id", trainer, c.Student.Get)
		students.PUT("/:id", trainer, c.Student.Update)
		students.DELETE("/:id", trainer, c.Student.Delete)
		students.POST("/:id/access-code", trainer, c.Student.RegenerateAccessCode)
	}

	workouts := api.Group("/workouts")
	{
		workouts.GET("/my", student, c.Workout.MyWorkouts)
		workouts.GET("/my/logs", student, c.Workout.MyLogs)
		workouts.GET("/today", student, c.Workout.Today)
		workouts.POST("/:id/log", student, c.Workout.Log)

		workouts.GET("/student/:studentId", trainer, c.Workout.ListForStudent)
		workouts.GET("/student/:studentId/logs", trainer, c.Workout.StudentLogs)
		workouts.POST("", trainer, c.Workout.Create)
		workouts.GET("/:id", trainer, c.Workout.Get)
		workouts.PUT("/:id", trainer, c.Workout.Update)
		workouts.DELETE("/:id", trainer, c.Workout.Delete)
	}

	messages := api.Group("/messages")
	{
		messages.GET("/my", student, c.Message.MyConversation)
		messages.POST("/my", student, c.Message.SendToTrainer)
		messages.PUT("/my/read", student, c.Message.MarkTrainerMessagesRead)

		messages.GET("/unread", trainer, c.Message.Unread)
		messages.GET("/student/:studentId", trainer, c.Message.Conversation)
		messages.POST("/student/:studentId", trainer, c.Message.SendToStudent)
		messages.PUT("/student/:studentId/read", trainer, c.Message.MarkStudentMessagesRead)
	}

	progress := api.Group("/progress")
	{
		progress.GET("/my", student, c.Progress.MyProgress)

		progress.GET("/student/:studentId", trainer, c.Progress.ListForStudent)
		progress.POST("/student/:studentId", trainer, c.Progress.Create)
		progress.PUT("/:id", trainer, c.Progress.Update)
		progress.DELETE("/:id", trainer, c.Progress.Delete)
	}

	subscription := api.Group("/subscription", trainer)
	{
		subscription.GET("/status", c.Subscription.Status)
		subscription.POST("/checkout", c.Subscription.Checkout)
		subscription.POST("/cancel", c.Subscription.Cancel)
	}

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Rota não encontrada"})
	})
}
