package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/viniciusfeitosaa/gymapp/internal/app/controllers"
	appMigrations "github.com/viniciusfeitosaa/gymapp/internal/app/migrations"
	appRepos "github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	appRoutes "github.com/viniciusfeitosaa/gymapp/internal/app/routes"
	appServices "github.com/viniciusfeitosaa/gymapp/internal/app/services"
	"github.com/viniciusfeitosaa/gymapp/internal/config"
	"github.com/viniciusfeitosaa/gymapp/internal/db"
	appMiddleware "github.com/viniciusfeitosaa/gymapp/internal/middleware"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/accesscode"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/asaas"
	pkgAuth "github.com/viniciusfeitosaa/gymapp/internal/pkg/auth"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/helpers"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/ratelimit"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/validation"
	"github.com/viniciusfeitosaa/gymapp/internal/seed"
)

const studentLoginWindow = time.Minute

// Stores is the persistence layer the services run on
type Stores struct {
	Trainers           appRepos.ITrainerRepository
	Students           appRepos.IStudentRepository
	Workouts           appRepos.IWorkoutRepository
	WorkoutLogs        appRepos.IWorkoutLogRepository
	Messages           appRepos.IMessageRepository
	Progress           appRepos.IProgressRepository
	SubscriptionEvents appRepos.ISubscriptionEventRepository
}

// PostgresStores backs every store with the shared pool
func PostgresStores(pool *pgxpool.Pool) Stores {
	repos := appRepos.NewRepositories(pool)
	return Stores{
		Trainers:           repos.TrainerRepository,
		Students:           repos.StudentRepository,
		Workouts:           repos.WorkoutRepository,
		WorkoutLogs:        repos.WorkoutLogRepository,
		Messages:           repos.MessageRepository,
		Progress:           repos.ProgressRepository,
		SubscriptionEvents: repos.SubscriptionEventRepository,
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	TrainerService      appServices.TrainerService
	StudentService      appServices.StudentService
	WorkoutService      appServices.WorkoutService
	MessageService      appServices.MessageService
	ProgressService     appServices.ProgressService
	SubscriptionService appServices.SubscriptionService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	StudentLoginLimiter ratelimit.Limiter
	JWTService          *pkgAuth.JWTService
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to Postgres, applies the embedded migrations and seeds the default trainer.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator, err := appMigrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr)
	if err != nil {
		database.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, err
	}

	trainer := seed.Trainer{
		Name:     cfg.Seed.TrainerName,
		Email:    cfg.Seed.TrainerEmail,
		Password: cfg.Seed.TrainerPassword,
	}
	if err := seed.CreateDefaultTrainer(ctx, appRepos.NewTrainerRepository(database.Pool), trainer, lgr); err != nil {
		// the API is usable without the seed account
		lgr.Error().Err(err).Msg("Failed to create seed trainer, proceeding anyway...")
	}

	return database.Pool, nil
}

// SetupRateLimiter returns the student login limiter. With a Redis address the
// counter is shared across instances; the returned client must then be closed.
func SetupRateLimiter(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (ratelimit.Limiter, *redis.Client, error) {
	perMinute := cfg.RateLimit.StudentLoginPerMinute
	if cfg.RateLimit.RedisAddr == "" {
		lgr.Info().Int("perMinute", perMinute).Msg("Using in-process student login limiter")
		return ratelimit.NewMemoryLimiter(perMinute, studentLoginWindow), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RateLimit.RedisAddr, err)
	}

	lgr.Info().Str("addr", cfg.RateLimit.RedisAddr).Int("perMinute", perMinute).Msg("Using redis student login limiter")
	return ratelimit.NewRedisLimiter(client, "ratelimit:student-login:", perMinute, studentLoginWindow), client, nil
}

// NewGateway builds the Asaas client from configuration
func NewGateway(cfg *config.Config, lgr zerolog.Logger) *asaas.Client {
	if cfg.Asaas.APIKey == "" {
		lgr.Warn().Msg("ASAAS_API_KEY is not set, checkout and cancellation will fail")
	}
	return asaas.NewClient(asaas.Config{
		BaseURL:       cfg.Asaas.BaseURL,
		APIKey:        cfg.Asaas.APIKey,
		Timeout:       helpers.ParseDuration(cfg.Asaas.RequestTimeout, 15*time.Second),
		LookupRetries: cfg.Asaas.LookupRetries,
	}, lgr)
}

// BuildDependencies wires services and controllers on top of the given stores, gateway and limiter.
func BuildDependencies(
	cfg *config.Config,
	stores Stores,
	gateway appServices.PaymentGateway,
	limiter ratelimit.Limiter,
	lgr zerolog.Logger,
) (*Dependencies, error) {
	if cfg.Asaas.WebhookToken == "" {
		lgr.Warn().Msg("ASAAS_WEBHOOK_TOKEN is not set, webhook requests are not authenticated")
	}

	deps := &Dependencies{Logger: lgr, StudentLoginLimiter: limiter}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 7*24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	codes := accesscode.NewGenerator(cfg.AccessCode.Length, cfg.AccessCode.MaxAttempts)

	deps.AuthService = appServices.NewAuthService(stores.Trainers, stores.Students, deps.JWTService, lgr)
	deps.TrainerService = appServices.NewTrainerService(stores.Trainers, lgr)
	deps.StudentService = appServices.NewStudentService(stores.Students, stores.Trainers, codes, lgr)
	deps.WorkoutService = appServices.NewWorkoutService(stores.Workouts, stores.WorkoutLogs, stores.Students, nil, lgr)
	deps.MessageService = appServices.NewMessageService(stores.Messages, stores.Students, lgr)
	deps.ProgressService = appServices.NewProgressService(stores.Progress, stores.Students, nil, lgr)
	deps.SubscriptionService = appServices.NewSubscriptionService(
		stores.Trainers,
		stores.Students,
		stores.SubscriptionEvents,
		gateway,
		appServices.SubscriptionConfig{
			PlanName:     cfg.Asaas.PlanName,
			PlanValue:    cfg.Asaas.PlanValue,
			FrontendURL:  cfg.PrimaryFrontendURL(),
			WebhookToken: cfg.Asaas.WebhookToken,
		},
		nil,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		Personal:     appControllers.NewPersonalController(deps.TrainerService, lgr),
		Student:      appControllers.NewStudentController(deps.StudentService, lgr),
		Workout:      appControllers.NewWorkoutController(deps.WorkoutService, lgr),
		Message:      appControllers.NewMessageController(deps.MessageService, lgr),
		Progress:     appControllers.NewProgressController(deps.ProgressService, lgr),
		Subscription: appControllers.NewSubscriptionController(deps.SubscriptionService, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterRules(v); err != nil {
			return nil, err
		}
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.CORS(cfg.AllowedOrigins()),
	)

	if !cfg.IsProduction() {
		appRoutes.SetupSwagger(router)
	}

	appRoutes.SetupRouter(
		router,
		deps.Controllers,
		deps.AuthMiddleware,
		appMiddleware.RateLimit(deps.StudentLoginLimiter, lgr),
	)

	return router, nil
}
