package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/tce-csbs/participation-portal/internal/app/controllers"
	"github.com/tce-csbs/participation-portal/internal/app/credit"
	appMigrations "github.com/tce-csbs/participation-portal/internal/app/migrations"
	appRepos "github.com/tce-csbs/participation-portal/internal/app/repositories"
	appRoutes "github.com/tce-csbs/participation-portal/internal/app/routes"
	appServices "github.com/tce-csbs/participation-portal/internal/app/services"
	"github.com/tce-csbs/participation-portal/internal/config"
	"github.com/tce-csbs/participation-portal/internal/db"
	"github.com/tce-csbs/participation-portal/internal/jobs"
	"github.com/tce-csbs/participation-portal/internal/metrics"
	appMiddleware "github.com/tce-csbs/participation-portal/internal/middleware"
	pkgAuth "github.com/tce-csbs/participation-portal/internal/pkg/auth"
	"github.com/tce-csbs/participation-portal/internal/pkg/email"
	"github.com/tce-csbs/participation-portal/internal/pkg/filestorage"
	"github.com/tce-csbs/participation-portal/internal/pkg/logger"
	"github.com/tce-csbs/participation-portal/internal/pkg/websocket"
	"github.com/tce-csbs/participation-portal/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	Stores      appServices.Stores
	FileStorage filestorage.FileStorage
	JWTService  *pkgAuth.JWTService
	Notifier    *email.Notifier
	Hub         *websocket.Hub

	AuthService       *appServices.AuthService
	HackathonService  *appServices.HackathonService
	InternshipService *appServices.InternshipService
	AlertService      *appServices.AlertService
	UserService       *appServices.UserService
	StatsService      *appServices.StatsService
	ExportService     *appServices.ExportService

	Handlers       appRoutes.Handlers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Scheduler      *jobs.Scheduler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the default accounts.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := appMigrations.NewMigrator(database.Pool, lgr).Up(ctx); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
	}

	if cfg.Seed.Enabled {
		repos := appRepos.NewRepositories(database.Pool)
		defaults := seed.Defaults{
			AdminName:         cfg.Seed.AdminName,
			AdminEmail:        cfg.Seed.AdminEmail,
			AdminPassword:     cfg.Seed.AdminPassword,
			ProctorName:       cfg.Seed.ProctorName,
			ProctorEmail:      cfg.Seed.ProctorEmail,
			ProctorPassword:   cfg.Seed.ProctorPassword,
			ProctorDepartment: cfg.Seed.ProctorDepartment,
		}
		if err := seed.CreateDefaultData(ctx, repos.Admins, repos.Proctors, defaults, logger.Component("seed")); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// newFileStorage picks the upload backend named by storage.driver
func newFileStorage(ctx context.Context, cfg *config.Config) (filestorage.FileStorage, error) {
	if cfg.Storage.Driver == "s3" {
		s3cfg := cfg.Storage.S3
		return filestorage.NewS3Storage(ctx, filestorage.S3Config{
			Bucket:          s3cfg.Bucket,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			PublicBaseURL:   s3cfg.PublicBaseURL,
		})
	}
	return filestorage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.PublicURL)
}

// BuildDependencies initializes repositories, services, controllers and the scheduler.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)
	deps.Stores = appServices.StoresFromRepositories(deps.Repos)
	uow := appServices.NewPostgresUnitOfWork(database)

	var err error
	deps.FileStorage, err = newFileStorage(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	templates, err := email.NewTemplates(cfg.SMTP.College)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	mailLogger := logger.Component("email")
	sender := email.NewSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, mailLogger)
	deps.Notifier = email.NewNotifier(sender, templates, email.RetryPolicy{
		MaxAttempts:     cfg.Notification.MaxAttempts,
		InitialInterval: cfg.NotifyInitialInterval(),
		Multiplier:      cfg.Notification.Multiplier,
		MaxInterval:     cfg.NotifyMaxInterval(),
	}, mailLogger)

	deps.Hub = websocket.NewHub(logger.Component("websocket"))

	policy, err := credit.ParsePolicy(cfg.Credits.Policy)
	if err != nil {
		return nil, err
	}
	if policy == credit.PolicyUnified {
		lgr.Warn().Msg("Unified credit policy enabled: every review recomputes credits from accepted and approved records")
	}
	engine := credit.NewEngine(policy)
	assigner := appServices.NewProctorAssigner(lgr)
	threshold := cfg.Alerts.Threshold

	deps.AuthService = appServices.NewAuthService(deps.Stores, deps.JWTService, deps.Notifier, cfg.Auth.StudentEmailDomain, lgr)
	deps.HackathonService = appServices.NewHackathonService(deps.Stores, uow, assigner, engine, deps.Notifier, deps.Hub, lgr)
	deps.InternshipService = appServices.NewInternshipService(deps.Stores, uow, assigner, engine, deps.Notifier, deps.Hub, lgr)
	deps.AlertService = appServices.NewAlertService(deps.Stores.Students, deps.Notifier, threshold, lgr)
	deps.UserService = appServices.NewUserService(deps.Stores, uow, lgr)
	deps.StatsService = appServices.NewStatsService(deps.Stores, threshold)
	deps.ExportService = appServices.NewExportService(deps.Stores)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	maxUpload := int64(cfg.Server.MaxUploadMB) << 20
	deps.Handlers = appRoutes.Handlers{
		Auth:        appControllers.NewAuthController(deps.AuthService, lgr),
		Hackathons:  appControllers.NewHackathonController(deps.HackathonService, deps.FileStorage, maxUpload, lgr),
		Internships: appControllers.NewInternshipController(deps.InternshipService, deps.FileStorage, maxUpload, lgr),
		Admin:       appControllers.NewAdminController(deps.StatsService, deps.HackathonService, deps.AlertService, deps.ExportService, lgr),
		Student:     appControllers.NewStudentController(deps.AlertService),
		Users:       appControllers.NewUserController(deps.UserService, lgr),
		Feed:        websocket.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, logger.Component("websocket")),
	}

	if cfg.Alerts.Enabled {
		deps.Scheduler, err = jobs.NewScheduler(deps.AlertService, cfg.Alerts.Schedule, logger.Component("jobs"))
		if err != nil {
			return nil, err
		}
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, database *db.PostgresDB, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware)

	if cfg.Storage.Driver == "local" {
		router.Static(cfg.Storage.PublicURL, cfg.Storage.LocalPath)
		lgr.Info().Str("path", cfg.Storage.LocalPath).Str("url", cfg.Storage.PublicURL).Msg("Static file serving configured for uploads")
	}

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "reachable"})
	})

	return router, nil
}
