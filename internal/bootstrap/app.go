package bootstrap

import (
	"context"
	"fmt"

	"github.com/ZertGraf/scrumboard/internal/api"
	"github.com/ZertGraf/scrumboard/internal/api/handler"
	"github.com/ZertGraf/scrumboard/internal/api/middleware"
	"github.com/ZertGraf/scrumboard/internal/pkg/config"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/pkg/postgres"
	"github.com/ZertGraf/scrumboard/internal/repository"
	"github.com/ZertGraf/scrumboard/internal/service"
	"github.com/ZertGraf/scrumboard/internal/session"
)

type Application struct {
	Config   *config.Config
	Logger   *logger.Logger
	Postgres *postgres.Connection
	Migrator *postgres.Migrator

	Sessions *session.Store

	UserRepo  repository.UserRepository
	ScrumRepo repository.ScrumRepository
	TaskRepo  repository.TaskRepository

	AuthService  *service.AuthService
	UserService  *service.UserService
	ScrumService *service.ScrumService
	TaskService  *service.TaskService

	AuthHandler  *handler.AuthHandler
	UserHandler  *handler.UserHandler
	ScrumHandler *handler.ScrumHandler
	TaskHandler  *handler.TaskHandler

	HTTPServer *api.HTTPServer
}

func New() (*Application, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: cfg.LogAddSource,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	pg, err := postgres.New(log, &postgres.Config{
		Host:              cfg.DatabaseHost,
		Port:              cfg.DatabasePort,
		Username:          cfg.DatabaseUser,
		Password:          cfg.DatabasePassword,
		Database:          cfg.DatabaseName,
		Schema:            cfg.DatabaseSchema,
		SSLMode:           cfg.DatabaseSSLMode,
		MaxConns:          cfg.DatabaseMaxConns,
		MinConns:          cfg.DatabaseMinConns,
		MaxConnLifetime:   cfg.DatabaseMaxConnLifetime,
		MaxConnIdleTime:   cfg.DatabaseMaxConnIdleTime,
		HealthCheckPeriod: cfg.DatabaseHealthCheckPeriod,
		ConnectTimeout:    cfg.DatabaseConnectTimeout,
		AcquireTimeout:    cfg.DatabaseAcquireTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connection: %w", err)
	}

	return &Application{
		Config:   cfg,
		Logger:   log,
		Postgres: pg,
	}, nil
}

func (app *Application) Init(ctx context.Context) error {
	app.Logger.Info("initializing application")

	if err := app.Postgres.Connect(ctx); err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}

	app.Migrator = postgres.NewMigrator(app.Postgres.Pool(), &postgres.MigrationConfig{
		Timeout:   app.Config.DatabaseMigrationTimeout,
		TableName: app.Config.DatabaseMigrationTable,
		Enabled:   app.Config.DatabaseMigrationEnabled,
	}, app.Logger)

	if err := app.Migrator.RunMigrations(ctx); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}

	app.Sessions = session.NewStore(app.Config.SessionTTL)

	app.UserRepo = repository.NewUserRepo(app.Postgres.Pool(), app.Logger)
	app.ScrumRepo = repository.NewScrumRepo(app.Postgres.Pool(), app.Logger)
	app.TaskRepo = repository.NewTaskRepo(app.Postgres.Pool(), app.Logger)

	app.AuthService = service.NewAuthService(app.UserRepo, app.Sessions, app.Logger, app.Config.BcryptCost)
	app.UserService = service.NewUserService(app.UserRepo, app.Logger, app.Config.BcryptCost)
	app.ScrumService = service.NewScrumService(app.ScrumRepo, app.TaskRepo, app.UserRepo, app.Logger)
	app.TaskService = service.NewTaskService(app.TaskRepo, app.ScrumRepo, app.UserRepo, app.Logger)

	if err := app.UserService.EnsureSeedAdmin(ctx,
		app.Config.SeedAdminName,
		app.Config.SeedAdminEmail,
		app.Config.SeedAdminPassword,
	); err != nil {
		return fmt.Errorf("seed admin failed: %w", err)
	}

	admin := middleware.RequireAdmin(app.Logger)

	app.AuthHandler = handler.NewAuthHandler(app.AuthService, app.Logger)
	app.UserHandler = handler.NewUserHandler(app.UserService, app.Logger)
	app.ScrumHandler = handler.NewScrumHandler(app.ScrumService, admin, app.Logger)
	app.TaskHandler = handler.NewTaskHandler(app.TaskService, admin, app.Logger)

	serverConfig := &api.ServerConfig{
		Host:         app.Config.ServerHost,
		Port:         app.Config.ServerPort,
		ReadTimeout:  app.Config.ServerReadTimeout,
		WriteTimeout: app.Config.ServerWriteTimeout,
		IdleTimeout:  app.Config.ServerIdleTimeout,
	}

	app.HTTPServer = api.NewHTTPServer(
		serverConfig,
		app.Sessions,
		app.AuthHandler,
		app.UserHandler,
		app.ScrumHandler,
		app.TaskHandler,
		app.Logger,
	)

	if err := app.HTTPServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start http server: %w", err)
	}

	app.Logger.Info("application initialized successfully")
	return nil
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("shutting down application")

	if app.HTTPServer != nil {
		if err := app.HTTPServer.Stop(ctx); err != nil {
			app.Logger.Error("error stopping http server", "error", err)
		}
	}

	app.Postgres.Close()

	app.Logger.Info("application shutdown completed")
	return nil
}

func (app *Application) Health(ctx context.Context) error {
	if err := app.Postgres.Health(ctx); err != nil {
		return fmt.Errorf("postgres health check failed: %w", err)
	}
	if err := app.Migrator.Health(ctx); err != nil {
		return fmt.Errorf("migrator health check failed: %w", err)
	}
	return nil
}
