package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	kratoslog "github.com/go-kratos/kratos/v2/log"

	"github.com/mahalakshmi2126/Newshub-Server/pkg/auth"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/config"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/database"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/kafka"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/lifecycle"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/middleware"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/redis"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/telemetry"
)

// Application assembles configuration, infrastructure and transports.
type Application struct {
	serviceName    string
	config         *config.Config
	logger         kratoslog.Logger
	originalLogger logger.Logger
	serverManager  *ServerManager
	lifecycle      *lifecycle.LifecycleManager

	mongoDB       *database.MongoDB
	postgreSQL    *database.PostgreSQL
	elasticSearch *database.ElasticSearch
	redisClient   *redis.RedisClient
	kafkaProducer *kafka.Producer

	authMiddleware    *middleware.AuthMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	otelMiddleware    *middleware.OTelMiddleware

	httpRouteRegister func(*gin.Engine)
}

// NewApplication loads configuration and connects all infrastructure.
func NewApplication(serviceName string) *Application {
	cfg, err := config.LoadConfig(serviceName)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.App.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	originalLogger := logger.GetLogger()

	kratosLogger := logger.NewKratosStdLogger(cfg.App.Name, cfg.App.Version)

	if err := telemetry.InitGlobal(telemetry.DefaultConfig(cfg.App.Name)); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}

	auth.Init(cfg.App.JWTSecret)

	lifecycleManager := lifecycle.NewLifecycleManager(kratosLogger)
	serverManager := NewServerManager(cfg, kratosLogger)

	authMiddleware := middleware.NewAuthMiddleware(kratosLogger)
	loggingMiddleware := middleware.NewLoggingMiddleware(kratosLogger)
	otelMiddleware := middleware.NewOTelMiddleware(cfg.App.Name, originalLogger)

	app := &Application{
		serviceName:       serviceName,
		config:            cfg,
		logger:            kratosLogger,
		originalLogger:    originalLogger,
		serverManager:     serverManager,
		lifecycle:         lifecycleManager,
		authMiddleware:    authMiddleware,
		loggingMiddleware: loggingMiddleware,
		otelMiddleware:    otelMiddleware,
	}

	app.initInfrastructure()

	return app
}

func (app *Application) initInfrastructure() {
	mongoDB, err := database.NewMongoDB(app.config.Database.MongoDB.URI, app.config.Database.MongoDB.DBName)
	if err != nil {
		app.logger.Log(kratoslog.LevelFatal, "msg", "Failed to connect to MongoDB", "error", err)
		panic(err)
	}
	app.mongoDB = mongoDB

	postgreSQL, err := database.NewPostgreSQL(app.config.Database.PostgreSQL.DSN, app.config.Database.PostgreSQL.DBName)
	if err != nil {
		app.logger.Log(kratoslog.LevelFatal, "msg", "Failed to connect to PostgreSQL", "error", err)
		panic(err)
	}
	app.postgreSQL = postgreSQL

	elasticSearch, err := database.NewElasticSearch(app.config.Search.Addresses, app.originalLogger)
	if err != nil {
		app.logger.Log(kratoslog.LevelFatal, "msg", "Failed to connect to ElasticSearch", "error", err)
		panic(err)
	}
	app.elasticSearch = elasticSearch

	app.redisClient = redis.NewRedisClient(app.config.Redis.Addr, app.config.Redis.Password, app.config.Redis.DB)

	kafkaProducer, err := kafka.InitProducer(app.config.Kafka.Brokers)
	if err != nil {
		app.logger.Log(kratoslog.LevelFatal, "msg", "Failed to connect to Kafka", "error", err)
		panic(err)
	}
	app.kafkaProducer = kafkaProducer
}

// EnableHTTP enables the HTTP server with the standard middleware chain.
func (app *Application) EnableHTTP() HTTPServer {
	httpServer := app.serverManager.EnableHTTP()

	httpServer.RegisterRoutes(func(engine *gin.Engine) {
		engine.Use(app.loggingMiddleware.GinLogging())
		engine.Use(middleware.Recovery(app.originalLogger))
		engine.Use(app.otelMiddleware.GinMiddleware())
		engine.Use(middleware.RateLimit(app.redisClient, 300, time.Minute))
		engine.Use(app.authMiddleware.GinAuth())
	})

	return httpServer
}

// RegisterHTTPRoutes defers route registration until Run.
func (app *Application) RegisterHTTPRoutes(registerFunc func(*gin.Engine)) {
	app.httpRouteRegister = registerFunc
}

// GetMongoDB returns the MongoDB connection.
func (app *Application) GetMongoDB() *database.MongoDB {
	return app.mongoDB
}

// GetRedisClient returns the redis client.
func (app *Application) GetRedisClient() *redis.RedisClient {
	return app.redisClient
}

// GetKafkaProducer returns the kafka producer.
func (app *Application) GetKafkaProducer() *kafka.Producer {
	return app.kafkaProducer
}

// GetPostgreSQL returns the PostgreSQL connection.
func (app *Application) GetPostgreSQL() *database.PostgreSQL {
	return app.postgreSQL
}

// GetElasticSearch returns the Elasticsearch connection.
func (app *Application) GetElasticSearch() *database.ElasticSearch {
	return app.elasticSearch
}

// GetLogger returns the structured logger.
func (app *Application) GetLogger() logger.Logger {
	return app.originalLogger
}

// GetKratosLogger returns the kratos logger.
func (app *Application) GetKratosLogger() kratoslog.Logger {
	return app.logger
}

// GetConfig returns the loaded configuration.
func (app *Application) GetConfig() *config.Config {
	return app.config
}

// GetAuthMiddleware returns the auth middleware.
func (app *Application) GetAuthMiddleware() *middleware.AuthMiddleware {
	return app.authMiddleware
}

// Run starts all lifecycle hooks and blocks until shutdown.
func (app *Application) Run() error {
	app.registerLifecycleHooks()

	if err := app.lifecycle.Start(); err != nil {
		return fmt.Errorf("failed to start lifecycle: %w", err)
	}

	app.lifecycle.Wait()

	return nil
}

func (app *Application) registerLifecycleHooks() {
	if app.httpRouteRegister != nil {
		app.serverManager.RegisterHTTPRoutes(app.httpRouteRegister)
	}

	app.lifecycle.AddHook(lifecycle.Hook{
		Name:     "servers",
		Priority: 100,
		OnStart: func(ctx context.Context) error {
			return app.serverManager.StartAll(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return app.serverManager.StopAll(ctx)
		},
	})

	app.lifecycle.AddHook(lifecycle.Hook{
		Name:     "telemetry",
		Priority: 250,
		OnStop: func(ctx context.Context) error {
			return telemetry.ShutdownGlobal(ctx)
		},
	})

	app.lifecycle.AddHook(lifecycle.Hook{
		Name:     "databases",
		Priority: 300,
		OnStop: func(ctx context.Context) error {
			if app.kafkaProducer != nil {
				if err := app.kafkaProducer.Close(); err != nil {
					app.logger.Log(kratoslog.LevelError, "msg", "Failed to close Kafka producer", "error", err)
				}
			}
			if app.redisClient != nil {
				if err := app.redisClient.Close(); err != nil {
					app.logger.Log(kratoslog.LevelError, "msg", "Failed to close Redis", "error", err)
				}
			}
			if app.mongoDB != nil {
				if err := app.mongoDB.Close(); err != nil {
					app.logger.Log(kratoslog.LevelError, "msg", "Failed to close MongoDB", "error", err)
				}
			}
			if app.postgreSQL != nil {
				if err := app.postgreSQL.Close(); err != nil {
					app.logger.Log(kratoslog.LevelError, "msg", "Failed to close PostgreSQL", "error", err)
				}
			}
			return nil
		},
	})
}
