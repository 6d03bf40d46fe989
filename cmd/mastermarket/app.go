package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agamariel/mastermarket/internal/auth"
	"github.com/agamariel/mastermarket/internal/config"
	"github.com/agamariel/mastermarket/internal/handlers"
	"github.com/agamariel/mastermarket/internal/migrations"
	"github.com/agamariel/mastermarket/internal/services"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg    *config.Config
	dbPool *pgxpool.Pool
	echo   *echo.Echo
	log    *zap.Logger

	// Handlers
	userHandler     *handlers.UserHandler
	categoryHandler *handlers.CategoryHandler
	masterHandler   *handlers.MasterHandler
	catalogHandler  *handlers.CatalogHandler
	orderHandler    *handlers.OrderHandler
	reviewHandler   *handlers.ReviewHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{
		cfg: cfg,
		log: log,
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app.initDependencies()
	app.initServer()

	return app, nil
}

// initDatabase инициализирует подключение к базе данных и выполняет миграции.
func (app *App) initDatabase(ctx context.Context) error {
	if app.cfg.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}

	// Применение миграций
	app.log.Info("Running database migrations...")
	sqlDB, err := sql.Open("pgx", app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.log.Info("Migrations completed successfully")

	// Подключение к базе данных через pgxpool
	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.dbPool = dbPool
	app.log.Info("Successfully connected to database")

	return nil
}

// initDependencies инициализирует все зависимости приложения (storage, services, handlers).
func (app *App) initDependencies() {
	// Storage layer
	userStorage := storage.NewPostgresUserStorage(app.dbPool)
	categoryStorage := storage.NewPostgresCategoryStorage(app.dbPool)
	masterStorage := storage.NewPostgresMasterStorage(app.dbPool)
	serviceStorage := storage.NewPostgresServiceStorage(app.dbPool)
	orderStorage := storage.NewPostgresOrderStorage(app.dbPool)
	reviewStorage := storage.NewPostgresReviewStorage(app.dbPool)

	// Service layer
	userService := services.NewUserService(userStorage, app.cfg.JWTSecret, app.cfg.TokenExpiration)
	categoryService := services.NewCategoryService(categoryStorage)
	masterService := services.NewMasterService(masterStorage, userStorage, categoryStorage)
	catalogService := services.NewCatalogService(serviceStorage, masterStorage, categoryStorage)
	orderService := services.NewOrderService(app.dbPool, orderStorage, masterStorage, serviceStorage)
	ratingService := services.NewRatingService(masterStorage)
	reviewService := services.NewReviewService(app.dbPool, reviewStorage, orderStorage, masterStorage, ratingService)

	// Handler layer
	app.userHandler = handlers.NewUserHandler(userService)
	app.categoryHandler = handlers.NewCategoryHandler(categoryService)
	app.masterHandler = handlers.NewMasterHandler(masterService)
	app.catalogHandler = handlers.NewCatalogHandler(catalogService)
	app.orderHandler = handlers.NewOrderHandler(orderService)
	app.reviewHandler = handlers.NewReviewHandler(reviewService)
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	jwt := auth.JWTMiddleware(app.cfg.JWTSecret)

	// Аутентификация
	e.POST("/api/auth/register", app.userHandler.Register)
	e.POST("/api/auth/login", app.userHandler.Login)
	e.GET("/api/auth/me", app.userHandler.Me, jwt)

	// Категории
	e.GET("/api/categories", app.categoryHandler.ListCategories)
	e.POST("/api/categories", app.categoryHandler.CreateCategory, jwt)

	// Профили мастеров
	e.GET("/api/masters", app.masterHandler.ListMasters)
	e.GET("/api/masters/:id", app.masterHandler.GetMaster)
	e.POST("/api/masters", app.masterHandler.CreateProfile, jwt)
	e.PUT("/api/masters/:id", app.masterHandler.UpdateProfile, jwt)

	// Каталог услуг
	e.GET("/api/services", app.catalogHandler.ListServices)
	e.GET("/api/services/:id", app.catalogHandler.GetService)
	e.POST("/api/services", app.catalogHandler.CreateService, jwt)
	e.PUT("/api/services/:id", app.catalogHandler.UpdateService, jwt)
	e.DELETE("/api/services/:id", app.catalogHandler.DeactivateService, jwt)

	// Заказы
	orders := e.Group("/api/orders", jwt)
	orders.POST("", app.orderHandler.CreateOrder)
	orders.GET("", app.orderHandler.ListOrders)
	orders.GET("/:id", app.orderHandler.GetOrder)
	orders.PUT("/:id/status", app.orderHandler.UpdateStatus)
	orders.DELETE("/:id", app.orderHandler.CancelOrder)
	orders.GET("/master/:id/stats", app.orderHandler.MasterStats)

	// Отзывы
	e.GET("/api/reviews", app.reviewHandler.ListReviews)
	e.GET("/api/reviews/:id", app.reviewHandler.GetReview)
	e.GET("/api/reviews/master/:id/stats", app.reviewHandler.MasterStats)
	e.POST("/api/reviews", app.reviewHandler.CreateReview, jwt)
	e.PUT("/api/reviews/:id", app.reviewHandler.UpdateReview, jwt)
	e.DELETE("/api/reviews/:id", app.reviewHandler.DeleteReview, jwt)

	app.echo = e
}

// Start запускает приложение.
func (app *App) Start(ctx context.Context) error {
	app.log.Info("Starting server", zap.String("address", app.cfg.RunAddress))
	if err := app.echo.Start(app.cfg.RunAddress); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	app.log.Info("Shutting down server...")

	if err := app.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if app.dbPool != nil {
		app.dbPool.Close()
	}

	app.log.Info("Server gracefully stopped")
	return nil
}
