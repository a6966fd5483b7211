package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openblog/blog-api/internal/api/handler"
	"github.com/openblog/blog-api/internal/api/middleware"
	"github.com/openblog/blog-api/internal/core/domain"
	"github.com/openblog/blog-api/internal/core/ports"
	"github.com/openblog/blog-api/internal/core/service"
	mongodb "github.com/openblog/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/openblog/blog-api/internal/infrastructure/db/redis"
)

// Deps carries the process-wide singletons the router wires into the rest of
// the application. Everything is constructed exactly once, here.
type Deps struct {
	Mongo          *mongo.Database
	Redis          *redis.Client
	Storage        ports.FileStore
	JWTSecret      string
	TokenTTL       time.Duration
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// NewRouter builds the Echo instance with every route registered. Role
// requirements are declared per route, right here; ownership checks run
// inside the services after the target resource is loaded.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("blog"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(d.Mongo)
	postRepo := mongodb.NewPostRepository(d.Mongo)
	postCache := redisdb.NewPostCache(d.Redis)

	tokens := service.NewJWTTokenService(d.JWTSecret, d.TokenTTL)
	users := service.NewUserService(userRepo, tokens, d.Logger)
	posts := service.NewPostService(postRepo, postCache, d.Logger)

	userHandler := handler.NewUserHandler(users)
	postHandler := handler.NewPostHandler(posts)
	pictureHandler := handler.NewProfilePictureHandler(d.Storage, d.MaxUploadBytes)
	healthHandler := handler.NewHealthHandler(d.Mongo, d.Redis)

	auth := middleware.Auth(tokens)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- User routes ---
	e.GET("/users/:id", userHandler.Get)
	e.POST("/users/signup", userHandler.SignUp)
	e.POST("/users/signin", userHandler.SignIn)
	e.POST("/users/signup/admin", userHandler.CreateAdmin, auth, adminOnly)
	e.PUT("/users/:id", userHandler.Update, auth)
	e.DELETE("/users/:id", userHandler.Delete, auth)
	e.POST("/users/profile-picture", pictureHandler.Upload, auth)
	e.GET("/users/profile-picture", pictureHandler.Download, auth)

	// --- Post routes ---
	e.GET("/posts/:id", postHandler.Get)
	e.POST("/posts", postHandler.Create, auth)
	e.PUT("/posts/:id", postHandler.Update, auth)
	e.DELETE("/posts/:id", postHandler.Delete, auth)

	// --- Operational routes ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
