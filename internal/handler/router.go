package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/middleware"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Accounts       *AccountHandler
	Users          *UserHandler
	Health         Pinger
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter registers every route on a gin engine and wraps it with CORS.
func NewRouter(cfg RouterConfig) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.LoggingMiddleware(cfg.Logger))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := cfg.Health.Ping(ctx); err != nil {
			cfg.Logger.Error("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	accounts := router.Group("/api/accounts")
	{
		accounts.POST("", cfg.Accounts.CreateAccount)
		accounts.GET("", cfg.Accounts.ListAllAccounts)
		accounts.GET("/:accountId", cfg.Accounts.GetAccount)
		accounts.GET("/number/:accountNumber", cfg.Accounts.GetAccountByNumber)
		accounts.GET("/number/:accountNumber/exists", cfg.Accounts.AccountNumberExists)
		accounts.GET("/user/:userId", cfg.Accounts.ListAccountsByUser)
		accounts.POST("/user/:userId", cfg.Accounts.CreateAccountForUser)
		accounts.PUT("/:accountId", cfg.Accounts.UpdateAccount)
		accounts.PATCH("/:accountId", cfg.Accounts.UpdateAccount)
		accounts.DELETE("/:accountId", cfg.Accounts.DeleteAccount)
	}

	users := router.Group("/api/users")
	{
		users.POST("", cfg.Users.CreateUser)
		users.GET("", cfg.Users.ListUsers)
		users.GET("/:userId", cfg.Users.GetUser)
		users.GET("/email/:email", cfg.Users.GetUserByEmail)
		users.GET("/role/:role", cfg.Users.ListUsersByRole)
		users.PUT("/:userId", cfg.Users.UpdateUser)
		users.PATCH("/:userId", cfg.Users.UpdateUser)
		users.DELETE("/:userId", cfg.Users.DeleteUser)
		users.POST("/:userId/login", cfg.Users.RecordLogin)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         3600,
	})(router)
}
