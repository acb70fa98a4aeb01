package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"expensetrack.backend/internal/interfaces/http/handlers"
	"expensetrack.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	userHandler       *handlers.UserHandler
	apiKeyHandler     *handlers.ApiKeyHandler
	expenseHandler    *handlers.ExpenseHandler
	categoryHandler   *handlers.CategoryHandler
	companyHandler    *handlers.CompanyHandler
	auditHandler      *handlers.AuditHandler
	monitoringHandler *handlers.MonitoringHandler
	authMiddleware    gin.HandlerFunc
	apiKeyMiddleware  gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Api-Key, Content-Type, Idempotency-Key, X-Request-ID")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "expensetrack-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine, registry *prometheus.Registry) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (login and invitation-based register are public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/register", d.authHandler.Register)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
			auth.PUT("/me", d.authMiddleware, d.authHandler.ChangePassword)
		}

		// API key routes (protected)
		apiKeys := v1.Group("/apikeys")
		apiKeys.Use(d.authMiddleware)
		{
			apiKeys.POST("", middleware.IdempotencyMiddleware(), d.apiKeyHandler.Create)
			apiKeys.GET("", d.apiKeyHandler.List)
			apiKeys.DELETE("/:id", d.apiKeyHandler.Deactivate)
			apiKeys.POST("/:id/regenerate", middleware.IdempotencyMiddleware(), d.apiKeyHandler.Regenerate)
		}

		// Expense routes (protected)
		expenses := v1.Group("/expenses")
		expenses.Use(d.authMiddleware)
		{
			expenses.POST("", middleware.IdempotencyMiddleware(), d.expenseHandler.Create)
			expenses.GET("", d.expenseHandler.List)
			expenses.GET("/:id", d.expenseHandler.Get)
			expenses.PUT("/:id", d.expenseHandler.Update)
			expenses.DELETE("/:id", d.expenseHandler.Delete)
		}

		// Category routes (protected)
		categories := v1.Group("/categories")
		categories.Use(d.authMiddleware)
		{
			categories.POST("", middleware.IdempotencyMiddleware(), d.categoryHandler.Create)
			categories.GET("", d.categoryHandler.List)
			categories.GET("/:id", d.categoryHandler.Get)
			categories.PUT("/:id", d.categoryHandler.Update)
			categories.DELETE("/:id", d.categoryHandler.Delete)
		}

		// Read-only access for integrations via Api-Key header
		external := v1.Group("/external")
		external.Use(d.apiKeyMiddleware)
		{
			external.GET("/expenses", d.expenseHandler.ListByKey)
			external.GET("/categories", d.categoryHandler.ListByKey)
		}

		// User management (invite is open to any authenticated user)
		users := v1.Group("/users")
		users.Use(d.authMiddleware)
		{
			users.POST("/invite", d.userHandler.Invite)
			users.GET("", middleware.RequireAdmin(), d.userHandler.List)
			users.PUT("/:id/activate", middleware.RequireAdmin(), d.userHandler.Activate)
			users.PUT("/:id/deactivate", middleware.RequireAdmin(), d.userHandler.Deactivate)
		}

		// Company routes (admin only)
		companies := v1.Group("/companies")
		companies.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			companies.POST("", d.companyHandler.Create)
			companies.GET("", d.companyHandler.List)
			companies.GET("/:id", d.companyHandler.Get)
			companies.PUT("/:id", d.companyHandler.Update)
			companies.DELETE("/:id", d.companyHandler.Deactivate)
		}

		// Audit trail (admin only)
		audit := v1.Group("/audit")
		audit.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			audit.GET("", d.auditHandler.List)
		}

		// Monitoring (admin only)
		monitoring := v1.Group("/monitoring")
		monitoring.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			monitoring.GET("/metrics", d.monitoringHandler.Metrics)
			monitoring.GET("/cache", d.monitoringHandler.Cache)
		}
	}
}
