package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"loan-origination.backend/internal/domain/entities"
	"loan-origination.backend/internal/interfaces/http/handlers"
	"loan-origination.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "loan-origination-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	authHandler          *handlers.AuthHandler
	applicationHandler   *handlers.ApplicationHandler
	creditHandler        *handlers.CreditHandler
	creditProfileHandler *handlers.CreditProfileHandler
	authMiddleware       gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")

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
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	reviewers := middleware.RequireRole(entities.RoleApprovalExpert, entities.RoleBranchHO, entities.RoleSuperAdmin)

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		v1.GET("/dashboard", d.authMiddleware, d.applicationHandler.Dashboard)

		applications := v1.Group("/applications")
		applications.Use(d.authMiddleware)
		{
			applications.GET("", d.applicationHandler.ListApplications)
			applications.POST("",
				middleware.RequireRole(entities.RoleBranchOfficer, entities.RoleSuperAdmin),
				middleware.IdempotencyMiddleware(),
				d.applicationHandler.CreateApplication,
			)
			applications.GET("/:id", d.applicationHandler.GetApplication)
			applications.GET("/:id/history", d.applicationHandler.History)
			applications.POST("/:id/transitions", middleware.IdempotencyMiddleware(), d.applicationHandler.Transition)

			applications.POST("/:id/credit-check",
				middleware.RequireRole(entities.RoleBranchHO, entities.RoleSuperAdmin),
				middleware.IdempotencyMiddleware(),
				d.creditHandler.TriggerBureauCheck,
			)
			applications.POST("/:id/cic-check", reviewers, d.creditHandler.PerformCICCheck)
			applications.GET("/:id/cic-report", reviewers, d.creditHandler.GetCICReport)
		}

		v1.GET("/credit-profiles/:nationalId/score", d.authMiddleware, reviewers, d.creditHandler.GetScore)

		// CIC data ingestion
		admin := v1.Group("/admin/credit-profiles")
		admin.Use(d.authMiddleware, middleware.RequireSuperAdmin())
		{
			admin.POST("", d.creditProfileHandler.CreateProfile)
			admin.POST("/:nationalId/accounts", d.creditProfileHandler.AddAccount)
			admin.POST("/:nationalId/accounts/:accountId/payments", d.creditProfileHandler.AppendPayment)
			admin.POST("/:nationalId/assets", d.creditProfileHandler.AddAsset)
			admin.POST("/:nationalId/inquiries", d.creditProfileHandler.AddInquiry)
			admin.POST("/:nationalId/public-records", d.creditProfileHandler.AddPublicRecord)
		}
	}
}
