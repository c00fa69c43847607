package main

import (
	"time"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/handler"
	"github.com/aaraaapps/aaraa.app/middleware"
	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

// bucket is the object storage as used by uploads and reconciliation
type bucket interface {
	handler.ObjectStore
	service.ObjectLister
}

// app holds the long-lived dependencies shared by every route
type app struct {
	cfg           *config.Config
	store         service.Store
	database      handler.Pinger // nil on the memory store
	objects       bucket
	assistant     *service.Assistant
	notifications *service.NotificationCenter
	drafts        *service.WizardRegistry
	revoked       *middleware.Revocations
}

func newRouter(a *app) *gin.Engine {
	cfg := a.cfg

	authHandler := handler.NewAuthHandler(&cfg.Auth, a.store, a.revoked)
	healthHandler := handler.NewHealthHandler(a.objects.Bucket(), cfg.Server.Environment, a.database)
	uploadHandler := handler.NewUploadHandler(a.objects, &cfg.Upload)
	submissionHandler := handler.NewSubmissionHandler(service.NewSubmissionService(a.store))
	approvalHandler := handler.NewApprovalHandler(service.NewApprovalService(a.store, a.notifications))
	wizardHandler := handler.NewWizardHandler(a.drafts, a.store)
	projectHandler := handler.NewProjectHandler(a.store, a.store)
	assistantHandler := handler.NewAssistantHandler(a.assistant)
	notificationHandler := handler.NewNotificationHandler(a.notifications)
	adminHandler := handler.NewAdminHandler(service.NewReconciler(a.objects, a.store,
		time.Duration(cfg.Storage.OrphanGraceMinutes)*time.Minute))
	spaHandler := handler.NewSPAHandler(cfg.Server.StaticDir)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.CacheControl())
	router.Use(middleware.RateLimit(600, time.Minute))

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.POST("/auth/login", middleware.RateLimit(20, time.Minute), authHandler.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(&cfg.Auth, a.store, a.revoked))
	authed.Use(middleware.RateLimitBy(middleware.NewRateLimiter(300, time.Minute), middleware.ByEmployee))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/me", authHandler.Me)
		authed.GET("/menu", authHandler.Menu)

		authed.GET("/notifications", notificationHandler.List)
		authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		authed.POST("/notifications/:id/read", notificationHandler.MarkRead)

		authed.POST("/assistant/insight", middleware.RequireFeature(model.FeatureDashboard), assistantHandler.Insight)
		authed.POST("/assistant/chat", middleware.RequireFeature(model.FeatureDashboard), assistantHandler.Chat)
	}

	submissions := authed.Group("", middleware.RequireFeature(model.FeatureSubmissions))
	{
		submissions.POST("/upload", uploadHandler.Upload)
		submissions.GET("/submissions", submissionHandler.List)
		submissions.POST("/submissions", submissionHandler.Create)
	}

	approvals := authed.Group("/approvals", middleware.RequireFeature(model.FeatureApprovals))
	{
		approvals.GET("", approvalHandler.List)
		approvals.POST("/:id", approvalHandler.Decide)
	}

	authed.GET("/projects", middleware.RequireFeature(model.FeatureProjects), projectHandler.List)
	authed.GET("/employees", middleware.RequireFeature(model.FeatureTeam), projectHandler.Team)

	creation := authed.Group("", middleware.RequireFeature(model.FeatureProjectCreation))
	{
		creation.GET("/wizard/masters", wizardHandler.Masters)
		creation.POST("/wizard", wizardHandler.Start)
		creation.GET("/wizard/:id", wizardHandler.Get)
		creation.DELETE("/wizard/:id", wizardHandler.Discard)
		creation.PATCH("/wizard/:id/fields", wizardHandler.EditFields)
		creation.POST("/wizard/:id/continue", wizardHandler.Continue)
		creation.POST("/wizard/:id/back", wizardHandler.Back)
		creation.POST("/wizard/:id/boq", wizardHandler.AddItem)
		creation.POST("/wizard/:id/boq/new", wizardHandler.CreateItem)
		creation.DELETE("/wizard/:id/boq/:itemId", wizardHandler.RemoveItem)
		creation.POST("/wizard/:id/submit", wizardHandler.Submit)
		creation.POST("/boq/units", wizardHandler.CreateUnit)
	}

	admin := authed.Group("/admin", middleware.RequireFeature(model.FeatureReconciliation))
	{
		admin.GET("/orphans", adminHandler.Orphans)
		admin.DELETE("/orphans", adminHandler.Purge)
	}

	router.NoRoute(spaHandler.NoRoute)
	return router
}
