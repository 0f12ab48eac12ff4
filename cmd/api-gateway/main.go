package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gvfbla/jobboard-api/internal/handler"
	"github.com/gvfbla/jobboard-api/internal/middleware"
	"github.com/gvfbla/jobboard-api/internal/models"
	"github.com/gvfbla/jobboard-api/internal/repository"
	"github.com/gvfbla/jobboard-api/internal/service"
	"github.com/gvfbla/jobboard-api/pkg/config"
	"github.com/gvfbla/jobboard-api/pkg/logger"
	corsmiddleware "github.com/gvfbla/jobboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gvfbla/jobboard-api/pkg/middleware/requestid"
	"github.com/gvfbla/jobboard-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	store, err := storage.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to open data directory", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	store.SetWriteObserver(metricsSvc.ObserveCollectionWrite)

	accountRepo, err := repository.NewAccountRepository(store)
	if err != nil {
		logr.Sugar().Fatalw("failed to load accounts", "error", err)
	}
	postingRepo, err := repository.NewPostingRepository(store)
	if err != nil {
		logr.Sugar().Fatalw("failed to load postings", "error", err)
	}
	applicationRepo, err := repository.NewApplicationRepository(store)
	if err != nil {
		logr.Sugar().Fatalw("failed to load applications", "error", err)
	}

	validate := validator.New()

	accountSvc := service.NewAccountService(accountRepo, validate, logr)
	authSvc := service.NewAuthService(accountRepo, cfg.JWT, validate, logr)
	postingSvc := service.NewPostingService(postingRepo, accountRepo, validate, logr)
	applicationSvc := service.NewApplicationService(applicationRepo, postingRepo, accountRepo, validate, logr)
	statsSvc := service.NewStatsService(postingRepo, applicationRepo, logr)
	exportSvc := service.NewExportService(postingRepo, applicationRepo, logr)

	if err := accountSvc.EnsureBootstrapAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email); err != nil {
		logr.Sugar().Fatalw("failed to ensure bootstrap admin", "error", err)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", handler.NewMetricsHandler(metricsSvc).Scrape)

	authHandler := handler.NewAuthHandler(authSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	postingHandler := handler.NewPostingHandler(postingSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	reportHandler := handler.NewReportHandler(exportSvc)

	api := r.Group(cfg.APIPrefix)

	// public surface
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register/student", accountHandler.RegisterStudent)
	api.POST("/auth/register/employer", accountHandler.RegisterEmployer)
	api.GET("/postings", postingHandler.Browse)
	api.GET("/postings/:id", postingHandler.Get)
	api.GET("/stats", statsHandler.BoardStats)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.GET("/auth/me", authHandler.Me)
	authed.PUT("/accounts/me/profile", accountHandler.UpdateProfile)
	authed.GET("/applications/mine", applicationHandler.Mine)
	authed.GET("/applications/:id", applicationHandler.Get)

	employer := authed.Group("", middleware.RequirePermission(models.PermPostJob))
	employer.POST("/postings", postingHandler.Submit)
	employer.GET("/postings/mine", postingHandler.Mine)

	authed.PUT("/postings/:id", middleware.RequirePermission(models.PermUpdateJob), postingHandler.Update)
	authed.DELETE("/postings/:id", middleware.RequirePermission(models.PermDeleteJob), postingHandler.Delete)

	student := authed.Group("", middleware.RequirePermission(models.PermApplyJob))
	student.POST("/postings/:id/applications", applicationHandler.Submit)

	reviewer := authed.Group("", middleware.RequirePermission(models.PermViewApplications))
	reviewer.GET("/postings/:id/applications", applicationHandler.ForPosting)
	reviewer.POST("/applications/:id/accept", applicationHandler.Accept)
	reviewer.POST("/applications/:id/reject", applicationHandler.Reject)

	admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/accounts", accountHandler.List)
	admin.POST("/accounts", accountHandler.CreateAdmin)
	admin.PATCH("/accounts/:username/active", accountHandler.SetActive)
	admin.GET("/postings", postingHandler.ListAll)
	admin.GET("/postings/pending", postingHandler.PendingReview)
	admin.POST("/postings/:id/approve", postingHandler.Approve)
	admin.POST("/postings/:id/reject", postingHandler.Reject)
	if cfg.Exports.Enabled {
		admin.GET("/reports/postings", reportHandler.Postings)
		admin.GET("/reports/applications", reportHandler.Applications)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "data_dir", cfg.Storage.DataDir)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
