package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/bdu-ccms/ccms-api/api/swagger"
	"github.com/bdu-ccms/ccms-api/internal/handler"
	"github.com/bdu-ccms/ccms-api/internal/middleware"
	"github.com/bdu-ccms/ccms-api/internal/models"
	"github.com/bdu-ccms/ccms-api/internal/repository"
	"github.com/bdu-ccms/ccms-api/internal/repository/memory"
	"github.com/bdu-ccms/ccms-api/internal/seed"
	"github.com/bdu-ccms/ccms-api/internal/service"
	"github.com/bdu-ccms/ccms-api/pkg/cache"
	"github.com/bdu-ccms/ccms-api/pkg/certificate"
	"github.com/bdu-ccms/ccms-api/pkg/config"
	"github.com/bdu-ccms/ccms-api/pkg/database"
	"github.com/bdu-ccms/ccms-api/pkg/logger"
	corsmiddleware "github.com/bdu-ccms/ccms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/bdu-ccms/ccms-api/pkg/middleware/requestid"
	"github.com/bdu-ccms/ccms-api/pkg/storage"
)

// @title CCMS API
// @version 1.0.0
// @description Campus clearance management service
// @BasePath /api/v1
// @schemes http

// The directory interfaces below are satisfied by both the sqlx repositories
// and the seed-backed memory stores, so the wiring after backend selection is
// a single path.

type studentDirectory interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentProfile, int, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error)
	FindByUsername(ctx context.Context, username string) (*models.StudentProfile, error)
	Count(ctx context.Context) (int, error)
}

type officialDirectory interface {
	List(ctx context.Context, filter models.OfficialFilter) ([]models.OfficialProfile, int, error)
	FindByID(ctx context.Context, id string) (*models.OfficialProfile, error)
	FindByUsername(ctx context.Context, username string) (*models.OfficialProfile, error)
	ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error)
	Create(ctx context.Context, official *models.OfficialProfile) error
	Update(ctx context.Context, official *models.OfficialProfile) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type adminDirectory interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type riskRegistry interface {
	List(ctx context.Context, filter models.RiskFilter) ([]models.RiskEntry, int, error)
	FindByID(ctx context.Context, id string) (*models.RiskEntry, error)
	FindActiveByStudentID(ctx context.Context, studentID string) ([]models.RiskEntry, error)
	HasActiveByStudentID(ctx context.Context, studentID string) (bool, error)
	Create(ctx context.Context, entry *models.RiskEntry) error
	Update(ctx context.Context, entry *models.RiskEntry) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int, error)
}

type auditTrail interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

type backends struct {
	students  studentDirectory
	officials officialDirectory
	admins    adminDirectory
	risks     riskRegistry
	audit     auditTrail
}

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, backend, err := selectBackend(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("no usable storage backend", "error", err)
	}

	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unreachable, dashboard summary will be uncached", zap.Error(err))
	} else {
		redisClient = client
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	certStore, err := storage.NewLocalStorage(cfg.Certificates.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare certificate storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Certificates.SignedURLSecret, cfg.Certificates.SignedURLTTL)

	validate := validator.New()
	decisions := memory.NewDecisionStore(cfg.Clearance.DecisionTTL)
	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(backend.students, backend.officials, backend.admins, backend.audit, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(backend.students, logr)
	riskSvc := service.NewRiskService(backend.risks, backend.students, backend.audit, logr)
	dashboardSvc := service.NewDashboardService(backend.officials, backend.students, backend.risks, cacheRepo, logr, cfg.Dashboard.CacheTTL)
	clearanceSvc := service.NewClearanceService(backend.students, backend.risks, decisions, service.DecisionFanout{metricsSvc, dashboardSvc}, logr, service.ClearanceConfig{
		CheckDelay: cfg.Clearance.CheckDelay,
	})
	certificateSvc := service.NewCertificateService(clearanceSvc, certificate.NewRenderer(""), certStore, signer, logr, service.CertificateConfig{
		APIPrefix: cfg.APIPrefix,
	})
	officialSvc := service.NewOfficialService(backend.officials, backend.audit, validate, logr, service.OfficialConfig{
		RequiredFields: cfg.Officials.RequiredFields,
	})
	exportSvc := service.NewExportService(backend.officials, backend.risks, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, riskSvc)
	clearanceHandler := handler.NewClearanceHandler(clearanceSvc)
	certificateHandler := handler.NewCertificateHandler(certificateSvc)
	riskHandler := handler.NewRiskHandler(riskSvc)
	officialHandler := handler.NewOfficialHandler(officialSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group(cfg.APIPrefix)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/certificates/download/:token", certificateHandler.Download)

	authed := v1.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.GET("/auth/me", authHandler.Me)

	staff := middleware.RequireRoles(models.RoleDepartmentOfficial, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	authed.GET("/students", staff, studentHandler.List)
	authed.GET("/students/eligible", staff, studentHandler.Eligible)
	authed.GET("/students/:studentId", middleware.RBAC(string(models.RoleDepartmentOfficial), string(models.RoleAdmin), "SELF"), studentHandler.Get)

	authed.POST("/clearance/requests", middleware.RequireRoles(models.RoleStudent), clearanceHandler.Submit)
	authed.GET("/clearance/decisions/:id/certificate", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), certificateHandler.Preview)
	authed.POST("/clearance/decisions/:id/certificate/save", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), certificateHandler.Save)

	authed.GET("/risks", staff, riskHandler.List)
	authed.POST("/risks", staff, riskHandler.Create)
	authed.GET("/risks/:id", staff, riskHandler.Get)
	authed.PUT("/risks/:id", staff, riskHandler.Update)
	authed.DELETE("/risks/:id", staff, riskHandler.Delete)

	authed.GET("/admin/officials", adminOnly, officialHandler.List)
	authed.POST("/admin/officials", adminOnly, officialHandler.Create)
	authed.GET("/admin/officials/:id", adminOnly, officialHandler.Get)
	authed.PUT("/admin/officials/:id", adminOnly, officialHandler.Update)
	authed.DELETE("/admin/officials/:id", adminOnly, officialHandler.Delete)
	authed.GET("/admin/export/:resource", adminOnly, exportHandler.Export)

	authed.GET("/dashboard/summary", staff, dashboardHandler.Summary)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "backend", backendName(db))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// selectBackend connects to postgres, falling back to seed-backed memory
// stores when the database is unreachable and fallback is enabled.
func selectBackend(cfg *config.Config, logr *zap.Logger) (*sqlx.DB, *backends, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err == nil {
		return db, &backends{
			students:  repository.NewStudentRepository(db),
			officials: repository.NewOfficialRepository(db),
			admins:    repository.NewAdminRepository(db),
			risks:     repository.NewRiskRepository(db),
			audit:     repository.NewAuditRepository(db),
		}, nil
	}

	if !cfg.Seed.Fallback {
		return nil, nil, err
	}

	logr.Warn("database unreachable, serving from bundled seed data", zap.Error(err))
	data, loadErr := seed.Load()
	if loadErr != nil {
		return nil, nil, loadErr
	}
	return nil, &backends{
		students:  memory.NewStudentStore(data.Students),
		officials: memory.NewOfficialStore(data.Officials),
		admins:    memory.NewAdminStore(data.Admins),
		risks:     memory.NewRiskStore(data.Risks),
		audit:     memory.NewAuditStore(),
	}, nil
}

func backendName(db *sqlx.DB) string {
	if db != nil {
		return "postgres"
	}
	return "seed"
}
