package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/puneethvarma-001/worksense-sub000/internal/auth"
	"github.com/puneethvarma-001/worksense-sub000/internal/cache"
	"github.com/puneethvarma-001/worksense-sub000/internal/config"
	"github.com/puneethvarma-001/worksense-sub000/internal/features"
	"github.com/puneethvarma-001/worksense-sub000/internal/handlers"
	"github.com/puneethvarma-001/worksense-sub000/internal/logger"
	"github.com/puneethvarma-001/worksense-sub000/internal/middleware"
	"github.com/puneethvarma-001/worksense-sub000/internal/rbac"
	"github.com/puneethvarma-001/worksense-sub000/internal/tenant"
)

func main() {
	cfg := config.Load()
	logger.Setup(&cfg.Log)

	log.Info().Msg("starting WorkSense API")

	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	// Redis fronts the tenant directory and stores feature overrides. It
	// is best-effort: without it the API still serves every request from
	// the authoritative store and static flag defaults.
	var redisClient *cache.Client
	rc, err := cache.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		redisClient = rc
		defer redisClient.Close()
	}

	store, err := tenant.NewStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tenant store")
	}

	// Interfaces are satisfied by *cache.Client; a nil client must stay a
	// nil interface value so the consumers skip the cache path.
	var dirCache tenant.Cache
	var overrideStore features.OverrideStore
	if redisClient != nil {
		dirCache = redisClient
		overrideStore = redisClient
	}

	directory := tenant.NewDirectory(store, dirCache, cfg.Directory.CacheTTL)

	flagService, err := features.NewService(overrideStore, cfg.Features.OverrideTTL, cfg.Features.DeploymentOverrides)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feature flag service")
	}
	defer flagService.Close()

	users := auth.NewUserDirectory(tenant.SeedTenants())
	resolver := auth.ChainResolver{
		auth.NewJWTResolver(cfg),
		auth.NewDemoResolver(users),
	}

	table := newAccessTable()

	router := setupRouter(cfg, directory, resolver, table, flagService, users)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("API exited")
}

// newAccessTable seeds the route protection rules. The table is an ordered
// scan: narrower matchers are registered before broader ones. Entries with
// no roles or permissions require authentication and nothing more.
func newAccessTable() *rbac.AccessTable {
	table := rbac.NewAccessTable()

	table.Register(rbac.RouteAccessControl{Matcher: "/api/v1/auth/me"})

	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/payroll/run",
		Permissions: []rbac.Permission{rbac.PermManagePayroll},
		Mode:        rbac.ModeAll,
	})
	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/payroll/*",
		Permissions: []rbac.Permission{rbac.PermManagePayroll, rbac.PermViewPayslips},
		Mode:        rbac.ModeAny,
	})

	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/leave/approvals",
		Permissions: []rbac.Permission{rbac.PermApproveLeave},
		Mode:        rbac.ModeAll,
	})
	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/leave/*",
		Permissions: []rbac.Permission{rbac.PermApplyLeave, rbac.PermApproveLeave},
		Mode:        rbac.ModeAny,
	})

	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/employees/*",
		Permissions: []rbac.Permission{rbac.PermViewEmployees, rbac.PermManageEmployees},
		Mode:        rbac.ModeAny,
	})
	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/attendance/*",
		Permissions: []rbac.Permission{rbac.PermViewAttendance},
		Mode:        rbac.ModeAll,
	})
	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/recruitment/*",
		Permissions: []rbac.Permission{rbac.PermManageRecruitment, rbac.PermViewCandidates},
		Mode:        rbac.ModeAny,
	})

	table.Register(rbac.RouteAccessControl{
		Matcher:     "/api/v1/settings/*",
		Roles:       []rbac.Role{rbac.RolePlatformAdmin},
		Permissions: []rbac.Permission{rbac.PermManageTenantSettings},
		Mode:        rbac.ModeAll,
	})

	table.Register(rbac.RouteAccessControl{Matcher: "/api/v1/features/*"})

	return table
}

func setupRouter(
	cfg *config.Config,
	directory *tenant.Directory,
	resolver auth.Resolver,
	table *rbac.AccessTable,
	flagService *features.Service,
	users *auth.UserDirectory,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authHandler := handlers.NewAuthHandler(users, cfg)
	tenantHandler := handlers.NewTenantHandler(directory, flagService)
	featureHandler := handlers.NewFeatureHandler(flagService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "worksense-api"})
	})

	// Organization signup arrives from the marketing site, before any
	// tenant exists to resolve.
	router.POST("/api/v1/tenants", tenantHandler.Create)

	api := router.Group("/api/v1")
	api.Use(middleware.TenantContext(directory, resolver, &cfg.Domain))
	api.Use(middleware.AccessControl(table))
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", authHandler.Me)

		api.GET("/config", tenantHandler.GetConfig)
		api.PUT("/settings/tenant", tenantHandler.Update)

		api.GET("/features", featureHandler.List)
		api.GET("/features/:flag", featureHandler.GetConfig)
		api.PUT("/features/:flag",
			middleware.RequirePermission(rbac.PermManageFeatureFlags),
			featureHandler.SetOverride)

		// HR resources are thin demo stubs; the design content is the
		// gate in front of them.
		employees := api.Group("/employees")
		{
			employees.GET("", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "list employees"})
			})
			employees.POST("", middleware.RequirePermission(rbac.PermManageEmployees), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "create employee"})
			})
		}

		leave := api.Group("/leave")
		{
			leave.GET("/requests", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "list leave requests"})
			})
			leave.POST("/requests", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "apply for leave"})
			})
			leave.GET("/approvals", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "list pending approvals"})
			})
		}

		payroll := api.Group("/payroll")
		payroll.Use(middleware.RequireFeature(flagService, features.FlagPayrollAutomation))
		{
			payroll.GET("/payslips", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "list payslips"})
			})
			payroll.POST("/run", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "run payroll"})
			})
		}

		attendance := api.Group("/attendance")
		{
			attendance.GET("", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "attendance overview"})
			})
		}

		recruitment := api.Group("/recruitment")
		recruitment.Use(middleware.RequireFeature(flagService, features.FlagRecruitmentModule))
		{
			recruitment.GET("/candidates", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "list candidates"})
			})
			recruitment.POST("/jobs", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "create job posting"})
			})
		}
	}

	return router
}
