package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/trama-erp/trama-erp/internal/accounts"
	"github.com/trama-erp/trama-erp/internal/app"
	"github.com/trama-erp/trama-erp/internal/audit"
	"github.com/trama-erp/trama-erp/internal/auth"
	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/bulkimport"
	"github.com/trama-erp/trama-erp/internal/cnpj"
	"github.com/trama-erp/trama-erp/internal/dashboard"
	"github.com/trama-erp/trama-erp/internal/inventory"
	"github.com/trama-erp/trama-erp/internal/masterdata"
	"github.com/trama-erp/trama-erp/internal/observability"
	"github.com/trama-erp/trama-erp/internal/platform/cache"
	"github.com/trama-erp/trama-erp/internal/platform/db"
	"github.com/trama-erp/trama-erp/internal/procurement"
	"github.com/trama-erp/trama-erp/internal/shared"
	"github.com/trama-erp/trama-erp/internal/skus"
	"github.com/trama-erp/trama-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboards uncached", slog.Any("error", err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()
	auditLogger := audit.NewLogger(pool)
	idempotencyStore := shared.NewIdempotencyStore(pool)
	authzMiddleware := authz.Middleware{Logger: logger}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, cfg.JWTSecret, cfg.JWTTTL)
	authMiddleware := auth.Middleware{Logger: logger, Service: authService}
	authHandler := auth.NewHandler(logger, authService, authMiddleware, authzMiddleware, cfg.JWTTTL, cfg.IsProduction())

	masterdataRepo := masterdata.NewRepository(pool)
	masterdataService := masterdata.NewService(logger, masterdataRepo, auditLogger)

	skuRepo := skus.NewRepository(pool)
	skuService := skus.NewService(logger, skuRepo, auditLogger)

	importEngine := bulkimport.NewEngine(logger, metrics, bulkimport.Options{
		RowTimeout: cfg.ImportRowTimeout,
		RunTimeout: cfg.ImportRunTimeout,
		BatchSize:  cfg.ImportBatchSize,
		BatchPause: cfg.ImportBatchPause,
	})
	importHandler := bulkimport.NewHandler(logger, importEngine, authzMiddleware,
		masterdata.ColorImportTarget{Repo: masterdataRepo},
		masterdata.FamilyImportTarget{Repo: masterdataRepo},
		masterdata.SizeImportTarget{Repo: masterdataRepo},
		masterdata.WarehouseImportTarget{Repo: masterdataRepo},
		masterdata.SupplierImportTarget{Repo: masterdataRepo},
		masterdata.ClientImportTarget{Repo: masterdataRepo},
		skus.ImportTarget{Repo: skuRepo},
	)

	masterdataHandler := masterdata.NewHandler(logger, masterdataService, authzMiddleware, importHandler)
	skuHandler := skus.NewHandler(logger, skuService, authzMiddleware, importHandler)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(logger, inventoryRepo, auditLogger, inventory.ServiceConfig{AllowNegative: cfg.AllowNegativeStock})
	inventoryHandler := inventory.NewHandler(logger, inventoryService, authzMiddleware)

	procurementRepo := procurement.NewRepository(pool)
	procurementService := procurement.NewService(logger, procurementRepo, auditLogger, idempotencyStore, inventoryService)
	procurementHandler := procurement.NewHandler(logger, procurementService, authzMiddleware)

	dashboardRepo := dashboard.NewRepository(pool)
	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(logger, dashboardRepo, dashboardCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, authzMiddleware)

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(logger, accountsRepo, auditLogger)
	accountsHandler := accounts.NewHandler(logger, accountsService, authzMiddleware)

	auditHandler := audit.NewHandler(logger, auditLogger, authzMiddleware)
	cnpjHandler := cnpj.NewHandler(logger, authzMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthMiddleware:     authMiddleware,
		AuthHandler:        authHandler,
		MasterDataHandler:  masterdataHandler,
		SKUHandler:         skuHandler,
		InventoryHandler:   inventoryHandler,
		ProcurementHandler: procurementHandler,
		DashboardHandler:   dashboardHandler,
		AccountsHandler:    accountsHandler,
		AuditHandler:       auditHandler,
		CNPJHandler:        cnpjHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	// Import runs hold the response open past the usual write window.
	writeTimeout := cfg.AppWriteTimeout
	if floor := cfg.ImportRunTimeout + 30*time.Second; writeTimeout < floor {
		writeTimeout = floor
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
