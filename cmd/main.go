package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func newRouter(p *poolContext) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(gzip.Gzip(gzip.DefaultCompression))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "OPTIONS"}
	router.Use(cors.New(corsCfg))

	prom := ginprometheus.NewPrometheus("gin")

	// roundabout setup of /metrics endpoint to avoid double-gzip of response
	router.Use(prom.HandlerFunc())
	h := promhttp.InstrumentMetricHandler(prometheus.DefaultRegisterer, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true}))

	router.GET(prom.MetricsPath, func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	})

	router.GET("/favicon.ico", p.ignoreHandler)

	router.GET("/version", p.versionHandler)
	router.GET("/healthcheck", p.healthCheckHandler)

	router.GET("/json", p.authenticateHandler, p.jsonHandler)
	router.GET("/plain", p.authenticateHandler, p.plainHandler)

	if p.config.Service.Pprof == true {
		pprof.Register(router)
	}

	return router
}

/**
 * Main entry point for the web service
 */
func main() {
	// a local .env file is a development convenience; its absence is normal
	_ = godotenv.Load()

	boot, err := newLogger(os.Getenv(envPrefix + "LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %s\n", err.Error())
		os.Exit(1)
	}

	logger = boot

	logger.Info("===> gvi-pnx-ws starting up <===")

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("[CONFIG] exiting due to invalid configuration", zap.Error(err))
	}

	if cfg.Service.LogLevel != "" {
		if l, err := newLogger(cfg.Service.LogLevel); err == nil {
			logger = l
		}
	}

	defer logger.Sync() //nolint:errcheck

	tenants, err := newTenantStore(cfg.Service.TenantsFile, logger)
	if err != nil {
		logger.Fatal("[TENANTS] exiting due to unreadable tenants file", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tenants.watch(ctx); err != nil {
		logger.Warn("[TENANTS] live reload disabled", zap.Error(err))
	}

	pool, err := initializePool(cfg, tenants, prometheus.DefaultRegisterer, logger)
	if err != nil {
		logger.Fatal("[POOL] exiting due to initialization failure", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)

	router := newRouter(pool)

	portStr := fmt.Sprintf(":%s", cfg.Service.Port)
	logger.Info("Start service on " + portStr)

	if err := router.Run(portStr); err != nil {
		logger.Fatal("service stopped", zap.Error(err))
	}
}
