package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset_gateway/internal/app/provider"
	"asset_gateway/internal/app/service"
	"asset_gateway/internal/domain/entity"
	"asset_gateway/internal/infrastructure/configloader"
	"asset_gateway/internal/infrastructure/metrics"
	clientprovider "asset_gateway/internal/infrastructure/network/client"
	networkdefinition "asset_gateway/internal/infrastructure/network/definition"
	"asset_gateway/internal/infrastructure/restapi"
	"asset_gateway/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Idle clients are forgotten by the inbound limiter after this long.
const limiterIdleExpiry = 10 * time.Minute

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = configloader.DefaultPath
	}
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	appLogger := logger.NewSlogAdapter(zapLogger)

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	registry, err := networkdefinition.NewNetworkDefinitionProvider(cfg, appLogger.With("component", "NetworkDefinitionProvider"))
	if err != nil {
		zapLogger.Fatal("Failed to build chain registry", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var evmChains []entity.ChainID
	for _, def := range registry.All() {
		if def.AssetQueries && def.Driver == entity.DriverEVM {
			evmChains = append(evmChains, def.ID)
		}
	}
	tokens, err := provider.NewTokenProvider(cfg, evmChains, appLogger.With("component", "TokenProvider"))
	if err != nil {
		zapLogger.Fatal("Failed to load token lists", zap.Error(err))
	}

	fastClient := clientprovider.NewFastHTTPClient(cfg.RpcClient)
	adapters, err := clientprovider.NewAdapterProvider(ctx, cfg, registry, tokens, fastClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize asset adapters", zap.Error(err))
	}
	defer adapters.Close()

	gateway := service.NewGatewayService(registry, adapters, appLogger.With("component", "GatewayService"), cfg)
	zapLogger.Info("GatewayService initialized", zap.Any("chains", gateway.SupportedChains()))

	proxy := clientprovider.NewProxyClient(registry, fastClient, clientprovider.OptionsFromConfig(cfg.RpcClient), zapLogger)

	var limiter *restapi.ClientRateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = restapi.NewClientRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, limiterIdleExpiry)
		zapLogger.Info("Inbound rate limiting enabled",
			zap.Float64("perSecond", cfg.Server.RateLimit), zap.Int("burst", cfg.Server.RateBurst))
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := restapi.SetupRouter(restapi.RouterDeps{
		Assets:  restapi.NewAssetHandler(gateway, registry, cfg, zapLogger),
		Proxy:   restapi.NewProxyHandler(proxy, zapLogger),
		Limiter: limiter,
		Logger:  zapLogger.Named("http"),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
