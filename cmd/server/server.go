package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/tentcards/internal/clients/external"
	"github.com/KirkDiggler/tentcards/internal/clients/illustrator"
	"github.com/KirkDiggler/tentcards/internal/config"
	"github.com/KirkDiggler/tentcards/internal/handlers/api"
	"github.com/KirkDiggler/tentcards/internal/pkg/clock"
	"github.com/KirkDiggler/tentcards/internal/pkg/httpclient"
	"github.com/KirkDiggler/tentcards/internal/redis"
	"github.com/KirkDiggler/tentcards/internal/repositories/blobstore"
	"github.com/KirkDiggler/tentcards/internal/repositories/imagemap"
	"github.com/KirkDiggler/tentcards/internal/repositories/usage"
	"github.com/KirkDiggler/tentcards/internal/services/monsterimage"
	"github.com/KirkDiggler/tentcards/internal/services/monstersearch"
)

const healthService = "tentcards.Backend"

var (
	httpAddr string
	grpcPort int
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the tentcards backend",
	Long:  `Start the HTTP JSON API, the image blob route and the gRPC health service.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (env TENTCARDS_HTTP_ADDR)")
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC health port (env TENTCARDS_GRPC_PORT)")
}

// backend is every long-lived dependency of the server process
type backend struct {
	redis  redis.Client
	images imagemap.Repository
	blobs  blobstore.Repository
	usage  usage.Repository
	svc    monsterimage.Service
}

func (b *backend) Close() {
	if b.usage != nil {
		_ = b.usage.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func loadServerConfig() (*config.Server, error) {
	cfg, err := config.LoadServer()
	if err != nil {
		return nil, err
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if grpcPort != 0 {
		cfg.GRPCPort = grpcPort
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openBackend connects storage and builds the image service
func openBackend(ctx context.Context, cfg *config.Server) (*backend, error) {
	b := &backend{}

	redisClient, err := redis.NewClientFromURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	b.redis = redisClient

	b.images, err = imagemap.NewRedisRepository(&imagemap.RedisConfig{Client: redisClient, Key: cfg.ImageMapKey})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create image map: %w", err)
	}

	b.blobs, err = blobstore.NewFilesystem(&blobstore.FilesystemConfig{Root: cfg.BlobDir})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create blob store: %w", err)
	}

	b.usage, err = usage.NewSQLiteRepository(ctx, &usage.SQLiteConfig{Path: cfg.UsageDBPath, Clock: clock.New()})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}

	painter, err := newIllustrator(cfg)
	if err != nil {
		b.Close()
		return nil, err
	}

	b.svc, err = monsterimage.New(&monsterimage.Config{
		Images:          b.images,
		Blobs:           b.blobs,
		Illustrator:     painter,
		Limiter:         rate.NewLimiter(rate.Every(cfg.ProviderRateInterval), cfg.ProviderRateBurst),
		HTTPClient:      httpclient.New(monsterimage.DefaultDownloadTimeout),
		GenerateTimeout: cfg.GenerateTimeout,
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create monster image service: %w", err)
	}

	return b, nil
}

func newIllustrator(cfg *config.Server) (illustrator.Illustrator, error) {
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("No OpenAI API key configured, using placeholder artwork")
		return illustrator.NewPlaceholder(), nil
	}
	painter, err := illustrator.NewOpenAI(&illustrator.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Size:    cfg.OpenAISize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create illustrator: %w", err)
	}
	return painter, nil
}

func seedImages(ctx context.Context, svc monsterimage.Service, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var images map[string]string
	if err := json.Unmarshal(data, &images); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	_, err = svc.Seed(ctx, &monsterimage.SeedInput{Images: images})
	return err
}

func runServer(_ *cobra.Command, _ []string) error {
	cfg, err := loadServerConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.redis.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis is not reachable yet", "error", err)
	}
	if err := seedImages(ctx, b.svc, cfg.SeedFile); err != nil {
		return err
	}

	externalClient, err := external.New(&external.Config{BaseURL: cfg.Dnd5eBaseURL, CacheTTL: cfg.Dnd5eCacheTTL})
	if err != nil {
		return fmt.Errorf("failed to create external client: %w", err)
	}
	search, err := monstersearch.New(&monstersearch.Config{External: externalClient})
	if err != nil {
		return fmt.Errorf("failed to create monster search: %w", err)
	}

	handler, err := api.NewHandler(&api.HandlerConfig{
		Images: b.svc,
		Search: search,
		Usage:  b.usage,
		Blobs:  b.blobs,
		Checks: map[string]api.Pinger{
			"redis": func(ctx context.Context) error { return b.redis.Ping(ctx).Err() },
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	logger := grpcLogger(slog.Default())
	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logger),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logger),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcSrv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthService, grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcSrv)

	errChan := make(chan error, 2)
	go func() {
		slog.Info("gRPC health server starting", "port", cfg.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()
	go func() {
		slog.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal, gracefully stopping")
	case err := <-errChan:
		grpcSrv.Stop()
		_ = httpSrv.Close()
		return err
	}

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown did not complete", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-shutdownCtx.Done():
		slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
		grpcSrv.Stop()
	case <-stopped:
		slog.Info("Server stopped gracefully")
	}
	return nil
}
