package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/optbazar/storefront-api/internal/app"
	"github.com/optbazar/storefront-api/internal/auth"
	"github.com/optbazar/storefront-api/internal/aws"
	"github.com/optbazar/storefront-api/internal/catalog"
	"github.com/optbazar/storefront-api/internal/config"
	"github.com/optbazar/storefront-api/internal/handlers"
	"github.com/optbazar/storefront-api/internal/idempotency"
	"github.com/optbazar/storefront-api/internal/logger"
	"github.com/optbazar/storefront-api/internal/media"
	"github.com/optbazar/storefront-api/internal/middleware"
	"github.com/optbazar/storefront-api/internal/orders"
	"github.com/optbazar/storefront-api/internal/validation"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("invalid configuration", zap.Error(err))
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var clients *aws.AWSClients
	if cfg.Store.Backend == config.BackendDynamoDB || cfg.OrdersQueueURL != "" {
		clients, err = aws.NewAWSClients(ctx)
		if err != nil {
			logger.L().Fatal("failed to init aws clients", zap.Error(err))
		}
	}
	var dynamo aws.DynamoDBAPI
	if clients != nil {
		dynamo = clients.DynamoDB
	}

	cols, err := app.OpenCollections(ctx, cfg.Store, dynamo)
	if err != nil {
		logger.L().Fatal("failed to open store", zap.Error(err))
	}
	defer cols.Close(context.Background())

	catalogSvc := catalog.NewService(cols.Products)
	if cfg.SeedCatalog {
		if n, err := catalogSvc.SeedIfEmpty(ctx); err != nil {
			logger.L().Error("failed to seed catalog", zap.Error(err))
		} else if n > 0 {
			logger.L().Info("seeded catalog", zap.Int("products", n))
		}
	}

	var publisher orders.EventPublisher
	if cfg.OrdersQueueURL != "" {
		publisher = orders.NewQueuePublisher(aws.NewPublisher(clients.SQS, cfg.OrdersQueueURL))
	}

	s3Client, err := aws.NewStorageClient(ctx, aws.StorageConfig{
		Endpoint:        cfg.Storage.URL,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
	})
	if err != nil {
		logger.L().Fatal("failed to init storage client", zap.Error(err))
	}

	apiLimiter := middleware.NewRateLimiter(middleware.LimitGeneral, middleware.BurstGeneral)
	defer apiLimiter.Close()
	loginLimiter := middleware.NewRateLimiter(middleware.LimitStrict, middleware.BurstStrict)
	defer loginLimiter.Close()

	r := handlers.NewRouter(handlers.Deps{
		Catalog:       catalogSvc,
		Orders:        orders.NewService(cols.Orders, publisher),
		Idempotency:   idempotency.NewStore(cols.Idempotency, idempotency.DefaultTTL),
		Media:         media.NewService(media.NewS3Uploader(s3Client, cfg.Storage.Bucket, cfg.Storage.PublicURL)),
		Tokens:        auth.NewTokens(cfg.JWTSecret, auth.DefaultTTL),
		AdminPassword: cfg.AdminPassword,
		Validator:     validation.New(validation.Options{StrictTotals: cfg.StrictOrderTotals}),
		CORSOrigins:   cfg.CORSOrigins,
		APILimiter:    apiLimiter,
		LoginLimiter:  loginLimiter,
	})

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		adapter := ginadapter.New(r)
		lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return adapter.ProxyWithContext(ctx, req)
		})
		return
	}

	serve(r, ":"+cfg.Port)
}

func serve(handler http.Handler, addr string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.L().Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("shutdown error", zap.Error(err))
	}
	logger.L().Info("server stopped")
}
