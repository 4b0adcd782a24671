package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/optbazar/storefront-api/internal/app"
	"github.com/optbazar/storefront-api/internal/aws"
	"github.com/optbazar/storefront-api/internal/config"
	"github.com/optbazar/storefront-api/internal/idempotency"
	"github.com/optbazar/storefront-api/internal/logger"
	"github.com/optbazar/storefront-api/internal/notify"
	"github.com/optbazar/storefront-api/internal/orders"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		logger.L().Fatal("invalid configuration", zap.Error(err))
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx := context.Background()

	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		logger.L().Fatal("failed to init aws clients", zap.Error(err))
	}

	cols, err := app.OpenCollections(ctx, cfg.Store, clients.DynamoDB)
	if err != nil {
		logger.L().Fatal("failed to open store", zap.Error(err))
	}
	defer cols.Close(context.Background())

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.L().Fatal("failed to init telegram bot", zap.Error(err))
	}
	logger.L().Info("telegram bot authorized", zap.String("username", bot.Self.UserName))

	processor := NewProcessor(
		orders.NewService(cols.Orders, nil),
		idempotency.NewStore(cols.Idempotency, idempotency.DefaultTTL),
		notify.NewTelegram(bot, cfg.TelegramChatID),
		aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace),
	)

	// RUN_LOCAL=true processes a single message from LOCAL_SQS_BODY and exits.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			logger.L().Fatal("LOCAL_SQS_BODY is required with RUN_LOCAL")
		}
		resp, _ := processor.Handle(ctx, events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: body}},
		})
		if len(resp.BatchItemFailures) > 0 {
			logger.L().Fatal("local message failed")
		}
		return
	}

	lambda.Start(processor.Handle)
}
