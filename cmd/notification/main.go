package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	gorm_mysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/finwell/riskplatform/internal/notification/application"
	"github.com/finwell/riskplatform/internal/notification/domain"
	notifmysql "github.com/finwell/riskplatform/internal/notification/infrastructure/persistence/mysql"
	"github.com/finwell/riskplatform/internal/notification/infrastructure/sender"
	notifconsumer "github.com/finwell/riskplatform/internal/notification/interfaces/consumer"
	httpserver "github.com/finwell/riskplatform/internal/notification/interfaces/http"
	riskdomain "github.com/finwell/riskplatform/internal/riskprofile/domain"
	"github.com/finwell/riskplatform/pkg/middleware"
	"github.com/finwell/riskplatform/pkg/mq"
	"github.com/wyfcoding/pkg/logging"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/notification/config.toml", "path to config file")
	flag.Parse()

	// 1. Config
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Sprintf("read config failed: %v", err))
	}

	// 2. Logger
	logger := logging.NewLogger("notification", "main", viper.GetString("log.level"))
	slog.SetDefault(logger.Logger)

	// 3. Database
	dsn := viper.GetString("database.source")
	db, err := gorm.Open(gorm_mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("connect db failed: %v", err))
	}
	if err := db.AutoMigrate(&domain.Notification{}); err != nil {
		panic(fmt.Sprintf("migrate db failed: %v", err))
	}

	// 4. Infrastructure
	repo := notifmysql.NewNotificationRepository(db)
	senders := map[domain.NotificationType]domain.Sender{
		domain.NotificationTypeInApp:   sender.NewLogSender(),
		domain.NotificationTypeWebhook: sender.NewWebhookSender(),
		domain.NotificationTypeEmail:   sender.NewLogSender(), // SMTP 通道未接入前走日志
	}

	// 5. Application
	commandSvc := application.NewNotificationCommandService(repo, senders, logger.Logger)
	querySvc := application.NewNotificationQueryService(repo)

	// 6. Kafka consumers
	kafkaCfg := mq.KafkaConfig{
		Brokers:        viper.GetStringSlice("kafka.brokers"),
		GroupID:        viper.GetString("kafka.group_id"),
		SessionTimeout: viper.GetInt("kafka.session_timeout"),
		MaxRetries:     viper.GetInt("kafka.max_retries"),
		RetryBackoff:   viper.GetInt("kafka.retry_backoff"),
	}
	if kafkaCfg.GroupID == "" {
		kafkaCfg.GroupID = "notification-risk-group"
	}
	dlqProducer := mq.NewProducer(kafkaCfg)
	dlq := mq.NewDeadLetterQueue(dlqProducer, "notification.dlq")

	handler := notifconsumer.NewRiskEventHandler(commandSvc, logger.Logger)
	topics := []string{
		riskdomain.ProfileOnboardedEventType,
		riskdomain.ReassessmentDueEventType,
		riskdomain.CategoryChangedEventType,
	}

	// 7. HTTP
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.GinLogging())

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		sys.GET("/ready", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "READY"}) })
	}

	httpHandler := httpserver.NewNotificationHandler(commandSvc, querySvc)
	httpHandler.RegisterRoutes(r.Group("/api"))

	// 8. Start
	g, ctx := errgroup.WithContext(context.Background())

	for _, topic := range topics {
		consumer := mq.NewConsumer(kafkaCfg, topic)
		g.Go(func() error {
			defer consumer.Close()
			return consumer.Run(ctx, handler.Handle, dlq)
		})
	}

	httpPort := viper.GetString("server.http_port")
	if httpPort == "" {
		httpPort = "8091"
	}
	g.Go(func() error {
		addr := fmt.Sprintf(":%s", httpPort)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 9. Graceful Shutdown
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		dlqProducer.Close()
		return context.Canceled
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		slog.Error("server exited with error", "error", err)
	}
}
