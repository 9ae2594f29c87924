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
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/finwell/riskplatform/internal/riskprofile/application"
	"github.com/finwell/riskplatform/internal/riskprofile/domain"
	profilemysql "github.com/finwell/riskplatform/internal/riskprofile/infrastructure/persistence/mysql"
	profileredis "github.com/finwell/riskplatform/internal/riskprofile/infrastructure/persistence/redis"
	profileconsumer "github.com/finwell/riskplatform/internal/riskprofile/interfaces/consumer"
	httpserver "github.com/finwell/riskplatform/internal/riskprofile/interfaces/http"
	"github.com/finwell/riskplatform/pkg/middleware"
	"github.com/finwell/riskplatform/pkg/ratelimit"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
)

var configPath = flag.String("config", "configs/riskprofile/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)

	// 4. 数据库
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(&profilemysql.ProfileModel{}, &profilemysql.ScoreModel{}, &outbox.Message{}); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)
	publisher := outbox.NewPublisher(outboxMgr)

	// 6. Redis
	// Redis 不可用时降级运行：读直连 MySQL，限流关闭
	redisCache, redisErr := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if redisErr != nil {
		slog.Error("failed to init redis, running without read cache", "error", redisErr)
	}

	// 7. 仓储
	profileRepo := profilemysql.NewProfileRepository(db.RawDB())
	var profileReadRepo domain.ProfileReadRepository
	if redisErr == nil {
		profileReadRepo = profileredis.NewProfileReadRepository(redisCache.GetClient())
	}

	// 8. 应用服务
	commandSvc := application.NewProfileCommandService(profileRepo, profileReadRepo, publisher, logger.Logger)
	querySvc := application.NewProfileQueryService(profileRepo, profileReadRepo, logger.Logger)
	reassessmentJob := application.NewReassessmentJob(profileRepo, publisher, logger.Logger)

	// 9. 消费者：评分引擎产出的评估完成事件
	assessmentHandler := profileconsumer.NewAssessmentHandler(commandSvc, logger.Logger)
	consumerCfg := cfg.MessageQueue.Kafka
	consumerCfg.Topic = domain.AssessmentCompletedEventType
	if consumerCfg.GroupID == "" {
		consumerCfg.GroupID = "riskprofile-assessment-group"
	}
	assessmentConsumer := kafka.NewConsumer(&consumerCfg, logger, metricsImpl)
	assessmentConsumer.Start(context.Background(), 3, assessmentHandler.Handle)

	// 10. 接口层
	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	var limiter ratelimit.RateLimiter
	if redisErr == nil {
		limiter = ratelimit.NewRedisRateLimiter(redisCache.GetClient())
	}
	r.Use(gin.Recovery(), middleware.GinLogging(), middleware.RateLimit(limiter, middleware.RateLimitConfig{
		Enabled: true,
		QPS:     100,
		Burst:   200,
	}))

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		sys.GET("/ready", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "READY"}) })
	}

	httpHandler := httpserver.NewProfileHandler(commandSvc, querySvc)
	httpHandler.RegisterRoutes(r.Group("/api"))

	// 11. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		reassessmentJob.Start(ctx)
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		return context.Canceled
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		slog.Error("server exited with error", "error", err)
	}
}
