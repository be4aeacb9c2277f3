package main

import (
	"context"
	"database/sql"
	stderrors "errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"robotapp-backend/config"
	"robotapp-backend/internal/api/admin"
	"robotapp-backend/internal/api/feedback"
	"robotapp-backend/internal/api/health"
	"robotapp-backend/internal/api/order"
	"robotapp-backend/internal/api/product"
	"robotapp-backend/internal/api/question"
	"robotapp-backend/internal/api/support"
	"robotapp-backend/internal/api/user"
	"robotapp-backend/internal/cache"
	"robotapp-backend/internal/common"
	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/middleware"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/repository/mongodb"
	"robotapp-backend/internal/repository/mysql"
	"robotapp-backend/internal/router"
	"robotapp-backend/internal/service"
	"robotapp-backend/internal/storage"
	"robotapp-backend/internal/telemetry"
	"robotapp-backend/internal/util"

	"github.com/getsentry/sentry-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const serviceName = "robotapp-backend"

type repositories struct {
	users     interfaces.UserRepository
	orders    interfaces.OrderRepository
	products  interfaces.ProductRepository
	tickets   interfaces.TicketRepository
	feedback  interfaces.FeedbackRepository
	questions interfaces.QuestionRepository
	ping      health.PingFunc
	close     func()
}

func main() {
	config.Init()

	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("starting application", zap.String("port", config.AppConfig.Port))

	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: config.AppConfig.SentryDSN, ServerName: serviceName}); err != nil {
			util.Logger.Error("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, serviceName, config.AppConfig.OTLPEndpoint)
	if err != nil {
		util.Logger.Fatal("failed to initialise tracing", zap.Error(err))
	}

	repos, err := openRepositories(ctx, config.AppConfig)
	if err != nil {
		util.Logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer repos.close()

	var productCache cache.Cache = cache.Noop{}
	var healthCache cache.Cache
	if config.AppConfig.RedisAddr != "" {
		redisCache := cache.NewRedisCache(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisDB)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			util.Logger.Warn("redis unreachable, catalog reads will hit the database", zap.Error(err))
		}
		productCache = redisCache
		healthCache = redisCache
	}

	files, err := storage.NewFromConfig(ctx, config.AppConfig)
	if err != nil {
		util.Logger.Fatal("failed to initialise file storage", zap.Error(err))
	}

	var notifier service.Notifier = service.NoopNotifier{}
	if config.AppConfig.SMTPEnabled() {
		notifier = service.NewEmailService(config.AppConfig)
	} else {
		util.Logger.Info("SMTP not configured, emails disabled")
	}

	userService := service.NewUserService(repos.users, notifier)
	orderService := service.NewOrderService(repos.orders, notifier)
	productService := service.NewProductService(repos.products, productCache, config.AppConfig.CacheTTL(), files)
	supportService := service.NewSupportService(repos.tickets, notifier)
	feedbackService := service.NewFeedbackService(repos.feedback)
	questionService := service.NewQuestionService(repos.questions)
	adminService := service.NewAdminService(repos.users)
	statsService := service.NewStatsService(repos.users, repos.orders, repos.products, repos.tickets, repos.feedback)

	if config.AppConfig.AdminEmail != "" && config.AppConfig.AdminPassword != "" {
		if err := userService.EnsureAdmin(ctx, config.AppConfig.AdminEmail, config.AppConfig.AdminPassword); err != nil {
			util.Logger.Error("failed to bootstrap admin account", zap.Error(err))
		}
	}

	analytics := errors.NewErrorAnalytics()
	limiter := middleware.NewRateLimiter(config.AppConfig.RateLimitRPS, config.AppConfig.RateLimitBurst)
	go limiter.Run(ctx, 5*time.Minute)

	uploadsDir := ""
	if config.AppConfig.StorageDriver == "local" {
		uploadsDir = config.AppConfig.LocalStoragePath
	}

	engine := router.New(router.Handlers{
		Auth:     user.NewAuthHandler(userService),
		Order:    order.NewOrderHandler(orderService),
		Product:  product.NewProductHandler(productService),
		Support:  support.NewSupportHandler(supportService),
		Feedback: feedback.NewFeedbackHandler(feedbackService),
		Question: question.NewQuestionHandler(questionService),
		Admin:    admin.NewAdminHandler(adminService, statsService, analytics),
		Health:   health.NewHealthHandler(config.AppConfig.DBDriver, repos.ping, healthCache),
	}, router.Options{
		ServiceName: serviceName,
		FrontendURL: config.AppConfig.FrontendURL,
		UploadsDir:  uploadsDir,
		RateLimiter: limiter,
		Analytics:   analytics,
		Tracing:     config.AppConfig.OTLPEndpoint != "",
	})

	srv := &http.Server{
		Addr:              ":" + config.AppConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		util.Logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			util.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	util.Logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		util.Logger.Warn("tracing shutdown failed", zap.Error(err))
	}
	util.Logger.Info("server exited")
}

// openRepositories connects to the database named by DB_DRIVER, retrying
// while it starts up, and builds every repository on top of it.
func openRepositories(ctx context.Context, cfg config.Config) (*repositories, error) {
	switch cfg.DBDriver {
	case "mysql":
		var db *sql.DB
		err := common.WithRetry(ctx, "connect mysql", 5, 2*time.Second, func(ctx context.Context) error {
			var err error
			db, err = mysql.Open(ctx, cfg.MySQLDSN)
			return err
		})
		if err != nil {
			return nil, err
		}
		if err := mysql.InitSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		util.Logger.Info("connected to mysql")
		return &repositories{
			users:     mysql.NewUserRepository(db),
			orders:    mysql.NewOrderRepository(db),
			products:  mysql.NewProductRepository(db),
			tickets:   mysql.NewTicketRepository(db),
			feedback:  mysql.NewFeedbackRepository(db),
			questions: mysql.NewQuestionRepository(db),
			ping:      db.PingContext,
			close:     func() { db.Close() },
		}, nil

	default:
		var client *mongo.Client
		err := common.WithRetry(ctx, "connect mongodb", 5, 2*time.Second, func(ctx context.Context) error {
			var err error
			client, err = mongodb.Connect(ctx, cfg.MongoURI)
			return err
		})
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			util.Logger.Warn("failed to ensure indexes", zap.Error(err))
		}
		util.Logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))
		return &repositories{
			users:     mongodb.NewUserRepository(db),
			orders:    mongodb.NewOrderRepository(db),
			products:  mongodb.NewProductRepository(db),
			tickets:   mongodb.NewTicketRepository(db),
			feedback:  mongodb.NewFeedbackRepository(db),
			questions: mongodb.NewQuestionRepository(db),
			ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					util.Logger.Warn("mongodb disconnect failed", zap.Error(err))
				}
			},
		}, nil
	}
}
