package appServer

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/micdrop/openmic/config"
	repository "github.com/micdrop/openmic/internal/database/postgres"
	rediscache "github.com/micdrop/openmic/internal/database/redis"
	"github.com/micdrop/openmic/internal/service"
	"github.com/micdrop/openmic/internal/transport"
	"github.com/micdrop/openmic/internal/worker"
	"github.com/micdrop/openmic/pkg/auth"
	"github.com/micdrop/openmic/pkg/postgres"
	"github.com/micdrop/openmic/pkg/queue"
	"github.com/micdrop/openmic/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	eventRepo := repository.NewEventRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Redis backs both the read cache and the notification queue; the app
	// runs without either if the connection fails.
	var cacheRepo *rediscache.CacheRepository
	var redisQueue queue.Queue
	var taskPublisher service.TaskPublisher

	redisClient := redis.NewRedisClient(&cfg.Redis)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	pingErr := redisClient.Ping(pingCtx).Err()
	cancelPing()

	if pingErr != nil {
		logrus.Warnf("Redis unavailable, cache and queue disabled: %v", pingErr)
		redisClient.Close()
	} else {
		defer redisClient.Close()

		if cfg.Cache.Enabled {
			cacheRepo = rediscache.NewCacheRepository(redisClient, cfg.Cache.TTL)
			logrus.Info("Redis cache initialized")
		}
		if cfg.Queue.Enabled {
			rq, err := queue.NewRedisQueue(redisClient, cfg.Queue.Key)
			if err != nil {
				logrus.Errorf("Failed to initialize Redis queue: %v. Continuing without queue...", err)
			} else {
				redisQueue = rq
				taskPublisher = service.NewQueuePublisher(redisQueue)
				logrus.Info("Redis queue initialized")
			}
		}
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	policy := service.NewAccessPolicy()

	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, eventRepo, policy)
	venueService := service.NewVenueService(venueRepo, userRepo, cacheRepo, policy)
	eventService := service.NewEventService(eventRepo, venueRepo, cacheRepo, policy, taskPublisher)
	regService := service.NewRegistrationService(regRepo, eventRepo, cacheRepo, taskPublisher)
	reviewService := service.NewReviewService(reviewRepo, venueRepo, cacheRepo, policy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	statusWorker := worker.NewStatusWorker(eventService, cfg.Worker.ReconcileInterval, cfg.Worker.BatchSize)
	go statusWorker.Start(ctx)

	if redisQueue != nil {
		notificationWorker := worker.NewNotificationWorker(redisQueue, nil)
		go notificationWorker.Start(ctx)
	}

	handlers := &transport.Handlers{
		Auth:           transport.NewAuthHandler(authService),
		User:           transport.NewUserHandler(userService),
		Venue:          transport.NewVenueHandler(venueService, reviewService),
		Event:          transport.NewEventHandler(eventService, regService),
		Tokens:         tokens,
		AuthService:    authService,
		RequestTimeout: cfg.Server.Timeout,
	}

	if cfg.Server.Mode == "release" || cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(handlers)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

	if redisQueue != nil {
		if err := redisQueue.Close(); err != nil {
			logrus.Errorf("error occured on queue shutting down: %s", err.Error())
		}
	}
}
