package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stepanovd/tasktrack/internal/config"
	"github.com/stepanovd/tasktrack/internal/es"
	"github.com/stepanovd/tasktrack/internal/hash"
	"github.com/stepanovd/tasktrack/internal/httpserver"
	"github.com/stepanovd/tasktrack/internal/logging"
	mw "github.com/stepanovd/tasktrack/internal/middleware"
	"github.com/stepanovd/tasktrack/internal/mykafka"
	"github.com/stepanovd/tasktrack/internal/repo"
	"github.com/stepanovd/tasktrack/internal/service"
	"github.com/stepanovd/tasktrack/internal/tokens"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)

	db, err := configuration.InitDB()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	var producer *mykafka.Producer
	if configuration.KafkaAddress != "" {
		producer = mykafka.NewProducer(configuration.KafkaAddress, configuration.KafkaTopic)
	}

	r := repo.New(db)
	hasher := hash.New(configuration.BcryptCost)
	codec := tokens.NewCodec([]byte(configuration.JWTSecret), configuration.JWTTTL)

	authSvc := &service.AuthService{Repo: r, Hasher: hasher, Codec: codec, Producer: producer}
	sessionSvc := &service.SessionService{Repo: r, Producer: producer, Retention: configuration.SessionRetention}
	taskSvc := &service.TaskService{Repo: r, ESIndex: configuration.ESIndex}
	if configuration.ESURL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("es init: %v", err)
		}
		taskSvc.ES = esClient
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.NewErrorHandler()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: configuration.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(mw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		SessionHandler: &httpserver.SessionHTTP{Svc: sessionSvc},
		TaskHandler:    &httpserver.TaskHTTP{Svc: taskSvc},
		Auth:           mw.NewAuth(codec, r),
	}
	httpserver.Register(e, &deps)

	sweepCtx, stopSweeper := context.WithCancel(logging.IntoContext(context.Background(), logger))
	go sessionSvc.RunSweeper(sweepCtx, time.Hour)

	srv := &http.Server{
		Addr:         ":" + configuration.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
