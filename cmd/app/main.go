package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/trisuaso/beambin/internal/config"
	"github.com/trisuaso/beambin/internal/handler"
	"github.com/trisuaso/beambin/internal/identity"
	"github.com/trisuaso/beambin/internal/repository"
	"github.com/trisuaso/beambin/internal/repository/sqlstore"
	"github.com/trisuaso/beambin/internal/server"
	"github.com/trisuaso/beambin/internal/service"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()

	if err := loadEnv(); err != nil {
		logger.Sugar().Panicf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar().Panicf("failed to load app config: %s", err.Error())
	}

	dbConfig := config.DBConfig{
		Driver:     os.Getenv("DB_DRIVER"),
		Username:   os.Getenv("POSTGRES_USER"),
		Password:   os.Getenv("POSTGRES_PASSWORD"),
		Host:       os.Getenv("POSTGRES_HOST"),
		Port:       os.Getenv("POSTGRES_PORT"),
		DBName:     os.Getenv("POSTGRES_DATABASE"),
		SSLMode:    os.Getenv("POSTGRES_SSLMODE"),
		SQLitePath: os.Getenv("SQLITE_PATH"),
	}
	db, err := sqlstore.DB(ctx, dbConfig)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to database: %s", err.Error())
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Sugar().Panicf("failed to ping database: %s", err.Error())
	}
	logger.Info("Successfully connected to the database")

	redisOptions := &redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	}
	rdb := redis.NewClient(redisOptions)
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	repos := repository.New(db, rdb, cfg)
	if err := repos.SQL.Init(ctx); err != nil {
		logger.Sugar().Panicf("failed to create tables: %s", err.Error())
	}

	identityService := identity.New(cfg.IdentityOrigin, logger)
	services := service.New(logger, cfg, repos, identityService)
	handlers := handler.New(services, identityService, cfg)

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func() {
		if err := srv.Run(serverConfig); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	logger.Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
