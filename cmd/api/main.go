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

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"restaurant-api/internal/core/auth"
	"restaurant-api/internal/core/config"
	"restaurant-api/internal/core/database"
	"restaurant-api/internal/core/logger"
	"restaurant-api/internal/core/server"
	"restaurant-api/internal/domain"
	"restaurant-api/internal/repo"
	"restaurant-api/internal/service"
	"restaurant-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	log, cleanup := newLogger(cfg.Log)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)

	ctx := context.Background()
	restaurants, closeDB := mustOpenRepo(ctx, cfg, log)
	defer closeDB()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.JWT.Secret == "your-jwt-secret" {
		log.Warn("jwt secret is the built-in default, set APP_JWT_SECRET")
	}
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	svc := service.NewRestaurantService(restaurants, jwter, cfg.Auth.BcryptCost)

	r := router.NewAPIEngine(router.Deps{
		Log:          log,
		JWT:          jwter,
		Restaurants:  svc,
		MaxBodyBytes: int64(cfg.App.HTTP.MaxBodyMB) << 20,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("restaurant api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("restaurants", baseURL+"/restaurants"),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("restaurant api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("restaurant api stopped gracefully")
}

func newLogger(c config.Log) (*zap.Logger, func()) {
	opt := logger.Options{Level: c.Level, JSON: c.JSON}
	if c.File.Enable {
		opt.Rotate = &logger.Rotate{
			Filename:   c.File.Filename,
			MaxSizeMB:  c.File.MaxSizeMB,
			MaxBackups: c.File.MaxBackups,
			MaxAgeDays: c.File.MaxAgeDays,
			Compress:   c.File.Compress,
		}
	}
	return logger.New(opt)
}

// mustOpenRepo 按 db.driver 打开存储（失败直接 Fatal）
func mustOpenRepo(ctx context.Context, cfg *config.Config, l *zap.Logger) (domain.RestaurantRepository, func()) {
	switch cfg.DB.Driver {
	case "memory":
		l.Warn("using in-memory store, data is lost on restart")
		return repo.NewMemoryRestaurantRepo(), func() {}

	case "mongo":
		client, db, err := database.NewMongo(ctx, database.MongoOpts{
			URI:         cfg.DB.DSN,
			Database:    cfg.DB.Name,
			MaxPoolSize: cfg.DB.MaxOpenConns,
		})
		if err != nil {
			l.Fatal("db open", zap.Error(err))
		}
		r := repo.NewMongoRestaurantRepo(db)
		// 唯一约束依赖索引，始终确保
		if err := r.EnsureIndexes(ctx); err != nil {
			l.Fatal("ensure indexes", zap.Error(err))
		}
		return r, func() { _ = client.Disconnect(context.Background()) }

	default:
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
			Log:                l,
		})
		if err != nil {
			l.Fatal("db open", zap.Error(err))
		}
		r := repo.NewGormRestaurantRepo(db)
		if cfg.DB.AutoMigrate {
			if err := r.Migrate(); err != nil {
				l.Fatal("automigrate failed", zap.Error(err))
			}
			l.Info("automigrate done")
		}
		return r, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}
}
