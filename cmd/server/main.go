// @title           ProjectHub API
// @version         1.0
// @description     Users and projects with author references kept consistent.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8000
// @BasePath  /
//
// Package main содержит точку входа серверного приложения projecthub.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера из файла ./configs/server.yaml;
//   - инициализацию подключения к базе данных и миграции;
//   - подключение Redis-кеша поиска (если включён);
//   - создание репозиториев, сервисов и HTTP-обработчиков;
//   - запуск сервера и корректное (graceful) завершение по сигналу.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/api"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/cache"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/config"
	h "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/repository"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/service"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-yandex-projecthub/swagger/docs"
)

const configPath = "./configs/server.yaml"

func main() {
	// до чтения конфига пишем в логгер по умолчанию
	sugar := logger.NewHTTPLogger().Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	path := configPath
	if p := os.Getenv("PROJECTHUB_CONFIG"); p != "" {
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		sugar.Fatal(err)
	}

	httpLogger := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer httpLogger.Sync()
	sugar = httpLogger.Logger.Sugar()

	// подключаем базу данных и накатываем миграции
	if err := config.Init(cfg.DB, cfg.Migrations, httpLogger); err != nil {
		sugar.Fatal(err)
	}
	db := config.GetDB()
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	// кеш поиска
	var searchCache service.SearchCache
	if cfg.Cache.Enabled {
		rdb, err := cache.NewRedisClient(context.Background(), cfg.Cache)
		if err != nil {
			sugar.Fatal(err)
		}
		defer rdb.Close()
		searchCache = cache.NewSearchCache(rdb, cfg.Cache.TTL)
		sugar.Infof("search cache enabled (%s, ttl %s)", cfg.Cache.Addr, cfg.Cache.TTL)
	}

	// создаём репы
	timeout := repository.WithQueryTimeout(cfg.DB.QueryTimeout)
	repos := service.Repositories{
		Tx:       repository.NewTransactor(db, timeout),
		Users:    repository.NewUsersRepository(db, timeout),
		Projects: repository.NewProjectsRepository(db, timeout),
		Health:   repository.NewHealthRepository(db, timeout),
	}
	svc := service.NewServices(repos, searchCache)
	handler := api.NewHandler(svc, httpLogger)
	router := h.NewRouter(handler, *cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infof("server started on %s (tls=%t)", addr, cfg.TLS.Enabled)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
