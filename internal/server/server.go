package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gkf-project/gkf/backend/internal/queue"
	mid "github.com/gkf-project/gkf/backend/internal/server/middleware"
	"github.com/gkf-project/gkf/backend/internal/util"
	"github.com/gkf-project/gkf/backend/pkg/linking"
	"github.com/gkf-project/gkf/backend/pkg/logger"
	"github.com/gkf-project/gkf/backend/pkg/store"
	"github.com/gkf-project/gkf/backend/pkg/store/fuseki"

	"github.com/go-playground/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := linking.GetRegistry()
	for _, source := range linking.BuiltinSources() {
		registry.SetConfig(source, util.LinkerConfigFromEnv(source))
	}
	linkerClient := linking.NewEntityLinker(registry)

	var tripleStore store.TripleStore
	if baseURL := util.GetEnv("TRIPLESTORE_URL"); baseURL != "" {
		fusekiStore, err := fuseki.NewStore(fuseki.NewStoreParams{
			BaseURL: baseURL,
			Timeout: util.GetEnvSeconds("TRIPLESTORE_TIMEOUT_SECONDS", 30*time.Second),
		})
		if err != nil {
			logger.Fatal("Failed to create triple store client", "err", err)
		}
		if err := fusekiStore.Ping(ctx); err != nil {
			logger.Warn("Triple store not reachable at startup", "err", err)
		}
		tripleStore = fusekiStore
	} else {
		logger.Warn("TRIPLESTORE_URL not set, enrichment results will not be persisted")
	}

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}

	queues := []string{queue.LinkQueue}
	err = queue.SetupQueues(ch, queues)
	if err != nil {
		logger.Fatal("Failed to setup queues", "err", err)
	}

	e.Use(mid.AppContextMiddleware(ch, linkerClient, tripleStore))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
