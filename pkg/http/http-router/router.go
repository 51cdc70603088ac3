package http_router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lintang-b-s/osm-wrangler/pkg/http/http-router/controllers"
	router_helper "github.com/lintang-b-s/osm-wrangler/pkg/http/http-router/router-helper"
	http_server "github.com/lintang-b-s/osm-wrangler/pkg/http/server"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

func (api *API) Handler(recordService controllers.RecordService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	group := router_helper.NewRouteGroup(router, "/api")

	recordRoutes := controllers.New(recordService, api.log)
	recordRoutes.Routes(group)

	return alice.New(corsHandler.Handler, EnforceJSONHandler, middleware.RealIP, middleware.RequestID,
		middleware.Heartbeat("/healthz"), Logger(api.log), middleware.Recoverer, Labels).Then(router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	recordService controllers.RecordService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(recordService), config)

	errC := make(chan error, 1)
	go func() {
		api.log.Info(fmt.Sprintf("API run on port %d", config.Port))
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	api.log.Info("shutting down API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errC; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
