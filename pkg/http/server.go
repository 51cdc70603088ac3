package http

import (
	"context"

	"github.com/lintang-b-s/osm-wrangler/pkg/di/config"
	http_router "github.com/lintang-b-s/osm-wrangler/pkg/http/http-router"
	"github.com/lintang-b-s/osm-wrangler/pkg/http/http-router/controllers"
	http_server "github.com/lintang-b-s/osm-wrangler/pkg/http/server"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use starts the API in the background. Wait blocks until it stops.
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,
	cfg *config.Config,

	recordService controllers.RecordService,

) (*Server, error) {
	serverConfig := http_server.Config{
		Port:    cfg.API.Port,
		Timeout: cfg.API.Timeout,
	}

	server := http_router.NewAPI(log)

	s.g = &errgroup.Group{}

	s.g.Go(func() error {
		return server.Run(
			ctx, serverConfig, recordService,
		)
	})

	return s, nil
}

func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}
