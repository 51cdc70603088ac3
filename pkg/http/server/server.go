package http_server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

const timeoutBody = `{"error":{"code":"TIMEOUT","message":"request timed out"}}`

type Config struct {
	Port    int
	Timeout time.Duration
}

// New builds a server whose request contexts derive from ctx. a zero Timeout disables the per request deadline.
func New(ctx context.Context, handler http.Handler, config Config) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	if config.Timeout > 0 {
		srv.Handler = http.TimeoutHandler(handler, config.Timeout, timeoutBody)
		srv.ReadTimeout = config.Timeout
		srv.WriteTimeout = config.Timeout + time.Second
		srv.IdleTimeout = 2 * config.Timeout
	}
	return srv
}
