// Package httpapi exposes the deposit backend over HTTP. It maps the domain
// operations onto the /api endpoints and translates sentinel errors into
// status codes; all business rules live in the services layer.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/logging"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/services"
)

type Server struct {
	address   string
	logger    logging.Logger
	users     *services.UserService
	sessions  *services.SessionService
	deposits  *services.DepositService
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, us *services.UserService, ss *services.SessionService, ds *services.DepositService, secretKey string) *Server {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		sessions:  ss,
		deposits:  ds,
		jwtSecret: []byte(secretKey),
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
