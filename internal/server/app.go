// Package server initializes and runs the deposit backend. It opens the
// database, wires the services, handles graceful shutdown, and starts the
// HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Zahir-Seid/recycle-rewards-hub/internal/logging"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/config"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/httpapi"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/repositories/repomanager"
	"github.com/Zahir-Seid/recycle-rewards-hub/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	userService    *services.UserService
	sessionService *services.SessionService
	depositService *services.DepositService
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := repomanager.Open(context.Background(), c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()

	us := services.NewUserService(db, m, c)
	ss := services.NewSessionService(db, m, c)
	ds := services.NewDepositService(db, m)

	return &App{
		config:         c,
		logger:         logger,
		userService:    us,
		sessionService: ss,
		depositService: ds,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		app.userService, app.sessionService, app.depositService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
