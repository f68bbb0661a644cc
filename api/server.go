package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/booksearch/config"
	"github.com/meghashyamc/booksearch/db/kvdb"
	"github.com/meghashyamc/booksearch/logger"
	"github.com/meghashyamc/booksearch/services/history"
	"github.com/meghashyamc/booksearch/services/search"
	"github.com/meghashyamc/booksearch/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	kvdb           kvdb.DB
	searchService  *search.Service
	historyService *history.Service
	validator      *validation.Validator
	cfg            *config.Config
	logger         logger.Logger
}

// Run serves the HTTP API until ctx is cancelled or an interrupt is received.
func Run(ctx context.Context, cfg *config.Config, logger logger.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger,
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	s.setupRouter()

	return s.serve(ctx)
}

func (s *server) setupDependencies() error {
	var err error
	s.kvdb, err = kvdb.New(s.logger, s.cfg.GetKVDBPath())
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		s.kvdb.Close()
		return err
	}
	s.searchService = search.New(s.logger, search.Options{
		BaseDir:      s.cfg.GetBaseDir(),
		BatchPattern: s.cfg.GetBatchPattern(),
		DataFile:     s.cfg.GetDataFile(),
		MaxWorkers:   s.cfg.GetMaxWorkers(),
	})
	s.historyService = history.New(s.logger, s.kvdb)

	return nil

}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	setupRoutes(router, s.logger, s.searchService, s.historyService, s.validator, s.cfg.GetDefaultLimit())

	s.router = router
}

func (s *server) serve(ctx context.Context) error {

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr, "base_dir", s.cfg.GetBaseDir())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		s.kvdb.Close()
		if err != nil {
			s.logger.Error("http server stopped", "err", err.Error())
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	return s.shutdown()
}

func (s *server) shutdown() error {
	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err)
		s.kvdb.Close()
		return err
	}
	if err := s.kvdb.Close(); err != nil {
		s.logger.Error("error closing kvDB", "err", err)
		return err
	}
	s.logger.Info("shut down http server successfully")
	return nil
}
