package procedure

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Sh00ty/leader-geo/internal/models"
)

type GeoResolver interface {
	Resolve(ctx context.Context) (models.ResolutionResult, error)
}

func NewServer(resolver GeoResolver) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		resolver: resolver,
		router:   router,
	}
	router.POST("/", srv.handleRPC)
	router.GET("/healthz", probe)
	router.GET("/ready", probe)
	return srv
}

type Server struct {
	resolver GeoResolver
	router   *gin.Engine
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := http.Server{
		Handler:           s.router,
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("serving procedure on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}
	err = <-errCh
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func probe(c *gin.Context) {
	c.Status(http.StatusOK)
}
