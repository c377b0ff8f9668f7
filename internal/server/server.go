// Package server exposes the TendATree REST API over gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tendatree/internal/scheduler"
	"tendatree/internal/service"
)

// Server wires the HTTP surface to the underlying services.
type Server struct {
	accounts *service.AccountService
	trees    *service.TreeService
	params   *service.ParamsService
	sched    *scheduler.Scheduler

	httpSrv *http.Server
}

// New creates a Server listening on addr.
func New(addr string, accounts *service.AccountService, trees *service.TreeService, params *service.ParamsService, sched *scheduler.Scheduler) *Server {
	s := &Server{
		accounts: accounts,
		trees:    trees,
		params:   params,
		sched:    sched,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.POST("/auth/register", s.handleRegister)

	api := router.Group("/api", s.authRequired())
	{
		api.POST("/care", s.handleCare)
		api.POST("/user-activity", s.handleUserActivity)
		api.GET("/my-tree", s.handleMyTree)
		api.GET("/round-progress", s.handleRoundProgress)
		api.POST("/evaluate", s.handleEvaluate)
		api.GET("/current-event", s.handleCurrentEvent)
		api.GET("/tree-events", s.handleTreeEvents)
		api.GET("/species", s.handleSpeciesList)
		api.GET("/species/:id/params", s.handleGetParams)
		api.PUT("/species/:id/params", adminRequired(), s.handlePutParams)
	}

	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	return s
}

// Start begins serving. Blocks until the listener closes.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpSrv.Addr).Msg("HTTP server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}
