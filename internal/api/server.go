package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/lockstake/staking-ledger/internal/config"
	"github.com/lockstake/staking-ledger/internal/ledger"
)

// Server exposes the ledger over HTTP.
type Server struct {
	httpServer *http.Server
	svc        *ledger.Service
}

func New(cfg *config.ApiConfig, svc *ledger.Service) *Server {
	srv := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(traceMiddleware)

	r.Get("/healthcheck", srv.handleHealthcheck)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/tiers", srv.handleListTiers)

		r.Post("/stakes", srv.handleStake)
		r.Get("/stakes/{account}", srv.handleGetStake)
		r.Get("/stakes/{account}/reward", srv.handlePendingReward)
		r.Post("/stakes/{account}/claim", srv.handleClaimRewards)
		r.Post("/stakes/{account}/unstake", srv.handleUnstake)
		r.Post("/stakes/{account}/emergency-exit", srv.handleEmergencyExit)

		r.Get("/pool", srv.handleGetPool)
		r.Post("/pool/fund", srv.handleFundPool)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/tiers", srv.handleAddTier)
			r.Put("/tiers/{index}", srv.handleUpdateTier)
			r.Post("/pause", srv.handlePause)
			r.Post("/unpause", srv.handleUnpause)
			r.Post("/recover", srv.handleRecoverAsset)
		})
	})

	srv.httpServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return srv
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	log.Info().Msgf("Starting api server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
