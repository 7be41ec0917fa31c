package api

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/lemx/swapd/internal/chain"
	"github.com/lemx/swapd/internal/config"
	"github.com/lemx/swapd/internal/metrics"
	"github.com/lemx/swapd/internal/swap"
)

// SwapService is the pool-withdrawer surface used by the handlers.
// Alias to swap.Service for API access.
type SwapService = swap.Service

type Router struct {
	Routes              []*echo.Route
	Root                *echo.Group
	Management          *echo.Group
	APIV1PoolWithdrawer *echo.Group
}

// Server is a central struct keeping all the dependencies. Components
// are initialized by InitNewServer in dependency order; Echo and
// Router are attached afterwards by router.Init.
type Server struct {
	Echo   *echo.Echo
	Router *Router

	Config  config.Server
	Clock   time2.Clock
	Chain   chain.Client
	Signer  *chain.Signer
	Metrics *metrics.Service
	Swap    SwapService
}

// NewServer returns a bare server holding only its config. Used by
// tests that inject their own components.
func NewServer(config config.Server) *Server {
	return &Server{
		Config: config,
	}
}

// InitNewServer builds a fully wired server: chain client, signer and
// swap service from the given config. The config must already have
// passed Validate.
func InitNewServer(cfg config.Server) (*Server, error) {
	s := NewServer(cfg)
	s.Clock = time2.DefaultClock
	s.Metrics = metrics.New()

	client, err := chain.NewRPCClient(cfg.Chain.RPCURLs, cfg.Chain.ConfirmPollInterval, cfg.Chain.ConfirmTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}
	s.Chain = client

	signer, err := chain.NewSigner(cfg.Chain.PrivateKey, big.NewInt(cfg.Chain.ChainID))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}
	s.Signer = signer

	swapService, err := swap.NewService(s.Chain, s.Signer, s.Clock, cfg.Swap, s.Metrics)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create swap service: %w", err)
	}
	s.Swap = swapService

	return s, nil
}

// Ready reports whether every component is initialized.
func (s *Server) Ready() bool {
	if s.Echo == nil || s.Router == nil || s.Clock == nil || s.Chain == nil || s.Signer == nil || s.Swap == nil {
		log.Debug().Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Chain != nil {
		log.Debug().Msg("Closing chain RPC connections")
		s.Chain.Close()
	}

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	return errs
}
