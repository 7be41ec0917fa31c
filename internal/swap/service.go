package swap

import (
	"context"
	"strings"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/lemx/swapd/internal/chain"
	"github.com/lemx/swapd/internal/config"
	"github.com/lemx/swapd/internal/metrics"
)

// Service is the pool-withdrawer surface consumed by the API handlers.
type Service interface {
	// WithdrawFromCurve runs the guarded sequence through the Curve pool.
	WithdrawFromCurve(ctx context.Context, req Request) *Outcome

	// BridgeUniswap runs the guarded sequence through the Uniswap V3 router.
	BridgeUniswap(ctx context.Context, req Request) *Outcome

	// CurveExchangeRate returns the advisory Curve quote, or nil on any error.
	CurveExchangeRate(ctx context.Context, amount string) *RateQuote

	// Pools returns the static pool catalog.
	Pools() []PoolInfo
}

type service struct {
	executor   *Executor
	curve      *CurveAdapter
	uniswap    *UniswapV3Adapter
	curveQuote *QuoteReader
	metrics    *metrics.Service
	clock      time2.Clock
	cfg        config.Swap
}

// NewService builds the adapters and the executor from configuration.
//
//nolint:ireturn
func NewService(client chain.Client, signer *chain.Signer, clock time2.Clock, cfg config.Swap, m *metrics.Service) (Service, error) {
	tokenIn, err := parseAddress(cfg.InputTokenAddress, "input_token_address")
	if err != nil {
		return nil, err
	}
	tokenOut, err := parseAddress(cfg.OutputTokenAddress, "output_token_address")
	if err != nil {
		return nil, err
	}
	curvePool, err := parseAddress(cfg.CurvePoolAddress, "curve_pool_address")
	if err != nil {
		return nil, err
	}
	router, err := parseAddress(cfg.UniswapRouterAddress, "uniswap_router_address")
	if err != nil {
		return nil, err
	}
	quoter, err := parseAddress(cfg.UniswapQuoterAddress, "uniswap_quoter_address")
	if err != nil {
		return nil, err
	}

	executor, err := NewExecutor(client, signer, clock, cfg)
	if err != nil {
		return nil, err
	}

	curve := NewCurveAdapter(client, curvePool, tokenIn, tokenOut, cfg.CurveIndexIn, cfg.CurveIndexOut)
	uniswap := NewUniswapV3Adapter(client, router, quoter, tokenIn, tokenOut, cfg.UniswapFeeTier)

	return &service{
		executor:   executor,
		curve:      curve,
		uniswap:    uniswap,
		curveQuote: NewQuoteReader(client, curve),
		metrics:    m,
		clock:      clock,
		cfg:        cfg,
	}, nil
}

func (s *service) WithdrawFromCurve(ctx context.Context, req Request) *Outcome {
	return s.execute(ctx, s.curve, req)
}

func (s *service) BridgeUniswap(ctx context.Context, req Request) *Outcome {
	return s.execute(ctx, s.uniswap, req)
}

func (s *service) CurveExchangeRate(ctx context.Context, amount string) *RateQuote {
	quote := s.curveQuote.GetQuote(ctx, amount)
	if s.metrics != nil {
		s.metrics.RecordQuote(s.curve.Name(), quote != nil)
	}
	return quote
}

func (s *service) Pools() []PoolInfo {
	return AvailablePools(s.cfg)
}

func (s *service) execute(ctx context.Context, adapter PoolAdapter, req Request) *Outcome {
	started := s.clock.Now()
	outcome := s.executor.Execute(ctx, adapter, req)

	if s.metrics != nil {
		result := "confirmed"
		if !outcome.Success {
			result = string(outcome.Code)
		}
		s.metrics.RecordSwap(adapter.Name(), result, s.clock.Now().Sub(started))
	}

	return outcome
}

func parseAddress(raw, key string) (common.Address, error) {
	if !common.IsHexAddress(strings.TrimSpace(raw)) {
		return common.Address{}, errors.Errorf("%s: %q is not a valid address", key, raw)
	}
	return common.HexToAddress(strings.TrimSpace(raw)), nil
}
