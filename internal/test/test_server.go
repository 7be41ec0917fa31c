package test

import (
	"math/big"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/lemx/swapd/internal/api"
	"github.com/lemx/swapd/internal/api/router"
	"github.com/lemx/swapd/internal/chain"
	"github.com/lemx/swapd/internal/config"
	"github.com/lemx/swapd/internal/metrics"
	"github.com/lemx/swapd/internal/swap"
)

// TestServerPrivateKey is the well-known hardhat dev account #0. It
// controls nothing on any real network.
const TestServerPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// TestServerAddress is the account derived from TestServerPrivateKey.
const TestServerAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

// DefaultTestServerConfig returns the service config with everything
// chain-facing replaced by test stand-ins.
func DefaultTestServerConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.Echo.ListenAddress = ":0"
	cfg.Echo.EnableMetricsMiddleware = false
	cfg.Chain.RPCURLs = []string{"http://localhost:1"}
	cfg.Chain.PrivateKey = TestServerPrivateKey
	cfg.Chain.ChainID = 1

	return cfg
}

// WithTestServer runs the closure against a fully routed server backed
// by a scripted mock chain in a healthy default state: funded signer,
// 6-decimal token pair and quotes answering on both pools.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerFromMock(t, HealthyMockChain(DefaultTestServerConfig()), closure)
}

// WithTestServerFromMock runs the closure against a server backed by
// the given mock chain.
func WithTestServerFromMock(t *testing.T, mock *MockChainClient, closure func(s *api.Server)) {
	t.Helper()

	cfg := DefaultTestServerConfig()

	s := api.NewServer(cfg)
	s.Clock = time2.NewMockClock(time.Unix(1_700_000_000, 0))
	s.Metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.Chain = mock

	signer, err := chain.NewSigner(cfg.Chain.PrivateKey, big.NewInt(cfg.Chain.ChainID))
	require.NoError(t, err)
	s.Signer = signer

	swapService, err := swap.NewService(s.Chain, s.Signer, s.Clock, cfg.Swap, s.Metrics)
	require.NoError(t, err)
	s.Swap = swapService

	router.Init(s)

	closure(s)
}

// HealthyMockChain scripts a mock in a state where the full guarded
// sequence succeeds: signer holds native funds above the reserve and
// 5000 input tokens, both tokens have 6 decimals and both quote
// sources answer.
func HealthyMockChain(cfg config.Server) *MockChainClient {
	mock := NewMockChainClient()

	signerAddress := HexAddress(TestServerAddress)
	tokenIn := HexAddress(cfg.Swap.InputTokenAddress)
	tokenOut := HexAddress(cfg.Swap.OutputTokenAddress)
	curvePool := HexAddress(cfg.Swap.CurvePoolAddress)
	quoter := HexAddress(cfg.Swap.UniswapQuoterAddress)

	// 1 native unit, far above the default reserve.
	mock.NativeBalances[signerAddress] = big.NewInt(1_000_000_000_000_000_000)

	mock.TokenDecimals[tokenIn] = 6
	mock.TokenDecimals[tokenOut] = 6

	// 5000 tokens at 6 decimals.
	mock.SetTokenBalance(tokenIn, signerAddress, big.NewInt(5_000_000_000))

	// Both pools quote 998 out per 1000 in by default.
	mock.QuoteOut[curvePool] = big.NewInt(998_000_000)
	mock.QuoteOut[quoter] = big.NewInt(998_000_000)

	return mock
}
