package config

import (
	"math/big"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EchoServer holds the HTTP listener settings.
type EchoServer struct {
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableLoggerMiddleware         bool
	EnableMetricsMiddleware        bool
}

// Logger holds the zerolog settings.
type Logger struct {
	Level              string
	PrettyPrintConsole bool
}

// Chain holds the connection and signing settings for the remote chain.
type Chain struct {
	// RPCURLs is a comma separated list; the client fails over in order.
	RPCURLs             []string
	PrivateKey          string
	ChainID             int64
	ConfirmPollInterval time.Duration
	ConfirmTimeout      time.Duration
}

// Swap holds the guarded-swap policy knobs. The gas-price multiplier and
// fixed gas limits are a blunt anti-stuck-transaction policy; operators
// tune them per network congestion.
type Swap struct {
	SlippageBps        int64
	GasPriceMultiplier int64
	ApproveGasLimit    uint64
	ExchangeGasLimit   uint64
	NativeReserveWei   string
	DeadlineSeconds    int64

	InputTokenAddress  string
	OutputTokenAddress string

	CurvePoolAddress string
	CurveIndexIn     int64
	CurveIndexOut    int64

	UniswapRouterAddress string
	UniswapQuoterAddress string
	UniswapFeeTier       int64
}

// Server is the aggregated service configuration.
type Server struct {
	Echo   EchoServer
	Logger Logger
	Chain  Chain
	Swap   Swap
}

// DefaultServiceConfigFromEnv returns the service config as resolved from
// the environment (SWAPD_ prefix) with an optional .swapd.yaml overlay.
func DefaultServiceConfigFromEnv() Server {
	v := viper.New()

	v.SetConfigName(".swapd")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetDefault("server_listen_address", ":8080")
	v.SetDefault("server_hide_internal_errors", true)
	v.SetDefault("server_enable_recover", true)
	v.SetDefault("server_enable_request_id", true)
	v.SetDefault("server_enable_logger", true)
	v.SetDefault("server_enable_metrics", true)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty_print_console", false)

	v.SetDefault("eth_rpc_url", "")
	v.SetDefault("eth_private_key", "")
	v.SetDefault("eth_chain_id", 1)
	v.SetDefault("confirm_poll_interval", "2s")
	v.SetDefault("confirm_timeout", "5m")

	v.SetDefault("slippage_bps", 100)
	v.SetDefault("gas_price_multiplier", 5)
	v.SetDefault("approve_gas_limit", 100_000)
	v.SetDefault("exchange_gas_limit", 300_000)
	// 0.002 native units, the minimum headroom required before any write call
	v.SetDefault("native_reserve_wei", "2000000000000000")
	v.SetDefault("deadline_seconds", 1200)

	// Ethereum mainnet stablecoin defaults: USDC in, USDT out
	v.SetDefault("input_token_address", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	v.SetDefault("output_token_address", "0xdAC17F958D2ee523a2206206994597C13D831ec7")

	v.SetDefault("curve_pool_address", "0xbEbc44782C7dB0a1A60Cb6fe97d0b483032FF1C7")
	v.SetDefault("curve_index_in", 1)
	v.SetDefault("curve_index_out", 2)

	v.SetDefault("uniswap_router_address", "0xE592427A0AEce92De3Edee1F18E0157C05861564")
	v.SetDefault("uniswap_quoter_address", "0x61fFE014bA17989E8f386d61003CcC7adaFc5c55")
	v.SetDefault("uniswap_fee_tier", 3000)

	v.SetEnvPrefix("SWAPD")
	v.AutomaticEnv()

	// config file is optional
	_ = v.ReadInConfig()

	return Server{
		Echo: EchoServer{
			ListenAddress:                  v.GetString("server_listen_address"),
			HideInternalServerErrorDetails: v.GetBool("server_hide_internal_errors"),
			EnableRecoverMiddleware:        v.GetBool("server_enable_recover"),
			EnableRequestIDMiddleware:      v.GetBool("server_enable_request_id"),
			EnableLoggerMiddleware:         v.GetBool("server_enable_logger"),
			EnableMetricsMiddleware:        v.GetBool("server_enable_metrics"),
		},
		Logger: Logger{
			Level:              v.GetString("log_level"),
			PrettyPrintConsole: v.GetBool("log_pretty_print_console"),
		},
		Chain: Chain{
			RPCURLs:             splitURLs(v.GetString("eth_rpc_url")),
			PrivateKey:          v.GetString("eth_private_key"),
			ChainID:             v.GetInt64("eth_chain_id"),
			ConfirmPollInterval: v.GetDuration("confirm_poll_interval"),
			ConfirmTimeout:      v.GetDuration("confirm_timeout"),
		},
		Swap: Swap{
			SlippageBps:          v.GetInt64("slippage_bps"),
			GasPriceMultiplier:   v.GetInt64("gas_price_multiplier"),
			ApproveGasLimit:      v.GetUint64("approve_gas_limit"),
			ExchangeGasLimit:     v.GetUint64("exchange_gas_limit"),
			NativeReserveWei:     v.GetString("native_reserve_wei"),
			DeadlineSeconds:      v.GetInt64("deadline_seconds"),
			InputTokenAddress:    v.GetString("input_token_address"),
			OutputTokenAddress:   v.GetString("output_token_address"),
			CurvePoolAddress:     v.GetString("curve_pool_address"),
			CurveIndexIn:         v.GetInt64("curve_index_in"),
			CurveIndexOut:        v.GetInt64("curve_index_out"),
			UniswapRouterAddress: v.GetString("uniswap_router_address"),
			UniswapQuoterAddress: v.GetString("uniswap_quoter_address"),
			UniswapFeeTier:       v.GetInt64("uniswap_fee_tier"),
		},
	}
}

// Validate checks that the settings required for live chain access are
// present. It is called before serving, not at request time, so a
// misconfigured deployment fails fast instead of on the first swap.
func (c Server) Validate() error {
	if len(c.Chain.RPCURLs) == 0 {
		return errors.New("SWAPD_ETH_RPC_URL is required")
	}
	if c.Chain.PrivateKey == "" {
		return errors.New("SWAPD_ETH_PRIVATE_KEY is required")
	}
	if c.Swap.SlippageBps < 0 || c.Swap.SlippageBps >= 10_000 {
		return errors.New("slippage_bps must be in [0, 10000)")
	}
	if c.Swap.GasPriceMultiplier < 1 {
		return errors.New("gas_price_multiplier must be >= 1")
	}
	return nil
}

// NativeReserve parses the configured minimum native balance.
func (c Swap) NativeReserve() (*big.Int, error) {
	reserve, ok := new(big.Int).SetString(c.NativeReserveWei, 10)
	if !ok || reserve.Sign() < 0 {
		return nil, errors.Errorf("invalid native_reserve_wei %q", c.NativeReserveWei)
	}
	return reserve, nil
}

// ZerologLevel resolves the configured level, defaulting to info.
func (l Logger) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func splitURLs(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}
