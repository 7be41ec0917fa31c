package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lemx/swapd/internal/chain"
	"github.com/lemx/swapd/internal/config"
	"github.com/lemx/swapd/internal/swap"
)

const quoteTimeout = 30 * time.Second

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <amount>",
		Short: "Reads a one-shot advisory Curve exchange rate",
		Long: `Connects to the configured chain RPC, reads the Curve pool
quote for the given human-unit amount and prints it as JSON.
Nothing is signed or broadcast.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			runQuote(args[0])
		},
	}
}

func runQuote(amount string) {
	cfg := config.DefaultServiceConfigFromEnv()

	if len(cfg.Chain.RPCURLs) == 0 {
		log.Fatal().Msg("SWAPD_ETH_RPC_URL is required")
	}

	client, err := chain.NewRPCClient(cfg.Chain.RPCURLs, cfg.Chain.ConfirmPollInterval, cfg.Chain.ConfirmTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to chain RPC")
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), quoteTimeout)
	defer cancel()

	adapter := swap.NewCurveAdapter(client,
		mustAddress(cfg.Swap.CurvePoolAddress),
		mustAddress(cfg.Swap.InputTokenAddress),
		mustAddress(cfg.Swap.OutputTokenAddress),
		cfg.Swap.CurveIndexIn, cfg.Swap.CurveIndexOut)

	result := swap.NewQuoteReader(client, adapter).GetQuote(ctx, amount)
	if result == nil {
		log.Fatal().Str("amount", amount).Msg("Failed to fetch quote")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal quote")
	}

	fmt.Println(string(out))
}

func mustAddress(raw string) common.Address {
	if !common.IsHexAddress(raw) {
		log.Fatal().Str("address", raw).Msg("Invalid configured address")
	}
	return common.HexToAddress(raw)
}
