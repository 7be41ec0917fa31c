package env

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lemx/swapd/internal/config"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the resolved configuration",
		Long: `Prints the service configuration as resolved from the
environment. The signing key is redacted.`,
		Run: func(_ *cobra.Command, _ []string) {
			printConfig()
		},
	}
}

func printConfig() {
	cfg := config.DefaultServiceConfigFromEnv()

	// never print the signing credential
	if cfg.Chain.PrivateKey != "" {
		cfg.Chain.PrivateKey = "<redacted>"
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal configuration")
	}

	fmt.Println(string(out))
}
