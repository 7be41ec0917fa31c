package probe

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lemx/swapd/internal/config"
	"github.com/lemx/swapd/internal/util/command"
)

const probeTimeout = 5 * time.Second

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newLiveness(),
		newReadiness(),
	)
}

func newLiveness() *cobra.Command {
	return &cobra.Command{
		Use:   "liveness",
		Short: "Checks the management liveness endpoint",
		Run: func(_ *cobra.Command, _ []string) {
			probeManagement("/-/healthy")
		},
	}
}

func newReadiness() *cobra.Command {
	return &cobra.Command{
		Use:   "readiness",
		Short: "Checks the management readiness endpoint",
		Run: func(_ *cobra.Command, _ []string) {
			probeManagement("/-/ready")
		},
	}
}

// probeManagement hits the locally served management endpoint and
// exits non-zero on anything but 200. Intended for container health
// checks against the same process.
func probeManagement(path string) {
	cfg := config.DefaultServiceConfigFromEnv()

	url := fmt.Sprintf("http://localhost%s%s", cfg.Echo.ListenAddress, path)

	client := &http.Client{Timeout: probeTimeout}

	res, err := client.Get(url)
	if err != nil {
		log.Fatal().Err(err).Str("url", url).Msg("Probe request failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Fatal().Err(err).Str("url", url).Msg("Failed to read probe response")
	}

	if res.StatusCode != http.StatusOK {
		log.Fatal().Int("status", res.StatusCode).Str("body", string(body)).Msg("Probe failed")
	}

	fmt.Println(string(body))
}
