package command

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewSubcommandGroup returns a command that only groups subcommands
// and prints its help when called directly.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: use,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("Failed to print help")
				os.Exit(1)
			}
			os.Exit(0)
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}
