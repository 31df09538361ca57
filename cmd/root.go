package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prasastio/marketplace/internal/config"
	"github.com/prasastio/marketplace/internal/constants"
	"github.com/prasastio/marketplace/internal/log"
)

func Start() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Get(c, constants.AppMarketplace)
	logger := log.Get(filepath.Join("/var/log/", constants.AppMarketplace+".log"), cfg.Application).
		With().
		Str(log.KeyAppName, constants.AppMarketplace).
		Str(log.KeyTag, "main Start").
		Logger()

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "marketplace"}
	commands := []*cobra.Command{
		{
			Use:   "serve",
			Short: "Run the marketplace http server",
			Run: func(cmd *cobra.Command, args []string) {
				RunMarketplaceService(cmd.Context())
			},
		},
		{
			Use:   "seed",
			Short: "Seed the database with demo users and items",
			Run: func(cmd *cobra.Command, args []string) {
				RunSeed(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
