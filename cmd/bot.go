package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/steambuddy/config"
	"github.com/mohammad-safakhou/steambuddy/internal/bot"
	"github.com/mohammad-safakhou/steambuddy/internal/ingest"
	"github.com/mohammad-safakhou/steambuddy/internal/refresh"
	"github.com/mohammad-safakhou/steambuddy/internal/server"
	"github.com/mohammad-safakhou/steambuddy/internal/steam"
	"github.com/mohammad-safakhou/steambuddy/internal/store"
)

func botCMD() *cobra.Command {
	var cfgPath string
	var cmd = &cobra.Command{
		Use:   "bot",
		Short: "Run the Discord bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dsn, err := cfg.Storage.Postgres.DSN()
			if err != nil {
				return err
			}
			st, err := store.NewWithDSN(ctx, dsn)
			if err != nil {
				return err
			}
			defer st.Close()

			storefront := steam.NewStorefront(cfg.Steam.StorefrontURL, cfg.Steam.LookupTimeout)
			webAPI := steam.NewWebAPI(cfg.Steam.WebAPIURL, cfg.Steam.APIKey)
			linker := ingest.NewLinker(st, webAPI, log.New(log.Writer(), "[INGEST] ", log.LstdFlags))

			b, err := bot.New(cfg, st, storefront, linker, log.New(log.Writer(), "[BOT] ", log.LstdFlags))
			if err != nil {
				return err
			}

			refresher := refresh.New(cfg.Refresh, st, linker, log.New(log.Writer(), "[REFRESH] ", log.LstdFlags))
			refresher.Start()
			defer refresher.Stop()

			if cfg.Telemetry.Enabled {
				go func() {
					if err := server.Run(ctx, cfg.Telemetry.MetricsPort, nil); err != nil {
						log.Printf("[HTTP] admin server: %v", err)
					}
				}()
			}

			return b.Run(ctx)
		},
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return cmd
}
