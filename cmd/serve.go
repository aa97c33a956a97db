package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s := setup(ctx)
		defer s.close()

		deps := server.Deps{
			Analyzer:       s.analyzer,
			Matcher:        s.matcher,
			Documents:      s.documents,
			ModelAvailable: s.gateway.Available,
		}
		if s.generator != nil {
			deps.Generator = s.generator
		}

		srv := server.New(deps, server.Options{
			MaxUploadBytes: s.config.Server.MaxUploadBytes,
			DefaultLimit:   s.config.Match.Limit,
		}, s.logger)

		if err := srv.Run(ctx, s.config.Server.Addr); err != nil {
			s.logger.Fatal("serving", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
