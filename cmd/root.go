package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/datafn/tabcalc/catalog"
	"github.com/datafn/tabcalc/config"
	"github.com/datafn/tabcalc/functions"
	"github.com/datafn/tabcalc/server"
	"github.com/datafn/tabcalc/wire"
)

var (
	configPath  string
	profileType string
)

var rootCmd = &cobra.Command{
	Use:           "tabcalc",
	Short:         "tabcalc serves calculation-extension functions to analytics clients.",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch profileType {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "memory":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		default:
			return errors.Errorf("invalid profile type: %s", profileType)
		}

		logger, err := zap.NewProduction()
		if err != nil {
			return errors.Wrap(err, "couldn't create logger")
		}
		defer logger.Sync()

		cfg, err := config.Read(configPath)
		if err != nil {
			return errors.Wrap(err, "couldn't read config")
		}

		registry, err := catalog.Load(cfg.Catalog, functions.FunctionMap())
		if err != nil {
			return errors.Wrap(err, "couldn't load function catalog")
		}

		opts := server.Options()
		if cfg.TLS != nil {
			creds, err := cfg.TLS.ServerCredentials()
			if err != nil {
				return errors.Wrap(err, "couldn't build TLS credentials")
			}
			opts = append(opts, grpc.Creds(creds))
		}

		lis, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return errors.Wrapf(err, "couldn't listen on %s", cfg.Listen)
		}

		s := grpc.NewServer(opts...)
		wire.RegisterConnectorServer(s, server.New(registry, logger))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			logger.Info("shutting down")
			s.GracefulStop()
		}()

		logger.Info("listening", zap.String("address", cfg.Listen), zap.Bool("tls", cfg.TLS != nil))
		if err := s.Serve(lis); err != nil {
			return errors.Wrap(err, "couldn't serve")
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the configuration file")
	rootCmd.Flags().StringVar(&profileType, "profile", "", "collect a cpu or memory profile")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
