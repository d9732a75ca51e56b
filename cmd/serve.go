package cmd

import (
	"github.com/ethpandaops/persona/pkg/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	serveCfgFile string
)

//nolint:gochecknoglobals // Cobra commands are typically global
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the persona API, worker and scheduler",
	Long: `Serve the persona HTTP API, process queued generation runs and enqueue
scheduled runs. Each component can be switched off in the config file.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveCfgFile, "config", "server.yaml", "config file (default is server.yaml)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	config, err := server.LoadConfig(serveCfgFile)
	if err != nil {
		return err
	}

	setLogLevel(cmd, config.Logging)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.Info("Configuration loaded")

	srv, err := server.NewServer(cmd.Context(), logger, config)
	if err != nil {
		return err
	}

	return srv.Start(cmd.Context())
}
