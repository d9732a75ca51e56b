// Package cmd contains the CLI commands for persona
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Global vars needed for cobra CLI
var (
	cfgFile string
	logger  *logrus.Logger
)

// rootCmd represents the base command
//
//nolint:gochecknoglobals // Cobra commands are typically global
var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "Persona - Build requester personas from reconnaissance task history",
	Long: `Persona groups historical reconnaissance tasks by requesting unit and group,
and derives six statistical preference tags for every requester: request volume,
favoured targets, regions, target categories, topic groups and scout scenarios.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cli.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error, fatal, panic)")

	// Initialize logger
	logger = logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "./cli.yaml"
	}
}

// setLogLevel applies the --log-level flag, falling back to the configured level
func setLogLevel(cmd *cobra.Command, configured string) {
	logLevel := configured
	if flag, err := cmd.Flags().GetString("log-level"); err == nil && flag != "" {
		logLevel = flag
	}

	level, parseErr := logrus.ParseLevel(logLevel)
	if parseErr != nil {
		logger.WithError(parseErr).Warn("Invalid log level, defaulting to info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}
