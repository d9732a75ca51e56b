package cmd

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/ethpandaops/persona/pkg/dataset"
	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	sampleTargetsOut string
	sampleTasksOut   string
	sampleCfg        dataset.SampleConfig
	sampleStart      string
)

//nolint:gochecknoglobals // Cobra commands are typically global
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a synthetic target and task dataset",
	Long: `Write a reproducible synthetic dataset for trying out generate. The same
sizes and --seed always produce the same files.`,
	RunE: runSample,
}

func init() {
	_ = defaults.Set(&sampleCfg)

	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringVar(&sampleTargetsOut, "targets", "targets.json", "targets output file (.json, .yaml)")
	sampleCmd.Flags().StringVar(&sampleTasksOut, "tasks", "tasks.json", "tasks output file (.json, .yaml)")
	sampleCmd.Flags().IntVar(&sampleCfg.Targets, "num-targets", sampleCfg.Targets, "number of targets")
	sampleCmd.Flags().IntVar(&sampleCfg.Tasks, "num-tasks", sampleCfg.Tasks, "number of tasks")
	sampleCmd.Flags().IntVar(&sampleCfg.Users, "num-users", sampleCfg.Users, "number of distinct requesters")
	sampleCmd.Flags().Int64Var(&sampleCfg.Seed, "seed", sampleCfg.Seed, "random seed")
	sampleCmd.Flags().StringVar(&sampleStart, "start", "2024-01-01", "earliest task start date (YYYY-MM-DD)")
}

func runSample(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	config, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}

	setLogLevel(cmd, config.Logging)

	start, err := time.Parse(persona.DateLayout, sampleStart)
	if err != nil {
		return fmt.Errorf("%w: start %q", persona.ErrInvalidTimeBound, sampleStart)
	}

	cfg := sampleCfg
	cfg.Start = start

	targets, tasks, err := dataset.Sample(cfg)
	if err != nil {
		return err
	}

	if err := dataset.WriteFile(sampleTargetsOut, targets); err != nil {
		return err
	}

	if err := dataset.WriteFile(sampleTasksOut, tasks); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"targets": sampleTargetsOut,
		"tasks":   sampleTasksOut,
		"seed":    cfg.Seed,
	}).Info("Wrote sample dataset")

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d targets to %s and %d tasks to %s\n",
		len(targets), sampleTargetsOut, len(tasks), sampleTasksOut)

	return nil
}
