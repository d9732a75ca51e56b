package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethpandaops/persona/pkg/dataset"
	"github.com/ethpandaops/persona/pkg/observability"
	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/ethpandaops/persona/pkg/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatXLSX = "xlsx"
)

var (
	// ErrUnsupportedOutput is returned for unknown --format values
	ErrUnsupportedOutput = errors.New("unsupported output format, expected json, yaml, text or xlsx")
	// ErrXLSXNeedsOutput is returned when xlsx output would go to a terminal
	ErrXLSXNeedsOutput = errors.New("xlsx output requires --output")
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	generateTargets     string
	generateTasks       string
	generateStart       string
	generateEnd         string
	generateFormat      string
	generateOutput      string
	generateConcurrency int
)

//nolint:gochecknoglobals // Cobra commands are typically global
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate personas from target and task files",
	Long: `Generate one persona per requester (req_unit + "_" + req_group) from JSON or
YAML target and task files. Tasks can be limited to a start-time window with
--start and --end, each "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS".`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateTargets, "targets", "", "targets file (.json, .yaml)")
	generateCmd.Flags().StringVar(&generateTasks, "tasks", "", "tasks file (.json, .yaml)")
	generateCmd.Flags().StringVar(&generateStart, "start", "", "inclusive lower bound on task start time")
	generateCmd.Flags().StringVar(&generateEnd, "end", "", "inclusive upper bound on task start time")
	generateCmd.Flags().StringVar(&generateFormat, "format", "", "output format: json, yaml, text or xlsx (default from config)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output file (default stdout)")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "user groups evaluated in parallel (default from config)")

	_ = generateCmd.MarkFlagRequired("targets")
	_ = generateCmd.MarkFlagRequired("tasks")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	config, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}

	setLogLevel(cmd, config.Logging)

	format := config.Format
	if generateFormat != "" {
		format = generateFormat
	}

	concurrency := config.Concurrency
	if generateConcurrency > 0 {
		concurrency = generateConcurrency
	}

	personas, err := generateFromFiles(logger, generateTargets, generateTasks, persona.Options{
		TimeRange:   persona.TimeRange{Start: generateStart, End: generateEnd},
		Concurrency: concurrency,
	})
	if err != nil {
		return err
	}

	if generateOutput == "" {
		if format == formatXLSX {
			return ErrXLSXNeedsOutput
		}
		return writeOutput(cmd.OutOrStdout(), personas, format)
	}

	f, err := os.Create(generateOutput) //nolint:gosec // User-provided output path
	if err != nil {
		return err
	}

	if err := writeOutput(f, personas, format); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"output":   generateOutput,
		"personas": len(personas),
	}).Info("Wrote personas")

	return nil
}

// generateFromFiles loads both datasets and generates personas, reporting to
// the logger and the CLI metrics.
func generateFromFiles(log logrus.FieldLogger, targetsPath, tasksPath string, opts persona.Options) ([]persona.Persona, error) {
	targets, err := dataset.LoadTargets(targetsPath)
	if err != nil {
		return nil, err
	}

	tasks, err := dataset.LoadTasks(tasksPath)
	if err != nil {
		return nil, err
	}

	opts.Observer = persona.Observers{
		persona.NewLogObserver(log),
		observability.NewMetricsObserver(observability.SourceCLI),
	}

	return persona.Generate(targets, tasks, opts)
}

func writeOutput(w io.Writer, personas []persona.Persona, format string) error {
	switch format {
	case string(dataset.FormatJSON), string(dataset.FormatYAML):
		return dataset.WritePersonas(w, personas, dataset.Format(format))
	case formatText:
		renderer, err := report.NewTextRenderer()
		if err != nil {
			return err
		}
		return renderer.Render(w, personas)
	case formatXLSX:
		return report.WriteXLSX(w, personas)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOutput, format)
	}
}
