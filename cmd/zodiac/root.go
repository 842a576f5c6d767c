package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/cli"
	"github.com/hyperjump/zodiac/internal/config"
	"github.com/hyperjump/zodiac/pkg/utils"
)

var version = "dev"

// Persistent flags.
var (
	flagConfig string
	flagDebug  bool
	flagOutput string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zodiac",
		Short: "Zodiac turns a business website into marketing documents",
		Long: `Zodiac scrapes a business website, extracts a structured business profile
with an LLM, and generates typed marketing documents from it.

Usage:
  zodiac init
  zodiac serve
  zodiac scan https://example.com
  zodiac generate <projectID> BRAND_GUIDELINES FAQ
  zodiac export <projectID> --format pdf`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "config file path")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&flagOutput, "output", "o", string(cli.OutputText), "output format: text or json")

	root.AddCommand(
		newServeCmd(),
		newScanCmd(),
		newGenerateCmd(),
		newOutputsCmd(),
		newExportCmd(),
		newTypesCmd(),
		newInitCmd(),
		newReindexCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file and reports whether debug logging is on.
func loadConfig() (*config.Config, bool, error) {
	cfg, err := config.LoadOrDefault(flagConfig)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, cfg.Debug || flagDebug, nil
}

// outputFormat parses --output.
func outputFormat() (cli.OutputFormat, error) {
	return cli.ParseOutputFormat(flagOutput)
}

// session is what a one-shot CLI command needs: components, a stderr logger
// and where to print.
type session struct {
	*Components
	logger *zap.Logger
	format cli.OutputFormat
	out    io.Writer
}

func openSession(cmd *cobra.Command) (*session, error) {
	format, err := outputFormat()
	if err != nil {
		return nil, err
	}
	cfg, debug, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewCLILogger(debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	components, err := initializeComponents(cmd.Context(), cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &session{
		Components: components,
		logger:     logger,
		format:     format,
		out:        cmd.OutOrStdout(),
	}, nil
}

func (s *session) Close() {
	s.Components.Close()
	_ = s.logger.Sync()
}
