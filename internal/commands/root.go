package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/autojournal/internal/config"
	"github.com/cleared-dev/autojournal/internal/logging"
)

// Build metadata, set via -ldflags "-X github.com/cleared-dev/autojournal/internal/commands.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	repo      string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "autojournal",
		Short:   "Turn bank exports into a double-entry journal",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadEnv()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "repository directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text or json)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newClassifyCommand(opts))
	rootCmd.AddCommand(newValidateCommand(opts))

	return rootCmd
}

// loadEnv reads <repo>/.env when present. Variables already set in the
// environment win.
func (o *rootOptions) loadEnv() error {
	err := godotenv.Load(filepath.Join(o.repo, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// repoRoot returns the absolute repo directory.
func (o *rootOptions) repoRoot() (string, error) {
	abs, err := filepath.Abs(o.repo)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// logger builds a logger from the flags, writing to the command's stderr.
func (o *rootOptions) logger(cmd *cobra.Command) *logrus.Logger {
	return logging.New(o.logLevel, o.logFormat, cmd.ErrOrStderr())
}

// adopt applies the repo's log settings to log unless overridden by flags.
func (o *rootOptions) adopt(cmd *cobra.Command, log *logrus.Logger, cfg *config.Config) {
	level, format := o.logLevel, o.logFormat
	if !cmd.Flags().Changed("log-level") && cfg.Log.Level != "" {
		level = cfg.Log.Level
	}
	if !cmd.Flags().Changed("log-format") && cfg.Log.Format != "" {
		format = cfg.Log.Format
	}
	logging.Configure(log, level, format)
}
