package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/autojournal/internal/accounts"
	"github.com/cleared-dev/autojournal/internal/categorize"
	"github.com/cleared-dev/autojournal/internal/config"
	"github.com/cleared-dev/autojournal/internal/gitops"
	"github.com/cleared-dev/autojournal/internal/history"
)

type initOptions struct {
	name       string
	entityType string
	noGit      bool
}

func newInitCommand() *cobra.Command {
	opts := initOptions{}

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new autojournal repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			hash, err := runInit(absDir, opts)
			if err != nil {
				return err
			}
			if hash == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized autojournal repository at %s\n", absDir)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized autojournal repository at %s (%s)\n", absDir, hash)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.entityType, "entity-type", "llc_single_member", "entity type")
	cmd.Flags().BoolVar(&opts.noGit, "no-git", false, "skip git init and the initial commit")

	return cmd
}

// runInit lays out a new repository and returns the initial commit hash,
// or "" when git is skipped.
func runInit(dir string, opts initOptions) (string, error) {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return "", fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	dirs := []string{
		"accounts",
		"rules",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(opts.name, opts.entityType)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	chart := accounts.NewService(accounts.DefaultChart(opts.entityType))
	if err := chart.Save(dir); err != nil {
		return "", fmt.Errorf("writing chart of accounts: %w", err)
	}

	if err := categorize.SaveRules(filepath.Join(dir, categorize.RulesPath), categorize.StarterRules()); err != nil {
		return "", err
	}

	gitignore := ".env\n" + filepath.Dir(history.DefaultPath) + "/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return "", fmt.Errorf("writing .gitkeep: %w", err)
	}

	if opts.noGit {
		return "", nil
	}
	if err := gitops.Init(dir); err != nil {
		return "", fmt.Errorf("git init: %w", err)
	}

	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, "init: Initialize "+opts.name, author)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
