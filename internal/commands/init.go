package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/config"
	"github.com/fleetbooks/fleetbooks/internal/gitops"
	"github.com/fleetbooks/fleetbooks/internal/snapshot"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

type initOptions struct {
	name     string
	language string
	calendar string
	currency string
	noGit    bool
}

func newInitCommand(a *app) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new set of books with the default chart of accounts",
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

			return a.runInit(cmd, absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.language, "language", "ar", "report language (ar or en)")
	cmd.Flags().StringVar(&opts.calendar, "calendar", "gregorian", "report calendar (gregorian or hijri)")
	cmd.Flags().StringVar(&opts.currency, "currency", "SAR", "reporting currency")
	cmd.Flags().BoolVar(&opts.noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func (a *app) runInit(cmd *cobra.Command, dir string, opts initOptions) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	a.configPath = filepath.Join(dir, config.FileName)
	if _, err := os.Stat(a.configPath); err == nil {
		return fmt.Errorf("%s already exists", a.configPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default(opts.name)
	cfg.Business.Language = opts.language
	cfg.Business.Calendar = opts.calendar
	cfg.Business.Currency = opts.currency
	if opts.noGit {
		cfg.Git.AutoCommit = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(a.configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := "*.db\n*.db-journal\n.env\nexports/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	ctx := cmd.Context()
	return a.withTables(ctx, func(ctx context.Context, tables *store.Tables) error {
		n, err := tables.Accounts.Count(ctx, nil)
		if err != nil {
			return err
		}
		if n == 0 {
			chart := accounts.DefaultChart()
			if errs := accounts.Validate(chart); len(errs) > 0 {
				return fmt.Errorf("default chart of accounts: %s", errs[0].Error())
			}
			if err := tables.ReplaceAccounts(ctx, chart); err != nil {
				return fmt.Errorf("seeding chart of accounts: %w", err)
			}
			a.logger.Info("seeded chart of accounts", zap.Int("accounts", len(chart)))
		}

		var commit string
		if a.cfg.Git.AutoCommit {
			if err := gitops.Init(ctx, dir); err != nil {
				return fmt.Errorf("git init: %w", err)
			}
			res, err := snapshot.Write(ctx, tables, dir, snapshot.Options{
				Commit:  true,
				Message: "init: Initialize " + opts.name,
				Author:  a.author(),
			}, a.logger)
			if err != nil {
				return fmt.Errorf("initial snapshot: %w", err)
			}
			commit = res.Commit
		}

		out := cmd.OutOrStdout()
		if commit != "" {
			fmt.Fprintf(out, "Initialized books for %s at %s (%s)\n", opts.name, dir, commit)
		} else {
			fmt.Fprintf(out, "Initialized books for %s at %s\n", opts.name, dir)
		}
		return nil
	})
}

func (a *app) author() gitops.Author {
	return gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail}
}
