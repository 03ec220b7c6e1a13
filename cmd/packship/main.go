package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/packship/internal/app"
	"github.com/bft-labs/packship/internal/cliconfig"
	"github.com/bft-labs/packship/internal/domain"
	"github.com/bft-labs/packship/internal/watch"
	"github.com/bft-labs/packship/pkg/log"
)

const helpDescription = `
Split a directory of files into groups whose total size never exceeds a ceiling.

Highlights:
  - Two strategies: "default" keeps input order, "compact" packs tighter (first-fit-decreasing).
  - Files larger than the ceiling get a group of their own and a warning, never dropped.
  - Writes a JSON, YAML or TOML manifest for the downstream transfer step.
  - Can synthesize test files, validate its own output, and re-run on changes (watch).
  - Configure via file ($HOME/.packship/config.toml), env (PACKSHIP_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  packship --source-dir ./data --max-group-size-megabytes 100
  packship --create-test-files --max-group-size-bytes 20971520 --method default --validate
  packship watch --source-dir ./inbox --max-group-size-megabytes 50 --split-groups
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs the CLI with args and returns the process exit code.
func execute(args []string) int {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	exitCode := app.ExitOK

	bootLog := log.NewZerologAdapter()

	root := &cobra.Command{
		Use:           "packship",
		Short:         "Split files into size-bounded groups",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				exitCode = app.ExitFailure
				return err
			}
			defer closeLog()

			runner, err := app.NewRunner(cfg.RunConfig(logger), logger)
			if err != nil {
				exitCode = app.ExitFailure
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rep, err := runner.Run(ctx)
			printSummary(cmd.OutOrStdout(), rep, err)
			exitCode = rep.Status.ExitCode()
			return err
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run grouping whenever the source directory changes",
		Long: strings.TrimSpace(`
Watch the source directory and regroup after every burst of changes.
A run happens at start. Failed runs are reported and watching continues;
an internal defect detected by --validate stops the watcher.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				exitCode = app.ExitFailure
				return err
			}
			defer closeLog()

			if err := cfg.ValidateWatch(); err != nil {
				exitCode = app.ExitFailure
				return err
			}

			runner, err := app.NewRunner(cfg.RunConfig(logger), logger)
			if err != nil {
				exitCode = app.ExitFailure
				return err
			}

			out := cmd.OutOrStdout()
			w, err := watch.New(cfg.SourceDir, func(ctx context.Context) error {
				rep, err := runner.Run(ctx)
				printSummary(out, rep, err)
				return err
			}, watch.Options{
				Ignore: []string{cfg.OutputDir},
				Logger: logger,
			})
			if err != nil {
				exitCode = app.ExitFailure
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := w.Run(ctx); err != nil {
				exitCode = app.StatusOf(err, 0).ExitCode()
				return err
			}
			return nil
		},
	}
	root.AddCommand(watchCmd)

	bindFlags(root.PersistentFlags(), &cfg, &cfgPath)
	root.MarkFlagsMutuallyExclusive("source-dir", "create-test-files")
	root.MarkFlagsMutuallyExclusive("max-group-size-megabytes", "max-group-size-bytes")

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		bootLog.Error("packship", log.Err(err))
		if exitCode == app.ExitOK || exitCode == app.ExitWarnings {
			exitCode = app.ExitFailure
		}
		if errors.Is(err, domain.ErrInternalDefect) {
			exitCode = app.ExitDefect
		}
	}
	return exitCode
}

// bindFlags registers every configuration flag on fs with defaults from cfg.
func bindFlags(fs *pflag.FlagSet, cfg *cliconfig.Config, cfgPath *string) {
	fs.StringVar(cfgPath, "config", "", "path to config file (default: $HOME/.packship/config.toml)")

	fs.StringVar(&cfg.SourceDir, "source-dir", cfg.SourceDir, "directory whose files are grouped (top level only)")
	fs.BoolVar(&cfg.CreateTestFiles, "create-test-files", cfg.CreateTestFiles, "generate test files and group them")
	fs.StringVar(&cfg.TestFilesDir, "test-files-dir", cfg.TestFilesDir, "where generated test files go (default: new temp dir)")
	fs.IntVar(&cfg.MinFiles, "min-files", cfg.MinFiles, "minimum number of generated files")
	fs.IntVar(&cfg.MaxFiles, "max-files", cfg.MaxFiles, "maximum number of generated files")
	fs.Int64Var(&cfg.MinFileSizeBytes, "min-file-size-bytes", cfg.MinFileSizeBytes, "minimum generated file size in bytes")
	fs.Int64Var(&cfg.MaxFileSizeBytes, "max-file-size-bytes", cfg.MaxFileSizeBytes, "maximum generated file size in bytes")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed for generated file counts and sizes (0 = random)")

	fs.Int64Var(&cfg.MaxGroupSizeMegabytes, "max-group-size-megabytes", cfg.MaxGroupSizeMegabytes, "group size ceiling in MiB (1 MiB = 1048576 bytes)")
	fs.Int64Var(&cfg.MaxGroupSizeBytes, "max-group-size-bytes", cfg.MaxGroupSizeBytes, "group size ceiling in bytes")
	fs.StringVar(&cfg.Method, "method", cfg.Method, "grouping strategy: compact or default")
	fs.BoolVar(&cfg.ValidateGroups, "validate", cfg.ValidateGroups, "check the partition invariants before saving")

	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "manifest directory")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "manifest format: json, yaml or toml")
	fs.BoolVar(&cfg.SplitGroups, "split-groups", cfg.SplitGroups, "also write one group_NNN file per group")
	fs.BoolVar(&cfg.Checksum, "checksum", cfg.Checksum, "record a BLAKE3 digest for each file")
	fs.BoolVar(&cfg.SortNames, "sort-names", cfg.SortNames, "order directory entries by name instead of directory order")

	fs.StringVar(&cfg.LogFilepath, "log-filepath", cfg.LogFilepath, "also append JSON logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "silence console logging")
}

// loadConfig layers the config file, environment and flags into cfg,
// validates it and builds the process logger.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) (log.Logger, func() error, error) {
	// Load config file first (default $HOME/.packship/config.toml), then apply flag overrides
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	// Build set of changed flags
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgPath != "" && !cliconfig.FileExists(cfgPath) {
		return nil, nil, fmt.Errorf("config file %s: %w", cfgPath, os.ErrNotExist)
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return nil, nil, err
		}
	}

	// Apply environment variables (PACKSHIP_*)
	// These override file config but are overridden by flags (checked via changed map)
	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return nil, nil, fmt.Errorf("load env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, closeLog, err := cliconfig.NewLogger(*cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("configuration", log.Any("config", *cfg))
	return logger, closeLog, nil
}
