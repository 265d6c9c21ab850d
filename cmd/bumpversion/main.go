package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/crayontools/internal/config"
	"codeberg.org/mutker/crayontools/internal/errors"
	"codeberg.org/mutker/crayontools/internal/history"
	"codeberg.org/mutker/crayontools/internal/logger"
	"codeberg.org/mutker/crayontools/internal/version"
	"github.com/spf13/cobra"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	defaultHistoryLimit = 20
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Reconfigured once the config is loaded.
	logger.Init(config.DefaultLogLevel, stderr)

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	if errors.HasCode(err, errors.ErrUsage) || errors.HasCode(err, errors.ErrInvalidArgument) {
		fmt.Fprintln(stderr, usageMessage(err))
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsage
	}

	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.ErrorWithCode(appErr).Msg("Version bump failed")
	} else {
		logger.Error().Err(err).Msg("Version bump failed")
	}

	return exitError
}

func usageMessage(err error) string {
	var appErr errors.Error
	if errors.As(err, &appErr) && appErr.GetData() != nil {
		return fmt.Sprint(appErr.GetData())
	}

	return err.Error()
}

type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	dryRun bool

	direction version.Direction
	component version.Component
	limit  int
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "bumpversion <increment|decrement> <major|minor|patch>",
		Short: "Bump the version literal stored in a source file",
		Long: "Reads the version file, moves one component of the\n" +
			"<label>.version = '<major>.<minor>.<patch>'; literal by one and\n" +
			"overwrites the whole file with the new literal.",
		Args:              a.parseArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
		RunE:              a.bump,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.New().WithData(errors.ErrUsage, err.Error())
	})

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to the config file (env CRAYON_CONFIG)")
	pf.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warning or error")
	pf.String("file", config.DefaultVersionFile, "File holding the version literal")
	pf.String("label", config.DefaultVersionLabel, "Identifier written in front of .version")
	pf.Bool("history", false, "Record bumps in the history database")
	pf.String("history-db", config.DefaultHistoryDB, "Path to the history database")

	root.Flags().BoolVar(&a.dryRun, "dry-run", false, "Print the new version without writing the file")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded version bumps",
		Args:  cobra.NoArgs,
		RunE:  a.history,
	}
	historyCmd.Flags().IntVar(&a.limit, "limit", defaultHistoryLimit, "Maximum number of entries to show")
	root.AddCommand(historyCmd)

	return root
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags(), config.WithDotEnv(".env"))
	if err != nil {
		return err
	}

	logger.Init(cfg.LogLevel, a.stderr)
	logger.Debug().
		Str("file", cfg.Version.File).
		Str("label", cfg.Version.Label).
		Bool("history", cfg.History.Enabled).
		Msg("Config loaded")

	a.cfg = cfg

	return nil
}

// parseArgs runs before the config is loaded, so usage errors are reported
// even when the configuration is broken.
func (a *app) parseArgs(_ *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.New().WithData(errors.ErrUsage, "not enough arguments")
	}

	var err error
	if a.direction, err = version.ParseDirection(args[0]); err != nil {
		return err
	}
	if a.component, err = version.ParseComponent(args[1]); err != nil {
		return err
	}

	return nil
}

func (a *app) bump(cmd *cobra.Command, _ []string) error {
	bumper := version.NewBumper(a.cfg.Version.File, a.cfg.Version.Label,
		version.WithDryRun(a.dryRun),
		version.WithLogger(logger.Default()),
	)

	res, err := bumper.Bump(cmd.Context(), a.direction, a.component)
	if err != nil {
		return err
	}

	if !res.Written {
		fmt.Fprintf(a.stdout, "Dry run: %s\n", res.Literal)
		return nil
	}

	fmt.Fprintf(a.stdout, "Version number bumped to %s\n", res.Literal)

	a.record(cmd.Context(), res)

	return nil
}

// record journals a completed bump. Failures are logged only; the version
// file has already been rewritten at this point.
func (a *app) record(ctx context.Context, res *version.Result) {
	rec, err := a.recorder()
	if err != nil {
		logger.Warn().Err(err).Msg("History unavailable, bump not recorded")
		return
	}
	defer rec.Close()

	entry := &history.Entry{
		File:      res.File,
		Direction: res.Direction.String(),
		Component: res.Component.String(),
		Old:       res.Old.String(),
		New:       res.New.String(),
	}
	if err := rec.Record(ctx, entry); err != nil {
		logger.Warn().Err(err).Msg("Failed to record bump")
	}
}

func (a *app) history(cmd *cobra.Command, _ []string) error {
	if !a.cfg.History.Enabled {
		return errors.New().WithData(errors.ErrUsage, "history is disabled, enable it with --history or history.enabled")
	}

	rec, err := a.recorder()
	if err != nil {
		return err
	}
	defer rec.Close()

	entries, err := rec.List(cmd.Context(), a.limit)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(a.stdout, "%s  %-9s %-5s %s -> %s  %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Direction, e.Component, e.Old, e.New, e.File)
	}

	return nil
}

func (a *app) recorder() (history.Recorder, error) {
	return history.NewService(history.Config{
		DBPath:  a.cfg.History.Database,
		Enabled: a.cfg.History.Enabled,
	}, logger.Default())
}
