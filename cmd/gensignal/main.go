package main

import (
	"bufio"
	"io"
	"os"

	"codeberg.org/mutker/crayontools/internal/config"
	"codeberg.org/mutker/crayontools/internal/errors"
	"codeberg.org/mutker/crayontools/internal/generate"
	"codeberg.org/mutker/crayontools/internal/logger"
	"github.com/spf13/cobra"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Reconfigured once the config is loaded.
	logger.Init(config.DefaultLogLevel, stderr)

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.ErrorWithCode(appErr).Msg("Generation failed")
		if appErr.Code() == errors.ErrUsage {
			return exitUsage
		}
	} else {
		// cobra reports missing required flags and unknown commands as plain errors
		logger.Error().Err(err).Msg("Generation failed")
		return exitUsage
	}

	return exitError
}

type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer

	start, stop int
	yMin, yMax  int
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:               "gensignal",
		Short:             "Print random spike trains and signals as comma terminated lines",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.New().WithData(errors.ErrUsage, err.Error())
	})

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to the config file (env CRAYON_CONFIG)")
	pf.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warning or error")
	pf.Int64("seed", 0, "Random seed, 0 seeds from the clock")

	spikes := &cobra.Command{
		Use:   "spikes",
		Short: "Print spike timestamps advancing by random steps in [2, max-step]",
		Args:  cobra.NoArgs,
		RunE:  a.spikes,
	}
	a.rangeFlags(spikes)
	spikes.Flags().Int("max-step", generate.DefaultMaxStep, "Largest step between two spikes")

	signal := &cobra.Command{
		Use:   "signal",
		Short: "Print (time, value) samples with values drawn from [y-min, y-max]",
		Args:  cobra.NoArgs,
		RunE:  a.signal,
	}
	a.rangeFlags(signal)
	signal.Flags().IntVar(&a.yMin, "y-min", 0, "Smallest sample value")
	signal.Flags().IntVar(&a.yMax, "y-max", 0, "Largest sample value")
	signal.Flags().Int("step", generate.DefaultStep, "Time between two samples")
	_ = signal.MarkFlagRequired("y-min")
	_ = signal.MarkFlagRequired("y-max")

	root.AddCommand(spikes, signal)

	return root
}

func (a *app) rangeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&a.start, "start", 0, "Start time")
	cmd.Flags().IntVar(&a.stop, "stop", 0, "Stop time")
	_ = cmd.MarkFlagRequired("stop")
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger.Init(cfg.LogLevel, a.stderr)
	a.cfg = cfg

	return nil
}

func (a *app) generator() *generate.Generator {
	return generate.New(generate.NewSource(a.cfg.Generator.Seed))
}

func (a *app) spikes(_ *cobra.Command, _ []string) error {
	w := bufio.NewWriter(a.stdout)
	p := generate.NewPrinter(w)

	if err := a.generator().SpikeTrain(a.start, a.stop, a.cfg.Generator.MaxStep, p.Spike); err != nil {
		w.Flush()
		return err
	}

	return w.Flush()
}

func (a *app) signal(_ *cobra.Command, _ []string) error {
	w := bufio.NewWriter(a.stdout)
	p := generate.NewPrinter(w)

	err := a.generator().Signal(a.start, a.stop, a.yMin, a.yMax, a.cfg.Generator.Step, p.Point)
	if err != nil {
		w.Flush()
		return err
	}

	return w.Flush()
}
