package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/abx/internal/shared"
	"github.com/desertthunder/abx/internal/source"
	"github.com/desertthunder/abx/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	progress   io.Writer
	tty        bool
	opener     source.Opener
	engine     *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer     // Command results
	Progress   io.Writer     // Progress bar, drawn only when TTY is set
	TTY        *bool         // Overrides terminal detection on Progress
	Opener     source.Opener // Overrides the configured source
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Progress == nil {
		opts.Progress = os.Stderr
	}

	tty := isTerminal(opts.Progress)
	if opts.TTY != nil {
		tty = *opts.TTY
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		progress:   opts.Progress,
		tty:        tty,
		opener:     opts.Opener,
	}
	if r.opener != nil {
		r.engine = tasks.NewEngine(r.opener, r.logger, r.config.Jobs.ProgressBuffer)
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		countCommand, getCommand, meCommand, listCommand, exportCommand, tuiCommand, serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file named by --config, applies environment overrides and the log level.
//
// A missing file is not an error: the embedded defaults are used.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		config, err := shared.LoadConfig(r.configPath)
		switch {
		case err == nil:
			r.config = config
		case errors.Is(err, os.ErrNotExist):
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		default:
			return ctx, err
		}
	}

	if err := r.config.ApplyEnv(); err != nil {
		return ctx, err
	}

	level, err := shared.ParseLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// SetLogger replaces the logger, rebuilding the engine so its jobs log to the new destination.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.engine != nil {
		r.engine = tasks.NewEngine(r.opener, logger, r.config.Jobs.ProgressBuffer)
	}
}

// Engine returns the contact engine, creating it from the configured source on first use.
func (r *Runner) Engine() (*tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}
	opener, err := source.NewOpener(r.config.Source.Kind, r.config.SourcePath(), r.config.Source.OwnerID)
	if err != nil {
		return nil, err
	}
	r.opener = opener
	r.engine = tasks.NewEngine(opener, shared.WithLogger(r.logger, "source", r.config.Source.Kind), r.config.Jobs.ProgressBuffer)
	return r.engine, nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
