package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/abx/internal/formatter"
	"github.com/desertthunder/abx/internal/models"
	"github.com/desertthunder/abx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Count prints the number of contacts.
func (r *Runner) Count(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.Engine()
	if err != nil {
		return err
	}

	n, err := engine.Count(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("%d\n", n)
}

// Get prints the contact at the index argument.
func (r *Runner) Get(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("index")
	if raw == "" {
		return fmt.Errorf("%w: index is required", shared.ErrMissingArgument)
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: index %q is not an integer", shared.ErrInvalidArgument, raw)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	c, err := engine.Get(ctx, index)
	if err != nil {
		return err
	}
	return formatter.WriteOne(r.output, format, formatter.Present(c))
}

// Me prints the owner card.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.Engine()
	if err != nil {
		return err
	}

	c, err := engine.Me(ctx)
	if err != nil {
		return err
	}
	return formatter.WriteOne(r.output, format, formatter.Present(c))
}

// List enumerates every contact and prints them.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	contacts, err := r.enumerate(ctx)
	if err != nil {
		return err
	}
	return formatter.Write(r.output, format, formatter.PresentAll(contacts))
}

// Export enumerates every contact into --output, or stdout when unset.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	contacts, err := r.enumerate(ctx)
	if err != nil {
		return err
	}
	presented := formatter.PresentAll(contacts)

	path := cmd.String("output")
	if path == "" {
		return formatter.Write(r.output, format, presented)
	}
	if err := formatter.WriteFile(path, format, presented); err != nil {
		return err
	}
	r.logger.Info("export complete", "path", path, "format", format, "contacts", len(presented))
	return nil
}

// enumerate runs a job to completion, drawing its progress on the calling goroutine.
func (r *Runner) enumerate(ctx context.Context) ([]models.ContactRecord, error) {
	engine, err := r.Engine()
	if err != nil {
		return nil, err
	}

	job := engine.Start(ctx)
	r.logger.Debug("enumeration started", "job", job.ID())

	bar := newProgressBar(r.progress, r.tty)
	var (
		contacts []models.ContactRecord
		jobErr   error
	)
	job.Run(bar.Update, func(c []models.ContactRecord, err error) {
		bar.Finish()
		contacts, jobErr = c, err
	})
	return contacts, jobErr
}
