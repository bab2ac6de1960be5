package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/abx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example config to --output.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if path == "" {
		return fmt.Errorf("%w: --output must not be empty", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Edit [source] to point at your address book, then run 'abx count' to check it.\n")
	return nil
}
