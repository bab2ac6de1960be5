// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/desertthunder/abx/internal/formatter"
	"github.com/urfave/cli/v3"
)

func formatFlag(value string) cli.Flag {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("Output format (%s)", strings.Join(names, ", ")),
		Value:   value,
	}
}

// countCommand prints the number of contacts
func countCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "count",
		Usage:  "Print the number of contacts in the address book",
		Action: r.Count,
	}
}

// getCommand prints one contact by index
func getCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "Print the contact at a zero-based index",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "index"},
		},
		Flags:  []cli.Flag{formatFlag("json")},
		Action: r.Get,
	}
}

// meCommand prints the owner card
func meCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "me",
		Usage:  "Print the address book owner's card",
		Flags:  []cli.Flag{formatFlag("json")},
		Action: r.Me,
	}
}

// listCommand enumerates every contact with progress
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Read every contact and print them",
		Flags:   []cli.Flag{formatFlag("text")},
		Action:  r.List,
	}
}

// exportCommand enumerates every contact into a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export every contact to a file or stdout",
		Flags: []cli.Flag{
			formatFlag("json"),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing contacts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where TUI logs are written",
				Value: "./tmp/abx-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// serveCommand starts the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve contacts over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default from config)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the config file to create",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
