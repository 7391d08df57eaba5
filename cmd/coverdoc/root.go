package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/coverdoc/internal/config"
	"github.com/dgallion1/coverdoc/internal/request"
	"github.com/dgallion1/coverdoc/internal/service"
)

// cli holds state shared by every subcommand of one invocation.
type cli struct {
	format string
	stderr io.Writer
	cfg    config.Config
	svc    *service.Service
	log    *slog.Logger
}

// run executes one CLI invocation and returns the process exit code.
// Failures print an error object to stdout and exit 1.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stderr: stderr}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if werr := c.write(stdout, request.ErrorObjectFrom(err)); werr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "coverdoc",
		Short:         "Résumé and cover-letter structure engine",
		Long:          "coverdoc classifies application pages, splits résumés from cover letters, and segments cover letters and feedback reports into sections.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.format != "json" && c.format != "yaml" {
				return &request.InputError{Message: fmt.Sprintf("unknown format %q (want json or yaml)", c.format)}
			}
			c.cfg = config.Load()
			c.log = slog.New(slog.NewJSONHandler(c.stderr, &slog.HandlerOptions{Level: c.cfg.LogLevel}))
			c.svc = service.FromConfig(c.cfg, c.log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.format, "format", "json", "Output format: json or yaml")

	root.AddCommand(
		c.classifyCmd(),
		c.segmentCmd(),
		c.structureCmd(),
		c.itemsCmd(),
		c.feedbackCmd(),
		c.splitCmd(),
		c.extractCmd(),
		c.mcpCmd(),
	)
	return root
}

// write renders v to w in the selected format.
func (c *cli) write(w io.Writer, v any) error {
	if c.format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
