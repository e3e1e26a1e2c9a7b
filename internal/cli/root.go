// Package cli wires the cobra command tree to the application.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bethropolis/code-combiner/internal/app"
	"github.com/bethropolis/code-combiner/internal/config"
)

type options struct {
	stdout  io.Writer
	stderr  io.Writer
	appOpts []app.Option
}

// Option customizes the command tree
type Option func(*options)

// WithOutput sets where the artifact (for -o -) and the logs go
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithAppOptions passes extra options to every App the command creates
func WithAppOptions(opts ...app.Option) Option {
	return func(o *options) {
		o.appOpts = append(o.appOpts, opts...)
	}
}

// NewRootCommand builds `code-combiner [root]` and its subcommands
func NewRootCommand(opts ...Option) *cobra.Command {
	o := &options{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	v := config.NewViper()

	root := &cobra.Command{
		Use:   "code-combiner [root]",
		Short: "Combine the text files of a directory tree into one file",
		Long: `code-combiner walks a directory tree, skips everything matched by the
ignore rules in .codeignore (or a built-in default list) and writes the
remaining text files into a single artifact with a metadata header.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDir := "."
			if len(args) == 1 {
				rootDir = args[0]
			}

			cfg, err := config.Load(v, rootDir)
			if err != nil {
				return err
			}

			appOpts := append([]app.Option{
				app.WithStdout(cmd.OutOrStdout()),
				app.WithStderr(cmd.ErrOrStderr()),
			}, o.appOpts...)
			return app.New(cfg, appOpts...).Run(cmd.Context())
		},
	}
	root.SetOut(o.stdout)
	root.SetErr(o.stderr)

	registerFlags(root.Flags())
	cobra.CheckErr(v.BindPFlags(root.Flags()))

	root.AddCommand(newVersionCommand())
	return root
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String(config.KeyRules, "", "Ignore rules file (default <root>/.codeignore)")
	flags.StringP(config.KeyOutput, "o", config.DefaultOutputFile, "Output file, '-' for stdout")
	flags.String(config.KeyFormat, "plain", "Output format: plain, markdown or json")
	flags.Int64(config.KeyMaxSize, 0, "Max file size to process in MB (0 = no limit)")
	flags.String(config.KeyExt, "", "Only include files with these extensions (comma-separated, e.g. 'go,md,txt')")
	flags.Bool(config.KeyShowSkipped, false, "Show a list of skipped files/directories and reasons at the end")
	flags.Bool(config.KeyProgress, false, "Show progress information")
	flags.Bool(config.KeyClipboard, false, "Also copy the output to the system clipboard")
	flags.Duration(config.KeyTimeout, 0, "Maximum execution time (e.g. '30s', '5m')")
	flags.BoolP(config.KeyVerbose, "v", false, "Enable verbose logging")
	flags.BoolP(config.KeyQuiet, "q", false, "Suppress INFO messages (only show WARN, ERROR)")
	flags.String(config.KeyLogLevel, "", "Set the logging level (debug, info, warn, error, none)")
	flags.Bool(config.KeyNoColor, false, "Disable color output")
	flags.String(config.KeyConfig, "", "Settings file (YAML, TOML or JSON)")
}

// Execute runs the command tree with the process arguments
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
