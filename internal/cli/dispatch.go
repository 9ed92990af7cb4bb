// Package cli handles command-line parsing and dispatch for skeleton.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/NielsdaWheelz/skeleton/internal/commands"
	"github.com/NielsdaWheelz/skeleton/internal/errors"
	"github.com/NielsdaWheelz/skeleton/internal/fs"
	"github.com/NielsdaWheelz/skeleton/internal/paths"
	"github.com/NielsdaWheelz/skeleton/internal/version"
)

const longHelp = `skeleton writes the WorldFund web-project skeleton (directories, config
files, React/Vite sources) into a root directory.

Existing directories are kept; every manifest file is rewritten with its
template content, so running it again resets those files. Use --dry-run to
see what would change.`

const examples = `  skeleton --root ./worldfund
  skeleton --dry-run --json
  skeleton --manifest ./site.txtar --atomic
  skeleton list`

// globalFlags are shared by every command.
type globalFlags struct {
	verbosity  int
	configPath string
	manifest   string
	json       bool
}

func (g *globalFlags) sources() commands.SourceOpts {
	return commands.SourceOpts{
		UserConfig: paths.UserConfigFile(paths.OSEnv{}),
		ConfigPath: g.configPath,
		Manifest:   g.manifest,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns an error if the command fails; the caller should print the error and exit.
func Run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(context.Background())
	if err == nil {
		return nil
	}
	if _, ok := errors.AsCodedError(err); !ok {
		// Argument errors come from cobra without a code.
		fmt.Fprint(stderr, cmd.UsageString())
		return errors.Wrap(errors.EUsage, "invalid usage", err)
	}
	if errors.GetCode(err) == errors.EUsage {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return err
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	var opts commands.MaterializeOpts

	root := &cobra.Command{
		Use:           "skeleton",
		Short:         "Materialize the WorldFund project skeleton",
		Long:          longHelp,
		Example:       examples,
		Args:          cobra.NoArgs,
		SilenceErrors: true, // main prints errors with their code
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := newLogger(stderr, g.verbosity)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return err
			}
			opts.SourceOpts = g.sources()
			opts.JSON = g.json
			return commands.Materialize(cmd.Context(), fs.NewRealFS(), cwd, opts, stdout)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(errors.EUsage, "invalid flags", err)
	})

	pf := root.PersistentFlags()
	pf.CountVarP(&g.verbosity, "verbose", "v", "verbose output (repeat for trace)")
	pf.StringVar(&g.configPath, "config", "", "config file (TOML) applied after the user config")
	pf.StringVar(&g.manifest, "manifest", "", "txtar manifest to use instead of the built-in one")
	pf.BoolVar(&g.json, "json", false, "write machine-readable JSON to stdout")

	addMaterializeFlags(root.Flags(), &opts)

	root.AddCommand(newListCmd(g, stdout), newVersionCmd(stdout))
	return root
}

func addMaterializeFlags(f *pflag.FlagSet, opts *commands.MaterializeOpts) {
	f.StringVar(&opts.Root, "root", "", "directory to write into (default: current directory)")
	f.BoolVar(&opts.Atomic, "atomic", false, "replace each file through a temp file and rename")
	f.BoolVar(&opts.DryRun, "dry-run", false, "report what would change without writing")
	f.BoolVar(&opts.Gitignore, "gitignore", false, "add .vercel/ and node_modules/ to <root>/.gitignore")
	f.SortFlags = false
}

func newListCmd(g *globalFlags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the manifest's directories and files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := getwd()
			if err != nil {
				return err
			}
			opts := commands.ListOpts{SourceOpts: g.sources(), JSON: g.json}
			return commands.List(cmd.Context(), fs.NewRealFS(), cwd, opts, stdout)
		},
	}
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the skeleton version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "skeleton %s\n", version.String())
		},
	}
}

// newLogger writes human-readable logs to stderr: info by default, debug
// with -v, trace with -vv.
func newLogger(w io.Writer, verbosity int) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbosity == 1 {
		level = zerolog.DebugLevel
	} else if verbosity >= 2 {
		level = zerolog.TraceLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func getwd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(errors.EInternal, "failed to get working directory", err)
	}
	return cwd, nil
}
