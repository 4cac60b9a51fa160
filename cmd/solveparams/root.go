package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "SOLVEPARAMS"

// Output formats for translate.
const (
	formatText     = "text"
	formatYAML     = "yaml"
	formatMarkdown = "markdown"
)

// app carries the state shared by all subcommands.
type app struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "solveparams",
		Short: "Translate vendor-neutral solve parameters into back-end settings",
		Long: `solveparams normalizes the common parameters of a solve request and
translates them into the settings of one optimization back-end
(gurobi, gscip, glop, cp_sat or highs).

Defaults for the global flags are read from SOLVEPARAMS_* environment
variables, which may be placed in a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("env", ".env", "path to .env file (ignored if missing)")
	flags.Bool("verbose", false, "log debug output to stderr")
	flags.Bool("strict", false, "reject instead of adjusting unsupported parameters")
	flags.String("backend", "", "back-end to translate for, overriding the request file")
	flags.String("format", formatText, "output format: text, yaml or markdown")
	flags.Bool("metrics", false, "print translation metrics to stderr")

	for _, name := range []string{"verbose", "strict", "backend", "format", "metrics"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newTranslateCmd(a),
		newDiffCmd(a),
		newCapabilitiesCmd(a),
		newWizardCmd(a),
	)

	return root
}

// init loads the .env file and builds the logger. It runs before every
// subcommand.
func (a *app) init(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString("env")
	if err != nil {
		return err
	}
	if err := loadDotEnv(envFile); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	switch f := a.format(); f {
	case formatText, formatYAML, formatMarkdown:
	default:
		return fmt.Errorf("unknown format %q", f)
	}

	log, err := newLogger(a.v.GetBool("verbose"))
	if err != nil {
		return err
	}
	a.log = log

	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	log, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

func (a *app) strict() bool { return a.v.GetBool("strict") }

func (a *app) format() string { return strings.ToLower(a.v.GetString("format")) }

// backend returns the back-end forced by flag or environment, if any.
func (a *app) backend() (backend.Kind, bool, error) {
	name := a.v.GetString("backend")
	if name == "" {
		return "", false, nil
	}
	k, ok := backend.ParseKind(name)
	if !ok {
		return "", false, fmt.Errorf("unknown backend %q", name)
	}
	return k, true, nil
}
