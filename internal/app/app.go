// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"lacthermo/internal/config"
	"lacthermo/internal/constants"
	"lacthermo/internal/logging"
	"lacthermo/internal/seqmat"
	"lacthermo/internal/thermo"
	"lacthermo/internal/version"
	"lacthermo/internal/writers"
)

// Exit codes.
const (
	exitOK       = 0
	exitNoMatch  = 1
	exitUsage    = 2
	exitIO       = 3
	exitCanceled = 130
)

// exitError carries the exit code chosen for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(err error) error { return &exitError{code: exitUsage, err: err} }
func ioErr(err error) error    { return &exitError{code: exitIO, err: err} }

var errNoRows = errors.New("no experimental rows in input")

// runtime is the per-invocation state shared by every command.
type runtime struct {
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper
	cfg    config.Config
	table  constants.Table
	log    *slog.Logger
}

// gridFlags are bound to viper only when the running command defines them.
var gridFlags = map[string]string{
	"iptg-min": "grid.iptg-min",
	"iptg-max": "grid.iptg-max",
	"rep-min":  "grid.rep-min",
	"rep-max":  "grid.rep-max",
	"points":   "grid.points",
}

// RunContext executes the lacthermo CLI and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	rt := &runtime{stdout: outw, stderr: stderr, v: config.New()}

	root := newRootCmd(rt)
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)

	err := root.ExecuteContext(parent)
	if ferr := outw.Flush(); ferr != nil && !writers.IsBrokenPipe(ferr) && err == nil {
		err = ioErr(ferr)
	}
	if err == nil {
		return exitOK
	}
	if parent.Err() != nil && errors.Is(err, parent.Err()) {
		return exitCanceled
	}
	code := exitCode(err)
	if code != exitOK {
		_, _ = fmt.Fprintf(stderr, "lacthermo: %v\n", err)
	}
	return code
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func exitCode(err error) int {
	var xe *exitError
	if errors.As(err, &xe) {
		return xe.code
	}
	if writers.IsBrokenPipe(err) {
		return exitOK
	}
	var (
		pe *thermo.InvalidParameterError
		se *thermo.ShapeMismatchError
		ae *seqmat.UnknownAlphabetError
		ue *seqmat.UnknownSymbolError
	)
	switch {
	case errors.As(err, &pe), errors.As(err, &se), errors.As(err, &ae), errors.As(err, &ue),
		errors.Is(err, seqmat.ErrEmptySequence):
		return exitUsage
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return exitIO
	}
	// cobra reports unknown commands and bad arguments as plain errors
	return exitUsage
}

func newRootCmd(rt *runtime) *cobra.Command {
	var cfgPath, envPath string

	root := &cobra.Command{
		Use:   "lacthermo",
		Short: "Thermodynamic model of lac repressor induction",
		Long: `lacthermo evaluates the MWC simple-repression model of the lac repressor:
induction curves, repressor titrations, induction properties and model vs.
data comparisons. Output is TSV, JSON, JSONL or a pretty table.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd, cfgPath, envPath)
		},
	}
	root.SetVersionTemplate("lacthermo version {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageErr(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default ./lacthermo.yaml or $XDG_CONFIG_HOME/lacthermo/)")
	pf.StringVar(&envPath, "env-file", ".env", "dotenv file with LACTHERMO_* overrides")
	pf.String("constants", "", "constants table (.yaml or .toml) overlaid on the built-in values")
	pf.StringP("output", "o", writers.FormatTSV, "output format: tsv | json | jsonl | pretty")
	pf.Bool("no-header", false, "omit the header row (tsv, pretty)")
	pf.String("log-level", "info", "log level: debug | info | warn | error")
	pf.BoolP("quiet", "q", false, "only log errors")
	for _, key := range []string{"constants", "output", "no-header", "log-level", "quiet"} {
		_ = rt.v.BindPFlag(key, pf.Lookup(key))
	}

	root.AddCommand(
		newCurveCmd(rt),
		newTitrationCmd(rt),
		newPropertiesCmd(rt),
		newCompareCmd(rt),
		newSeqmatCmd(rt),
		newConstantsCmd(rt),
	)
	return root
}

// setup resolves configuration for the running command: dotenv, config file,
// flags, then the logger and constants table.
func (rt *runtime) setup(cmd *cobra.Command, cfgPath, envPath string) error {
	if err := config.LoadDotEnv(envPath); err != nil {
		return ioErr(err)
	}
	if err := config.ReadFile(rt.v, cfgPath); err != nil {
		return ioErr(err)
	}
	bindGridFlags(rt.v, cmd.Flags())

	cfg, err := config.Decode(rt.v)
	if err != nil {
		return usageErr(err)
	}
	rt.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return usageErr(err)
	}
	rt.log = logging.New(rt.stderr, level, cfg.Quiet)

	if cfg.Constants == "" {
		rt.table = constants.Default()
		return nil
	}
	rt.table, err = constants.Load(cfg.Constants)
	if errors.Is(err, fs.ErrNotExist) {
		return ioErr(err)
	}
	if err != nil {
		return usageErr(err)
	}
	rt.log.Debug("constants loaded", "path", cfg.Constants,
		"operators", len(rt.table.Operators), "strains", len(rt.table.Repressors))
	return nil
}

func bindGridFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for name, key := range gridFlags {
		if f := flags.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// write streams rows produced by fill to stdout in the configured format.
func (rt *runtime) write(columns []string, fill func(out chan<- writers.Row) error) error {
	opt := writers.Options{Columns: columns, Header: !rt.cfg.NoHeader}
	in, done := writers.Start(rt.stdout, rt.cfg.Output, opt, 0)
	ferr := fill(in)
	close(in)
	werr := <-done
	if ferr != nil {
		return ferr
	}
	if werr != nil {
		return ioErr(werr)
	}
	return nil
}
