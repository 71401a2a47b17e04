// Package cli implements the bugreg command tree on top of the registry,
// codec and reconcile packages.
//
// Exit codes: 0 on success, 1 when an operation fails or verify --strict
// sees a mismatch, 2 for usage errors.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"

	"github.com/dkoosis/bugreg/internal/config"
	"github.com/dkoosis/bugreg/internal/logging"
	"github.com/dkoosis/bugreg/internal/version"
	"github.com/dkoosis/bugreg/pkg/browse"
	"github.com/dkoosis/bugreg/pkg/pkgquery"
	"github.com/dkoosis/bugreg/pkg/reconcile"
	"github.com/dkoosis/bugreg/pkg/registry"
)

// Name is the program name used in help and messages.
const Name = "bugreg"

// globalOptions are accepted before or after any command.
type globalOptions struct {
	File     string `short:"f" long:"file" value-name:"LOCATION" description:"registry location: a path, - for stdin/stdout, or s3://bucket/key"`
	Registry string `short:"r" long:"regname" value-name:"NAME" description:"work on the named registry (default: the first)"`
	Format   string `long:"output-format" value-name:"FORMAT" description:"output format: auto, terminal, text, html or json"`
	Theme    string `long:"theme" value-name:"THEME" description:"terminal theme: default, soft or mono"`
	NoColor  bool   `long:"no-color" description:"disable colored output"`
	Lock     bool   `long:"lock" description:"hold an advisory lock on the registry file while editing"`
	LogLevel string `long:"log-level" value-name:"LEVEL" description:"log level: debug, info, warn or error"`
	Config   string `long:"config" value-name:"PATH" description:"config file (default: ./.bugreg.yaml, then the user config dir)"`
}

func (o globalOptions) cliFlags() config.CliFlags {
	return config.CliFlags{
		File:       o.File,
		Registry:   o.Registry,
		Format:     o.Format,
		Theme:      o.Theme,
		LogLevel:   o.LogLevel,
		NoColor:    o.NoColor,
		NoColorSet: o.NoColor,
		Lock:       o.Lock,
		LockSet:    o.Lock,
	}
}

// usageError marks errors that should exit with status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// errMismatch is returned by verify --strict after the table was printed.
var errMismatch = errors.New("results do not match the registry")

// app carries the streams and resolved settings shared by all commands.
type app struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	global globalOptions
	cfg    *config.Resolved
	log    *slog.Logger

	// Overridable collaborators.
	querier func(log *slog.Logger) reconcile.VersionQuerier
	today   func() registry.Date
	browse  func(ctx context.Context, title string, rows []reconcile.Row, reg *registry.Registry) error
}

func newApp(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) *app {
	a := &app{
		ctx:    ctx,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    logging.Discard(),
		today:  registry.Today,
	}
	a.querier = func(log *slog.Logger) reconcile.VersionQuerier {
		return &pkgquery.RPM{Logger: log}
	}
	a.browse = func(ctx context.Context, title string, rows []reconcile.Row, reg *registry.Registry) error {
		return browse.Run(ctx, title, rows, reg, a.stdin, a.stdout)
	}
	return a
}

// Run executes the command line args and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newApp(ctx, stdin, stdout, stderr).run(args)
}

func (a *app) run(args []string) int {
	parser := a.parser()
	_, err := parser.ParseArgs(args)
	return a.exitCode(err)
}

func (a *app) parser() *flags.Parser {
	parser := flags.NewParser(&a.global, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = Name
	parser.ShortDescription = "test expectation registry"
	parser.LongDescription = "Record which tests are expected to pass, check JUnit results against " +
		"those expectations and keep triage notes next to them."

	mustAdd(parser.AddCommand("list", "List expected outcomes",
		"List every test case with its expected outcome, one table per registry.", &listCommand{app: a}))
	mustAdd(parser.AddCommand("info", "Show one test case",
		"Show the expected outcome, notes, bugs and fixes of one test case.", &infoCommand{app: a}))
	mustAdd(parser.AddCommand("verify", "Check results against the registry",
		"Classify each JUnit result against the selected registry. The registry is chosen by --regname, "+
			"else by the results file name, else the only registry in the document.", &verifyCommand{app: a}))
	mustAdd(parser.AddCommand("compare", "Compare two registry documents",
		"Compare registries of the same name in two documents, including recorded module versions.", &compareCommand{app: a}))
	mustAdd(parser.AddCommand("create", "Create registries from results",
		"Create one registry per JUnit results file and write the document to --file.", &createCommand{app: a}))
	mustAdd(parser.AddCommand("merge", "Merge two registry documents",
		"Add test cases from the second document that the first lacks. Existing entries are never changed. "+
			"The merged document is written to --file.", &mergeCommand{app: a}))
	mustAdd(parser.AddCommand("browse", "Browse verify results interactively",
		"Open an interactive view of verify results.", &browseCommand{app: a}))
	mustAdd(parser.AddCommand("edit", "Modify a test case",
		editLongDescription, &editCommand{app: a}))

	meta, err := parser.AddCommand("meta", "Modify registry metadata",
		"Change the date or the module versions recorded in a registry.", &struct{}{})
	mustAdd(meta, err)
	mustAdd(meta.AddCommand("set-date", "Set the registry date",
		"Set the registry date. Most date layouts are accepted; the default is today.", &setDateCommand{app: a}))
	mustAdd(meta.AddCommand("set-module-version", "Record a module version",
		"Record the version of a module. A version of 'none' removes the module's entries of that type.",
		&setModuleVersionCommand{app: a}))

	mustAdd(parser.AddCommand("version", "Print version information", "", &versionCommand{app: a}))

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := a.setup(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}
	return parser
}

func mustAdd(_ *flags.Command, err error) {
	if err != nil {
		panic(err)
	}
}

// setup resolves configuration and builds the logger. It runs after flags
// are parsed and before the selected command executes.
func (a *app) setup() error {
	fileCfg, warn := config.LoadConfig(a.global.Config)
	cfg, err := config.Resolve(fileCfg, a.global.cliFlags())
	if err != nil {
		return usageError{err}
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return usageError{err}
	}
	a.cfg = cfg
	a.log = logging.New(a.stderr, logging.Options{Level: level, NoColor: cfg.NoColor})
	if warn != nil {
		a.log.Warn("ignoring config file", "error", warn)
	}
	a.log.Debug("configuration resolved",
		"file", cfg.File, "file_source", cfg.FileSource,
		"format", cfg.Format, "format_source", cfg.FormatSource)
	return nil
}

func (a *app) exitCode(err error) int {
	if err == nil {
		return 0
	}

	var ferr *flags.Error
	if errors.As(err, &ferr) {
		if ferr.Type == flags.ErrHelp {
			fmt.Fprint(a.stdout, ferr.Message)
			return 0
		}
		fmt.Fprintf(a.stderr, "%s: %s\n", Name, ferr.Message)
		return 2
	}

	var uerr usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(a.stderr, "%s: %v\n", Name, uerr.err)
		return 2
	}
	if errors.Is(err, errMismatch) {
		return 1
	}

	a.log.Debug("command failed", "kind", registry.KindOf(err).String())
	fmt.Fprintf(a.stderr, "%s: %v\n", Name, err)
	return 1
}

type versionCommand struct{ app *app }

func (c *versionCommand) Execute(_ []string) error {
	fmt.Fprintln(c.app.stdout, version.String(Name))
	return nil
}
