// Package main provides the passgen command. It writes every substitution
// variant of a base password, optionally masked and hashed, as a wordlist.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/isseis/go-passgen/internal/color"
	"github.com/isseis/go-passgen/internal/config"
	"github.com/isseis/go-passgen/internal/digest"
	"github.com/isseis/go-passgen/internal/expansion"
	"github.com/isseis/go-passgen/internal/generator"
	"github.com/isseis/go-passgen/internal/logging"
	"github.com/isseis/go-passgen/internal/mask"
	"github.com/isseis/go-passgen/internal/table"
	"github.com/isseis/go-passgen/internal/terminal"
)

var (
	errPasswordAndList   = errors.New("-password and -list-mutation-tables are mutually exclusive")
	errHashFlagsConflict = errors.New("-disable-build-hash and -hash-alg are mutually exclusive")
	errTooManyArgs       = errors.New("at most one base password may be given")
	errAborted           = errors.New("aborted by user")

	// Replaced in tests.
	newCapabilities = func(opts terminal.Options) terminal.Capabilities {
		return terminal.NewCapabilities(opts)
	}
	executableDir = func() string {
		exe, err := os.Executable()
		if err != nil {
			return "."
		}
		return filepath.Dir(exe)
	}
)

type cliOptions struct {
	password    string
	list        bool
	tablePath   string
	table       string
	mask        string
	maskClasses bool
	output      string
	force       bool
	verbose     bool
	disableHash bool
	hashAlg     string
	configPath  string
	envFile     string
	workers     int
	yes         bool
	logLevel    string

	// set holds the names of flags given on the command line, aliases
	// reported under their long name.
	set map[string]bool
}

var flagAliases = map[string]string{
	"p": "password",
	"l": "list-mutation-tables",
	"t": "mutation-table",
	"m": "mask",
	"o": "output",
	"v": "verbose",
	"n": "disable-build-hash",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, fs, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSuccess
		}
		printUsage(fs, stderr)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel) // validated by loadConfig
	caps := newCapabilities(terminal.Options{})
	logger, err := logging.Setup(logging.Options{
		Level:        level,
		Verbose:      opts.verbose,
		Writer:       stderr,
		Capabilities: caps,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: failed to set up logging: %v\n", err)
		return exitFailure
	}
	logger.Debug("Starting passgen")

	tableDir := cfg.TablePath
	if tableDir == "" {
		tableDir = executableDir()
	}

	if opts.list {
		return listTables(tableDir, caps.SupportsColor(), stdout, logger)
	}

	if opts.password == "" {
		logger.Error("No password given")
		return exitNoPasswordProvided
	}

	err = generate(ctx, opts, cfg, tableDir, caps, logger, stdin, stdout, stderr)
	if err != nil {
		logger.Error("Generation failed", "error", err)
	}
	return exitCodeFor(err)
}

func parseArgs(args []string, stderr io.Writer) (*cliOptions, *flag.FlagSet, error) {
	opts := &cliOptions{set: make(map[string]bool)}

	fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }
	fs.StringVar(&opts.password, "password", "", "Base password where all mutations will be performed")
	fs.StringVar(&opts.password, "p", "", "Short alias for -password")
	fs.BoolVar(&opts.list, "list-mutation-tables", false, "List mutation tables")
	fs.BoolVar(&opts.list, "l", false, "Short alias for -list-mutation-tables")
	fs.StringVar(&opts.tablePath, "mutations-table-path", "", "Directory containing mutation tables (default: directory of the executable)")
	fs.StringVar(&opts.table, "mutation-table", table.DefaultTableName, "Table to use; built-in tables are used when not found on disk")
	fs.StringVar(&opts.table, "t", table.DefaultTableName, "Short alias for -mutation-table")
	fs.StringVar(&opts.mask, "mask", "", "Insert a pattern into every candidate, e.g. '__[0-9]' turns 'Test' into 'Te[0-9]st'")
	fs.StringVar(&opts.mask, "m", "", "Short alias for -mask")
	fs.BoolVar(&opts.maskClasses, "mask-classes", false, "Expand mask character classes into their members")
	fs.StringVar(&opts.output, "output", "-", "Output file ('-' for stdout)")
	fs.StringVar(&opts.output, "o", "-", "Short alias for -output")
	fs.BoolVar(&opts.force, "force", false, "Overwrite an existing output file")
	fs.BoolVar(&opts.verbose, "verbose", false, "Display more information on stderr")
	fs.BoolVar(&opts.verbose, "v", false, "Short alias for -verbose")
	fs.BoolVar(&opts.disableHash, "disable-build-hash", false, "Disable hash computation")
	fs.BoolVar(&opts.disableHash, "n", false, "Short alias for -disable-build-hash")
	fs.StringVar(&opts.hashAlg, "hash-alg", digest.DefaultAlgorithm.String(),
		fmt.Sprintf("Hash algorithm (%s)", strings.Join(digest.Names(), ", ")))
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML configuration file")
	fs.StringVar(&opts.envFile, "env-file", "", "Path to a dotenv file with PASSGEN_* settings")
	fs.IntVar(&opts.workers, "workers", 0, "Number of digest workers (default: number of CPUs)")
	fs.BoolVar(&opts.yes, "yes", false, "Do not ask for confirmation on large inputs")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := flagAliases[name]; ok {
			name = long
		}
		opts.set[name] = true
	})

	switch rest := fs.Args(); {
	case len(rest) > 1:
		return nil, fs, errTooManyArgs
	case len(rest) == 1 && !opts.set["password"]:
		opts.password = rest[0]
		opts.set["password"] = true
	case len(rest) == 1:
		return nil, fs, errTooManyArgs
	}

	if opts.set["password"] && opts.list {
		return nil, fs, errPasswordAndList
	}
	if opts.set["disable-build-hash"] && opts.set["hash-alg"] {
		return nil, fs, errHashFlagsConflict
	}
	return opts, fs, nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	if fs == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Usage: %s [flags] [-p] <password>\n", filepath.Base(os.Args[0]))
	_, _ = fmt.Fprintf(w, "       %s -l [-mutations-table-path DIR]\n", filepath.Base(os.Args[0]))
	fs.PrintDefaults()
}

// loadConfig layers defaults, the config file, the env file, the process
// environment and explicitly given flags, in increasing precedence.
func loadConfig(opts *cliOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	var fileEnv map[string]string
	if opts.envFile != "" {
		env, err := config.LoadEnvFile(opts.envFile)
		if err != nil {
			return config.Config{}, err
		}
		fileEnv = env
	}
	if err := cfg.ApplyEnv(config.MergeEnv(fileEnv, config.ProcessEnv())); err != nil {
		return config.Config{}, err
	}

	if opts.set["mutations-table-path"] {
		cfg.TablePath = opts.tablePath
	}
	if opts.set["mutation-table"] {
		cfg.Table = opts.table
	}
	if opts.set["mask"] {
		cfg.Mask = opts.mask
	}
	if opts.set["mask-classes"] {
		cfg.MaskClasses = opts.maskClasses
	}
	if opts.set["disable-build-hash"] {
		cfg.DisableHash = opts.disableHash
	}
	if opts.set["hash-alg"] {
		alg, err := digest.ParseAlgorithm(opts.hashAlg)
		if err != nil {
			return config.Config{}, err
		}
		cfg.HashAlg = alg
		cfg.DisableHash = false
	}
	if opts.set["workers"] {
		cfg.Workers = opts.workers
	}
	if opts.set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func listTables(dir string, useColor bool, stdout io.Writer, logger *slog.Logger) int {
	logger.Debug("Looking for tables", "dir", dir)
	code := exitSuccess
	names, err := table.List(dir)
	if err != nil {
		logger.Warn("No tables found !", "dir", dir, "error", err)
		code = exitNoTablesFound
	}
	bold, cyan := color.Bold.When(useColor), color.Cyan.When(useColor)
	for _, name := range names {
		_, _ = fmt.Fprintln(stdout, bold(name))
	}
	for _, name := range table.Builtins() {
		_, _ = fmt.Fprintf(stdout, "%s %s\n", bold(name), cyan("(builtin)"))
	}
	return code
}

func generate(ctx context.Context, opts *cliOptions, cfg config.Config, tableDir string,
	caps terminal.Capabilities, logger *slog.Logger, stdin io.Reader, stdout, stderr io.Writer,
) error {
	logger.Debug("Loading table", "dir", tableDir, "table", cfg.Table)
	tbl, err := table.Resolve(tableDir, cfg.Table)
	if err != nil {
		return err
	}

	var spec mask.Spec
	if cfg.Mask != "" {
		if spec, err = mask.Parse(cfg.Mask); err != nil {
			return err
		}
	}

	digester, err := digest.NewDigester(cfg.HashAlg, !cfg.DisableHash)
	if err != nil {
		return err
	}
	if digester.Enabled() {
		logger.Debug("Digest configured", "hash_alg", digester.Algorithm(), "hex_len", digester.Algorithm().HexLen())
	}

	seq, err := expansion.BuildSequence(opts.password, tbl)
	if err != nil {
		return err
	}
	if err := confirmLargeInput(opts, cfg, seq.Count(), caps, stdin, stderr); err != nil {
		return err
	}

	out, err := generator.OpenOutput(opts.output, opts.force, stdout)
	if err != nil {
		return fmt.Errorf("failed to open output %s: %w", opts.output, err)
	}

	stats, err := generator.Run(ctx, generator.Request{
		Base:              opts.password,
		Table:             tbl,
		Sequence:          seq,
		Mask:              spec,
		ExpandMaskClasses: cfg.MaskClasses,
		Digester:          digester,
		Workers:           cfg.Workers,
		Logger:            logger,
	}, out)
	closeErr := out.Close()
	if err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output %s: %w", opts.output, closeErr)
	}
	if err != nil {
		if opts.output != "" && opts.output != "-" {
			_ = os.Remove(opts.output)
		}
		return err
	}

	logger.Debug(fmt.Sprintf("%s passwords generated", humanize.Comma(int64(stats.Written))),
		"unique", stats.Unique, "expected", stats.Expected.String())
	return nil
}

// confirmLargeInput warns when the base or the expected candidate count
// crosses the configured thresholds and asks for confirmation when a user
// can answer.
func confirmLargeInput(opts *cliOptions, cfg config.Config, expected *big.Int,
	caps terminal.Capabilities, stdin io.Reader, stderr io.Writer,
) error {
	long := cfg.WarnLength > 0 && utf8.RuneCountInString(opts.password) >= cfg.WarnLength
	many := cfg.WarnCount > 0 && expected.Cmp(big.NewInt(cfg.WarnCount)) >= 0
	if !long && !many {
		return nil
	}

	message := color.Yellow.When(caps.SupportsColor())(
		fmt.Sprintf("!Warning can take very long to compute (%s candidates)", humanize.BigComma(expected)))
	if opts.yes || !caps.CanPrompt() {
		_, _ = fmt.Fprintln(stderr, message)
		return nil
	}

	ok, err := terminal.Confirm(stdin, stderr, message)
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}
