package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/batch"
	"github.com/fwojciec/tablex/goquery"
	tablexhttp "github.com/fwojciec/tablex/http"
	"github.com/fwojciec/tablex/rod"
	tablexslog "github.com/fwojciec/tablex/slog"
	"github.com/fwojciec/tablex/sqlite"
	"github.com/fwojciec/tablex/xbrl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides the configured path when set.
	DBPath string

	// EnvFile is the dotenv file read for configuration.
	EnvFile string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{EnvFile: ".env"}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tablex"),
		kong.Description("Extract, edit, export and restructure HTML tables"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintln(stderr, "error: no command specified. Run 'tablex --help' to see available commands")
		return tablex.Errorf(tablex.EINVALID, "no command specified")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		printError(stderr, err)
		return err
	}

	env, err := LoadEnv(m.EnvFile)
	if err != nil {
		printError(stderr, err)
		return err
	}
	cfg, err := LoadConfig(cli.Config, env)
	if err != nil {
		printError(stderr, err)
		return err
	}
	if m.DBPath != "" {
		cfg.DB = m.DBPath
	}
	if cli.DB != "" {
		cfg.DB = cli.DB
	}
	deps.Config = cfg

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	deps.Logger = logger

	if cfg.DB != ":memory:" {
		_ = os.MkdirAll(filepath.Dir(cfg.DB), 0755)
	}
	m.DB = sqlite.NewDB(cfg.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "error: failed to open database at %q: %v\n", cfg.DB, err)
		fmt.Fprintf(stderr, "Hint: Set %s or --db to use a different database path\n", EnvDB)
		return fmt.Errorf("failed to open database at %q: %w", cfg.DB, err)
	}
	defer m.Close()

	deps.Tables = tablexslog.NewLoggingTableService(sqlite.NewTableService(m.DB), logger)
	deps.Statements = sqlite.NewStatementService(m.DB)
	deps.Extractor = tablexslog.NewLoggingExtractor(goquery.NewExtractor(goquery.WithLogger(logger)), logger)
	deps.Restructurer = tablexslog.NewLoggingRestructurer(xbrl.NewRestructurer(), logger)
	deps.NewJSONRestructurer = func(lenient bool) tablex.JSONRestructurer {
		return tablexslog.NewLoggingJSONRestructurer(xbrl.NewRestructurer(xbrl.WithLenient(lenient)), logger)
	}
	deps.Limiter = batch.NewDomainLimiter(cfg.RPS)
	deps.Links = goquery.NewLinkExtractor()
	deps.NewFetcher = func(render bool) (tablex.Fetcher, error) {
		if !render {
			return tablexslog.NewLoggingFetcher(tablexhttp.NewFetcher(tablexhttp.WithTimeout(cfg.Timeout)), logger), nil
		}
		opts := []rod.Option{rod.WithFetchTimeout(cfg.Timeout)}
		if cli.Extract.WaitSelector != "" {
			opts = append(opts, rod.WithWaitSelector(cli.Extract.WaitSelector))
		}
		fetcher, err := rod.NewFetcher(opts...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return tablexslog.NewLoggingFetcher(fetcher, logger), nil
	}

	return kongCtx.Run(deps)
}
