package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/tablex"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config *Config
	Logger *slog.Logger

	Tables       tablex.TableService
	Statements   tablex.StatementService
	Extractor    tablex.Extractor
	Restructurer tablex.Restructurer
	Limiter      tablex.DomainLimiter
	Links        tablex.LinkExtractor

	// NewFetcher creates the fetcher for URL sources. With render set it
	// returns a headless browser fetcher.
	NewFetcher func(render bool) (tablex.Fetcher, error)

	// NewJSONRestructurer creates the restructurer for JSON input. With
	// lenient set it repairs malformed JSON first.
	NewJSONRestructurer func(lenient bool) tablex.JSONRestructurer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `help:"Database path (default: ~/.tablex/tablex.db, env TABLEX_DB)"`
	Config  string `help:"YAML config file (env TABLEX_CONFIG)" type:"path"`
	Verbose bool   `short:"v" help:"Log diagnostics to stderr"`

	Extract     ExtractCmd     `cmd:"" help:"Extract tables from HTML files, URLs, or stdin"`
	List        ListCmd        `cmd:"" help:"List stored tables"`
	Show        ShowCmd        `cmd:"" help:"Show a stored table"`
	Edit        EditCmd        `cmd:"" help:"Edit a stored table"`
	Merge       MergeCmd       `cmd:"" help:"Merge stored tables with matching columns"`
	Export      ExportCmd      `cmd:"" help:"Export stored tables"`
	Restructure RestructureCmd `cmd:"" help:"Restructure an XBRL table into a hierarchical statement"`
	Delete      DeleteCmd      `cmd:"" help:"Delete stored tables"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Sources []string `arg:"" sep:"none" help:"HTML files, http(s) URLs, or - for stdin"`

	NoDetectHeaders bool `help:"Do not fall back to the first row when no header row is recognized"`
	NoTrim          bool `help:"Keep cell whitespace as is"`
	KeepEmptyRows   bool `help:"Keep rows whose cells are all blank"`
	NoConvertChars  bool `help:"Keep △, ▲ and full-width spaces as is"`
	NoXBRL          bool `name:"no-xbrl" help:"Do not look for inline XBRL tags"`

	Render       bool     `help:"Fetch URLs with a headless browser"`
	WaitSelector string   `help:"CSS selector to wait for when rendering"`
	Follow       bool     `help:"Also extract HTML documents linked from URL sources on the same host"`
	Include      []string `sep:"none" placeholder:"REGEX" help:"Follow only links matching this pattern (repeatable)"`
	Exclude      []string `sep:"none" placeholder:"REGEX" help:"Do not follow links matching this pattern (repeatable)"`
	Concurrency  int      `short:"c" help:"Sources processed at once (default from config)"`

	Save       bool   `short:"s" help:"Store extracted tables"`
	Format     string `short:"f" help:"Write tables in this format (csv, json, xlsx, markdown, xbrl, text)"`
	Output     string `short:"o" help:"Write output to file instead of stdout"`
	Dir        string `help:"Write one file per table into this directory"`
	XBRLExport bool   `name:"xbrl-export" help:"Include XBRL tags in exported output"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Source string `help:"Only tables from this source"`
	Tag    string `help:"Only tables carrying this XBRL tag"`
	Label  string `help:"Only tables with this label"`
	Limit  int    `help:"Maximum number of tables"`
	Offset int    `help:"Number of tables to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID       string `arg:"" help:"Table ID"`
	Sort     string `help:"Sort rows by column (1-based index or header name)"`
	Desc     bool   `help:"Sort descending"`
	Filter   string `help:"Only rows containing this text"`
	Page     int    `default:"1" help:"Page number"`
	PageSize int    `help:"Rows per page (default from config)"`
	XBRL     bool   `name:"xbrl" help:"Show XBRL tag columns"`
	Markup   bool   `help:"Print the original table markup"`
}

// EditCmd is the "edit" subcommand. Row and column numbers are 1-based.
type EditCmd struct {
	ID           string   `arg:"" help:"Table ID"`
	Label        string   `help:"New table label"`
	RenameHeader []string `name:"rename-header" sep:"none" placeholder:"N=NAME" help:"Rename column N (repeatable)"`
	Set          []string `sep:"none" placeholder:"R,C=VALUE" help:"Set the cell at row R, column C (repeatable)"`
	AddRow       []int    `name:"add-row" placeholder:"N" help:"Insert an empty row before row N; rows+1 appends (repeatable)"`
	DeleteRow    []int    `name:"delete-row" placeholder:"N" help:"Delete row N (repeatable)"`
	AddColumn    []string `name:"add-column" sep:"none" placeholder:"N[=NAME]" help:"Insert a column before column N; columns+1 appends (repeatable)"`
	DeleteColumn []int    `name:"delete-column" placeholder:"N" help:"Delete column N (repeatable)"`
	Transpose    bool     `help:"Swap rows and columns"`
	Split        int      `placeholder:"N" help:"Split before row N, storing the rest as a new table"`
}

// MergeCmd is the "merge" subcommand.
type MergeCmd struct {
	IDs   []string `arg:"" sep:"none" name:"id" help:"Table IDs, at least two"`
	Label string   `help:"Label of the merged table"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	IDs    []string `arg:"" sep:"none" optional:"" name:"id" help:"Table IDs (default: all stored tables)"`
	Format string   `short:"f" help:"Output format (csv, json, xlsx, markdown, xbrl, text)"`
	Output string   `short:"o" help:"Write output to file instead of stdout"`
	Dir    string   `help:"Write one file per table into this directory"`
	XBRL   bool     `name:"xbrl" help:"Include XBRL tags"`
}

// RestructureCmd is the "restructure" subcommand.
type RestructureCmd struct {
	ID          string `arg:"" optional:"" help:"Table ID"`
	JSON        string `name:"json" help:"Read flat records from a JSON file (- for stdin)"`
	Lenient     bool   `help:"Repair malformed JSON input"`
	Comparative bool   `help:"Print the period-over-period view"`
	Text        bool   `help:"Print as aligned text instead of JSON"`
	Save        bool   `short:"s" help:"Store the statement with the table"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	IDs    []string `arg:"" optional:"" sep:"none" name:"id" help:"Table IDs"`
	Source string   `help:"Delete every table extracted from this source"`
	Force  bool     `help:"Confirm deletion"`
}

// printError writes err to stderr. Application errors show their message;
// other errors are shown in full.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %s\n", errorText(err))
}

// errorText returns the message shown to users for err.
func errorText(err error) string {
	if tablex.ErrorCode(err) == tablex.EINTERNAL {
		return err.Error()
	}
	return tablex.ErrorMessage(err)
}
