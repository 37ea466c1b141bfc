package main

import (
	"fmt"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/batch"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if len(c.Sources) == 0 {
		err := tablex.Errorf(tablex.EINVALID, "at least one source required")
		printError(deps.Stderr, err)
		return err
	}

	runner := &batch.Runner{
		Extractor:   deps.Extractor,
		Limiter:     deps.Limiter,
		Concurrency: c.Concurrency,
		Input:       deps.Stdin,
		Logger:      deps.Logger,
	}
	if runner.Concurrency <= 0 {
		runner.Concurrency = deps.Config.Concurrency
	}
	if c.Save {
		runner.Tables = deps.Tables
	}
	if c.Follow {
		filter, err := tablex.NewLinkFilter(c.Include, c.Exclude)
		if err != nil {
			printError(deps.Stderr, err)
			return err
		}
		runner.Links = deps.Links
		runner.LinkFilter = filter
	}

	if hasURL(c.Sources) {
		fetcher, err := deps.NewFetcher(c.Render)
		if err != nil {
			printError(deps.Stderr, err)
			return err
		}
		defer fetcher.Close()
		runner.Fetcher = fetcher
	}

	progress := func(event batch.ProgressEvent) {
		if event.Type == batch.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", batch.TruncateSource(event.Source, 60), errorText(event.Error))
		}
	}

	result, err := runner.Run(deps.Ctx, c.Sources, c.options(deps.Config.Extract), progress)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	var tables []*tablex.Table
	for _, sr := range result.Sources {
		if sr.Err == nil {
			tables = append(tables, sr.Extract.Tables...)
		}
	}

	if c.exporting() {
		if len(tables) > 0 {
			out := output{Format: c.Format, File: c.Output, Dir: c.Dir, XBRL: c.XBRLExport}
			if err := out.write(deps, tables); err != nil {
				printError(deps.Stderr, err)
				return err
			}
		}
	} else {
		printSources(deps, result)
	}

	fmt.Fprintln(deps.Stderr, result.Summary())

	if len(result.Sources) > 0 && result.Failed == len(result.Sources) {
		return result.Sources[0].Err
	}
	return nil
}

// options applies the command's flags to the configured extract options.
func (c *ExtractCmd) options(base tablex.ExtractOptions) tablex.ExtractOptions {
	opts := base
	if c.NoDetectHeaders {
		opts.DetectHeaders = false
	}
	if c.NoTrim {
		opts.TrimWhitespace = false
	}
	if c.KeepEmptyRows {
		opts.IgnoreEmptyRows = false
	}
	if c.NoConvertChars {
		opts.ConvertSpecialChars = false
	}
	if c.NoXBRL {
		opts.ExtractXBRLTags = false
	}
	return opts
}

func (c *ExtractCmd) exporting() bool {
	return c.Format != "" || c.Output != "" || c.Dir != ""
}

func printSources(deps *Dependencies, result *batch.Result) {
	for _, sr := range result.Sources {
		if sr.Err != nil {
			continue
		}
		if sr.Extract.Empty() {
			fmt.Fprintf(deps.Stdout, "%s: %s\n", sr.Source, sr.Extract.Message)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s (%s): %d tables\n", sr.Source, sr.Extract.Kind, len(sr.Extract.Tables))
		for _, t := range sr.Extract.Tables {
			fmt.Fprintf(deps.Stdout, "  %s  %d rows x %d columns", t.Label, t.Stats.RowCount, t.Stats.ColumnCount)
			if t.Stats.UniqueTags > 0 {
				fmt.Fprintf(deps.Stdout, "  %d XBRL tags", t.Stats.UniqueTags)
			}
			if t.ID != "" {
				fmt.Fprintf(deps.Stdout, "  %s", t.ID)
			}
			fmt.Fprintln(deps.Stdout)
		}
	}
}

func hasURL(sources []string) bool {
	for _, s := range sources {
		if tablex.IsURL(s) {
			return true
		}
	}
	return false
}
