package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/runewidth"
)

// comparativeView is the JSON shape of the period-over-period output.
type comparativeView struct {
	Metadata tablex.StatementMetadata `json:"metadata"`
	Rows     []tablex.ComparativeRow  `json:"rows"`
}

// Run executes the restructure command.
func (c *RestructureCmd) Run(deps *Dependencies) error {
	if (c.ID == "") == (c.JSON == "") {
		err := tablex.Errorf(tablex.EINVALID, "give either a table ID or --json")
		printError(deps.Stderr, err)
		return err
	}
	if c.Save && c.ID == "" {
		err := tablex.Errorf(tablex.EINVALID, "--save requires a table ID")
		printError(deps.Stderr, err)
		return err
	}

	s, err := c.restructure(deps)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if c.Save {
		stored := &tablex.StoredStatement{TableID: c.ID, Statement: s}
		if err := deps.Statements.CreateStatement(deps.Ctx, stored); err != nil {
			printError(deps.Stderr, err)
			return err
		}
		fmt.Fprintf(deps.Stderr, "Saved statement %s for table %s\n", stored.ID, c.ID)
	}

	if err := c.print(deps.Stdout, s); err != nil {
		printError(deps.Stderr, err)
		return err
	}
	return nil
}

// restructure builds the statement from a stored table or a JSON document.
// A failed JSON result becomes EINVALID carrying its message.
func (c *RestructureCmd) restructure(deps *Dependencies) (*tablex.Statement, error) {
	if c.ID != "" {
		table, err := deps.Tables.FindTableByID(deps.Ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if table.Mode != tablex.ModeXBRL {
			return nil, tablex.Errorf(tablex.EINVALID, "table %q has no XBRL tags; extract it with XBRL detection enabled", c.ID)
		}
		return deps.Restructurer.Restructure(statementRecords(table))
	}

	data, err := c.readJSON(deps.Stdin)
	if err != nil {
		return nil, err
	}
	result := deps.NewJSONRestructurer(c.Lenient).RestructureJSON(data)
	if !result.Success {
		return nil, tablex.Errorf(tablex.EINVALID, "%s", result.Message)
	}
	return result.Statement, nil
}

// statementRecords returns the table's records led by a label record. A
// detected header row is turned back into that label record; tables with
// synthetic headers already carry it as their first row.
func statementRecords(t *tablex.Table) []tablex.Record {
	records := tablex.Records(t, true)
	synthetic := true
	for i, h := range t.HeaderValues() {
		if h != tablex.ColumnName(i+1) {
			synthetic = false
			break
		}
	}
	if synthetic {
		return records
	}

	keys := tablex.RecordKeys(t)
	label := make(tablex.Record, 0, len(keys)*2)
	for i, key := range keys {
		label = append(label,
			tablex.Field{Key: key, Value: tablex.CellValue(t.Headers[i])},
			tablex.Field{Key: key + tablex.TagSuffix, Value: t.Headers[i].Tag},
		)
	}
	return append([]tablex.Record{label}, records...)
}

func (c *RestructureCmd) readJSON(stdin io.Reader) ([]byte, error) {
	if c.JSON == "-" {
		data, err := io.ReadAll(io.LimitReader(stdin, tablex.MaxFileSize+1))
		if err != nil {
			return nil, err
		}
		if len(data) > tablex.MaxFileSize {
			return nil, tablex.Errorf(tablex.EINVALID, "JSON input exceeds %d bytes", tablex.MaxFileSize)
		}
		return data, nil
	}

	info, err := os.Stat(c.JSON)
	if errors.Is(err, os.ErrNotExist) {
		return nil, tablex.Errorf(tablex.ENOTFOUND, "file %q not found", c.JSON)
	}
	if err != nil {
		return nil, err
	}
	if info.Size() > tablex.MaxFileSize {
		return nil, tablex.Errorf(tablex.EINVALID, "file %q is %d bytes, limit is %d", c.JSON, info.Size(), tablex.MaxFileSize)
	}
	return os.ReadFile(c.JSON)
}

func (c *RestructureCmd) print(w io.Writer, s *tablex.Statement) error {
	if c.Text {
		return runewidth.NewExporter().RenderComparative(w, s)
	}

	var v any = s
	if c.Comparative {
		v = comparativeView{Metadata: s.Metadata, Rows: tablex.Comparative(s)}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
