// Package etree exports the XBRL-tagged cells of tables as an XML fact document.
package etree

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/fwojciec/tablex"
)

var _ tablex.Exporter = (*Exporter)(nil)

// Exporter writes one <fact> element per tagged cell:
//
//	<facts>
//	  <fact table="table-1" row="1" column="当期" name="jppfs_cor:NetSales" contextRef="CurrentYearDuration">1,000</fact>
//	</facts>
type Exporter struct{}

// NewExporter creates a new XBRL fact Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the fact document. Untagged cells are omitted, so
// IncludeXBRL has no effect.
func (e *Exporter) Export(w io.Writer, tables []*tablex.Table, _ tablex.ExportOptions) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("facts")

	for _, t := range tables {
		keys := tablex.RecordKeys(t)
		for r, row := range t.Rows {
			for c, cell := range row {
				if cell.Tag == "" {
					continue
				}
				fact := root.CreateElement("fact")
				fact.CreateAttr("table", t.Label)
				fact.CreateAttr("row", strconv.Itoa(r+1))
				fact.CreateAttr("column", keys[c])
				fact.CreateAttr("name", cell.Tag)
				if info := cell.Info; info != nil {
					setAttr(fact, "type", string(info.Type))
					setAttr(fact, "contextRef", info.ContextRef)
					setAttr(fact, "unitRef", info.UnitRef)
					setAttr(fact, "decimals", info.Decimals)
					setAttr(fact, "scale", info.Scale)
					setAttr(fact, "format", info.Format)
				}
				fact.SetText(tablex.CellValue(cell))
			}
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func setAttr(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}
