package tablex

import (
	"bytes"
	"encoding/json"
)

// XBRLType identifies the kind of inline XBRL element a tag came from.
type XBRLType string

// Inline XBRL element kinds.
const (
	XBRLNonFraction XBRLType = "nonfraction"
	XBRLNonNumeric  XBRLType = "nonnumeric"
)

// XBRLInfo holds the metadata of an inline XBRL element found in a cell.
type XBRLInfo struct {
	Type       XBRLType `json:"type"`
	Name       string   `json:"name"`
	ContextRef string   `json:"contextRef"`
	UnitRef    string   `json:"unitRef,omitempty"`
	Decimals   string   `json:"decimals,omitempty"`
	Scale      string   `json:"scale,omitempty"`
	Format     string   `json:"format,omitempty"`
	Escape     string   `json:"escape,omitempty"`
}

// Cell is a single grid position of a table.
//
// A cell is either plain (Tagged is false and only Value is meaningful) or
// tagged, produced when XBRL extraction is enabled. A tagged cell may still
// carry no tag: Tag is empty when no XBRL element was found.
type Cell struct {
	Value  string
	Tagged bool
	Tag    string
	Info   *XBRLInfo
}

// PlainCell returns an untagged cell.
func PlainCell(value string) Cell {
	return Cell{Value: value}
}

// TaggedCell returns a cell of the tagged variant. An empty tag means "no tag".
func TaggedCell(value, tag string, info *XBRLInfo) Cell {
	return Cell{Value: value, Tagged: true, Tag: tag, Info: info}
}

// CellValue returns the text of a cell regardless of its variant.
func CellValue(c Cell) string {
	return c.Value
}

type taggedCellJSON struct {
	Value   string    `json:"value"`
	XBRLTag *string   `json:"xbrlTag"`
	Info    *XBRLInfo `json:"xbrlInfo,omitempty"`
}

// MarshalJSON encodes plain cells as bare strings and tagged cells as objects.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Tagged {
		return json.Marshal(c.Value)
	}
	v := taggedCellJSON{Value: c.Value, Info: c.Info}
	if c.Tag != "" {
		tag := c.Tag
		v.XBRLTag = &tag
	}
	return json.Marshal(v)
}

// UnmarshalJSON accepts both the bare string and the object form.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = PlainCell(s)
		return nil
	}

	var v taggedCellJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	tag := ""
	if v.XBRLTag != nil {
		tag = *v.XBRLTag
	}
	*c = TaggedCell(v.Value, tag, v.Info)
	return nil
}
