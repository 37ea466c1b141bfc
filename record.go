package tablex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TagSuffix marks the parallel field carrying the XBRL tag of a column.
const TagSuffix = "_XBRL"

// Field is a single key/value pair of a Record.
type Field struct {
	Key   string
	Value string
}

// Record is one table row keyed by column name. Field order is significant
// and is preserved through JSON encoding and decoding.
type Record []Field

// Get returns the value stored under key and whether it exists.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Value returns the value stored under key, or "" when absent.
func (r Record) Value(key string) string {
	v, _ := r.Get(key)
	return v
}

// Keys returns the field keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object, keeping key order. Numbers and
// booleans keep their literal text; null and nested values become "".
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Errorf(EINVALID, "record must be a JSON object")
	}

	var rec Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return Errorf(EINVALID, "record key must be a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		rec = append(rec, Field{Key: key, Value: scalarText(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = rec
	return nil
}

func scalarText(raw json.RawMessage) string {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// RecordKeys returns the unique record keys for the table's columns. Blank
// headers use the synthetic column name and duplicates get a " (n)" suffix.
func RecordKeys(t *Table) []string {
	keys := make([]string, len(t.Headers))
	seen := make(map[string]int)
	for i, h := range t.Headers {
		key := strings.TrimSpace(CellValue(h))
		if key == "" {
			key = ColumnName(i + 1)
		}
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s (%d)", key, n)
		}
		keys[i] = key
	}
	return keys
}

// Records projects the table rows onto header-keyed records. When withTags
// is set every column is followed by a "<key>_XBRL" field holding its tag.
func Records(t *Table, withTags bool) []Record {
	keys := RecordKeys(t)
	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(Record, 0, len(keys)*2)
		for i, key := range keys {
			rec = append(rec, Field{Key: key, Value: CellValue(row[i])})
			if withTags {
				rec = append(rec, Field{Key: key + TagSuffix, Value: row[i].Tag})
			}
		}
		records = append(records, rec)
	}
	return records
}
