// Package xbrl rebuilds hierarchical financial statements from flat,
// XBRL-tagged table records.
package xbrl

import (
	"encoding/json"
	"regexp"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/fwojciec/tablex"
)

const (
	// DefaultReportType is used when the label record names no statement.
	DefaultReportType = "財務諸表"

	// DefaultUnit is used when no "単位" notice is found.
	DefaultUnit = "千円"

	// AnnotationPlaceholder explains every footnote marker found in the
	// table. The note text itself is not part of the table.
	AnnotationPlaceholder = "注記を参照"

	subtotalMarker = "合計"
)

var unitRe = regexp.MustCompile(`単位\s*[：:]?\s*([^）)\]\s]+)`)

var (
	_ tablex.Restructurer     = (*Restructurer)(nil)
	_ tablex.JSONRestructurer = (*Restructurer)(nil)
)

// Restructurer converts flat records into a hierarchical statement.
// It holds no state between calls and is safe for concurrent use.
type Restructurer struct {
	lenient bool
}

// Option configures a Restructurer.
type Option func(*Restructurer)

// WithLenient enables repair of malformed JSON input in RestructureJSON.
func WithLenient(lenient bool) Option {
	return func(r *Restructurer) {
		r.lenient = lenient
	}
}

// NewRestructurer creates a new Restructurer.
func NewRestructurer(opts ...Option) *Restructurer {
	r := &Restructurer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Restructure builds the statement tree. records[0] carries the period
// labels; every following record is a line item.
func (r *Restructurer) Restructure(records []tablex.Record) (*tablex.Statement, error) {
	if len(records) == 0 {
		return nil, tablex.Errorf(tablex.EINVALID, "no records to restructure")
	}

	label := records[0]
	m := ColumnMapping(label)
	if !m.HasLevels() {
		return nil, tablex.Errorf(tablex.EINVALID, "no item column found")
	}

	s := &tablex.Statement{
		Metadata: metadata(label, m),
		Data:     []*tablex.Node{},
	}

	var stack [tablex.MaxLevel]*tablex.Node
	for _, rec := range records[1:] {
		level, name := firstLevel(rec, m)
		if level == 0 {
			continue
		}

		previous, current := periodValues(rec, m)

		if written := backWriteSubtotal(stack, rec, m, previous, current); written == level {
			continue
		}

		n := &tablex.Node{
			ItemName:       name,
			Level:          level,
			XBRLTag:        nodeTag(rec, m, level),
			PreviousPeriod: previous,
			CurrentPeriod:  current,
			Children:       []*tablex.Node{},
		}

		if parent := nearestAncestor(stack, level); parent != nil {
			parent.Children = append(parent.Children, n)
		} else {
			s.Data = append(s.Data, n)
		}

		stack[level-1] = n
		for i := level; i < tablex.MaxLevel; i++ {
			stack[i] = nil
		}
	}

	s.Annotations = annotations(records)
	return s, nil
}

// RestructureJSON decodes a JSON array of flat records and restructures it.
// Failures are reported in the result rather than returned.
func (r *Restructurer) RestructureJSON(data []byte) tablex.RestructureResult {
	records, err := DecodeRecords(data, r.lenient)
	if err != nil {
		return tablex.RestructureResult{Message: "failed to parse JSON: " + err.Error()}
	}

	s, err := r.Restructure(records)
	if err != nil {
		return tablex.RestructureResult{Message: tablex.ErrorMessage(err)}
	}
	return tablex.RestructureResult{Success: true, Statement: s}
}

// DecodeRecords decodes a JSON array of flat records. With lenient set,
// malformed input is repaired once before giving up; the original parse
// error is returned when repair fails.
func DecodeRecords(data []byte, lenient bool) ([]tablex.Record, error) {
	var records []tablex.Record
	err := json.Unmarshal(data, &records)
	if err == nil || !lenient {
		return records, err
	}

	repaired, rerr := jsonrepair.RepairJSON(string(data))
	if rerr != nil {
		return nil, err
	}
	records = nil
	if err := json.Unmarshal([]byte(repaired), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// backWriteSubtotal copies a subtotal row's values onto the tracked parent
// node. A level-3 column holding the marker feeds the level-2 node whatever
// level the row starts at; a level-2 marker feeds the level-1 node. Deeper
// levels carry no subtotal rule. It returns the level whose marker was
// written back, or 0.
func backWriteSubtotal(stack [tablex.MaxLevel]*tablex.Node, rec tablex.Record, m Mapping, previous, current tablex.Value) int {
	for _, level := range []int{3, 2} {
		key := m.Levels[level-1]
		if key == "" || !strings.Contains(rec.Value(key), subtotalMarker) {
			continue
		}
		parent := stack[level-2]
		if parent == nil {
			continue
		}
		parent.PreviousPeriod = previous
		parent.CurrentPeriod = current
		return level
	}
	return 0
}

// firstLevel returns the first level holding text, or 0 when none does.
func firstLevel(rec tablex.Record, m Mapping) (int, string) {
	for i, key := range m.Levels {
		if key == "" {
			continue
		}
		if text := strings.TrimSpace(rec.Value(key)); text != "" {
			return i + 1, text
		}
	}
	return 0, ""
}

func periodValues(rec tablex.Record, m Mapping) (previous, current tablex.Value) {
	if m.Previous != "" {
		previous = tablex.ParseFinancialValue(rec.Value(m.Previous))
	}
	if m.Current != "" {
		current = tablex.ParseFinancialValue(rec.Value(m.Current))
	}
	return previous, current
}

func nodeTag(rec tablex.Record, m Mapping, level int) string {
	for _, key := range []string{m.Levels[level-1], m.Current, m.Previous} {
		if key == "" {
			continue
		}
		if tag := strings.TrimSpace(rec.Value(key + tablex.TagSuffix)); tag != "" {
			return tag
		}
	}
	return ""
}

func nearestAncestor(stack [tablex.MaxLevel]*tablex.Node, level int) *tablex.Node {
	for i := level - 2; i >= 0; i-- {
		if stack[i] != nil {
			return stack[i]
		}
	}
	return nil
}

func metadata(label tablex.Record, m Mapping) tablex.StatementMetadata {
	md := tablex.StatementMetadata{
		ReportType: DefaultReportType,
		Unit:       DefaultUnit,
	}

	for _, key := range m.Levels {
		if key == "" {
			continue
		}
		text := strings.TrimSpace(label.Value(key))
		if text != "" && !strings.Contains(text, "単位") {
			md.ReportType = text
			break
		}
	}

	for _, f := range label {
		if unit := findUnit(f.Value); unit != "" {
			md.Unit = unit
			break
		}
		if unit := findUnit(f.Key); unit != "" {
			md.Unit = unit
			break
		}
	}

	md.Periods.Previous = periodLabel(label, m.Previous)
	md.Periods.Current = periodLabel(label, m.Current)
	return md
}

func findUnit(s string) string {
	match := unitRe.FindStringSubmatch(s)
	if match == nil {
		return ""
	}
	return match[1]
}

func periodLabel(label tablex.Record, key string) string {
	if key == "" {
		return ""
	}
	if text := strings.TrimSpace(label.Value(key)); text != "" {
		return text
	}
	return key
}

func annotations(records []tablex.Record) map[string]string {
	notes := make(map[string]string)
	for _, rec := range records {
		for _, f := range rec {
			for _, marker := range tablex.FootnoteMarkers(f.Value) {
				notes[marker] = AnnotationPlaceholder
			}
		}
	}
	if len(notes) == 0 {
		return nil
	}
	return notes
}
