package tablex

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ValueKind discriminates the contents of a Value.
type ValueKind int

// Value kinds.
const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a period amount in a financial statement: a number, a text that
// could not be parsed as a number, or null.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
}

// NumberValue returns a numeric Value.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// TextValue returns a text Value.
func TextValue(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool {
	return v.Kind == ValueNull
}

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool {
	return v.Kind == ValueNumber
}

// String formats the value for display. Null is the empty string.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueText:
		return v.Text
	}
	return ""
}

// MarshalJSON encodes v as a JSON number, string, or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return json.Marshal(v.Number)
	case ValueText:
		return json.Marshal(v.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a JSON number, string, or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Value{}
	case float64:
		*v = NumberValue(x)
	case string:
		*v = TextValue(x)
	default:
		return Errorf(EINVALID, "unsupported value %s", string(data))
	}
	return nil
}

var (
	footnoteMarkerRe = regexp.MustCompile(`※\d+,?`)
	footnoteRefRe    = regexp.MustCompile(`※\d+`)
	negativeSigns    = strings.NewReplacer("△", "-", "▲", "-", "−", "-", "－", "-")
	// Plain decimal notation only. ParseFloat alone would also accept
	// NaN, Inf and hex floats.
	decimalRe = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)
)

// ParseFinancialValue parses an amount as printed in a financial statement.
// Footnote markers (※1) and thousands separators are removed and accounting
// negative signs (△, ▲) become "-". The result is a number when the cleaned
// text parses as one, the cleaned text otherwise, and null for empty input.
func ParseFinancialValue(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}

	cleaned := footnoteMarkerRe.ReplaceAllString(s, "")
	cleaned = strings.NewReplacer(",", "", "，", "").Replace(cleaned)
	cleaned = negativeSigns.Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return Value{}
	}

	if !decimalRe.MatchString(cleaned) {
		return TextValue(cleaned)
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(n, 0) {
		return TextValue(cleaned)
	}
	return NumberValue(n)
}

// FootnoteMarkers returns the ※<digits> markers in s, in order.
func FootnoteMarkers(s string) []string {
	return footnoteRefRe.FindAllString(s, -1)
}
