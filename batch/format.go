package batch

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// TruncateSource fits source into width terminal cells. The tail of a path
// or URL names the filing, so the head is dropped and replaced by "...".
func TruncateSource(source string, width int) string {
	if runewidth.StringWidth(source) <= width {
		return source
	}
	if width <= 3 {
		return runewidth.Truncate(source, max(width, 0), "")
	}
	runes := []rune(source)
	used, i := 3, len(runes)
	for i > 0 {
		w := runewidth.RuneWidth(runes[i-1])
		if used+w > width {
			break
		}
		used += w
		i--
	}
	return "..." + string(runes[i:])
}

// FormatBytes renders n with a binary unit, e.g. "1.5 KB".
func FormatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v, unit := float64(n)/1024, "KB"
	if v >= 1024 {
		v, unit = v/1024, "MB"
	}
	return fmt.Sprintf("%.1f %s", v, unit)
}

// Summary describes a finished run in one line.
func (r *Result) Summary() string {
	s := fmt.Sprintf("%d tables from %d sources (%s)", r.Tables, len(r.Sources)-r.Failed, FormatBytes(r.Bytes))
	if r.Saved > 0 || r.Skipped > 0 {
		s += fmt.Sprintf(", %d saved", r.Saved)
	}
	if r.Skipped > 0 {
		s += fmt.Sprintf(", %d already stored", r.Skipped)
	}
	if r.Failed > 0 {
		s += fmt.Sprintf(", %d failed", r.Failed)
	}
	if r.Duplicates > 0 {
		s += fmt.Sprintf(", %d duplicate sources skipped", r.Duplicates)
	}
	return s
}
