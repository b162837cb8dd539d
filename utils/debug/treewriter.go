// Package debug produces indented text dumps for debug reports.
package debug

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// TreeWriter accumulates indented lines, two spaces per level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes labeled value quoted, so multi-line CSS and markup stay on
// a single line. Empty values are written as is.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Map writes free-form attribute map with keys in natural order, nested maps
// and slices are written one level deeper.
func (tw *TreeWriter) Map(depth int, label string, m map[string]any) {
	tw.Line(depth, "%s (%d)", label, len(m))
	keys := slices.Collect(maps.Keys(m))
	sort.Sort(natural.StringSlice(keys))
	for _, k := range keys {
		tw.value(depth+1, k, m[k])
	}
}

func (tw *TreeWriter) value(depth int, label string, v any) {
	switch val := v.(type) {
	case map[string]any:
		tw.Map(depth, label, val)
	case []any:
		tw.Line(depth, "%s [%d]", label, len(val))
		for i, item := range val {
			tw.value(depth+1, strconv.Itoa(i), item)
		}
	case string:
		tw.TextBlock(depth, label, val)
	default:
		tw.Line(depth, "%s: %v", label, val)
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
