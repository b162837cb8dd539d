package render

import (
	"blockcss/utils/debug"
)

// String returns readable tree of the document for debug reports.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}
	tw := debug.NewTreeWriter()
	tw.TextBlock(0, "Document", d.Title)
	for i, b := range d.Blocks {
		dumpBlock(tw, 1, i, b)
	}
	return tw.String()
}

func dumpBlock(tw *debug.TreeWriter, depth, idx int, b *Block) {
	if b == nil {
		tw.Line(depth, "Block[%d] <nil>", idx)
		return
	}
	tw.Line(depth, "Block[%d] %q", idx, b.Name)
	if len(b.Attrs) > 0 {
		tw.Map(depth+1, "Attrs", b.Attrs)
	}
	if vs := b.Variants(); !vs.IsEmpty() {
		tw.Line(depth+1, "CSS")
		tw.TextBlock(depth+2, "all", vs.All)
		tw.TextBlock(depth+2, "mobile", vs.Mobile)
		tw.TextBlock(depth+2, "tablet", vs.Tablet)
		tw.TextBlock(depth+2, "desktop", vs.Desktop)
	}
	tw.TextBlock(depth+1, "Markup", b.Markup)
	for i, ib := range b.Inner {
		dumpBlock(tw, depth+1, i, ib)
	}
}
