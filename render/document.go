// Package render applies per-block custom CSS to documents made of content
// blocks: each block with CSS gets scope token attached to its outermost
// element and its compiled rules emitted right before its markup.
package render

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"blockcss/common"
)

// attribute keys used when CSS is stored among block attributes
const attrKeyPrefix = "cssKubeCSS_"

// InnerMarker in block markup is replaced with rendered inner blocks. When
// markup has no marker inner blocks are appended after it.
const InnerMarker = "<!-- blocks:inner -->"

// VariantSet holds raw author CSS per breakpoint. Slots are independent, any
// of them may be empty.
type VariantSet struct {
	All     string `yaml:"all,omitempty" json:"all,omitempty"`
	Mobile  string `yaml:"mobile,omitempty" json:"mobile,omitempty"`
	Tablet  string `yaml:"tablet,omitempty" json:"tablet,omitempty"`
	Desktop string `yaml:"desktop,omitempty" json:"desktop,omitempty"`
}

// Get returns slot for breakpoint.
func (vs VariantSet) Get(bp common.Breakpoint) string {
	switch bp {
	case common.BreakpointAll:
		return vs.All
	case common.BreakpointMobile:
		return vs.Mobile
	case common.BreakpointTablet:
		return vs.Tablet
	case common.BreakpointDesktop:
		return vs.Desktop
	}
	return ""
}

// Set replaces slot for breakpoint.
func (vs *VariantSet) Set(bp common.Breakpoint, css string) {
	switch bp {
	case common.BreakpointAll:
		vs.All = css
	case common.BreakpointMobile:
		vs.Mobile = css
	case common.BreakpointTablet:
		vs.Tablet = css
	case common.BreakpointDesktop:
		vs.Desktop = css
	}
}

// Each calls fn for every slot in emission order: all, mobile, tablet,
// desktop.
func (vs VariantSet) Each(fn func(bp common.Breakpoint, css string)) {
	for _, bp := range common.Breakpoints {
		fn(bp, vs.Get(bp))
	}
}

// IsEmpty reports whether all slots are empty. Whitespace counts as content
// here, it is sanitizer who decides there is nothing to emit.
func (vs VariantSet) IsEmpty() bool {
	for _, bp := range common.Breakpoints {
		if len(vs.Get(bp)) > 0 {
			return false
		}
	}
	return true
}

// Block is a single content block instance.
type Block struct {
	Name   string         `yaml:"name" json:"name"`
	Attrs  map[string]any `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	CSS    *VariantSet    `yaml:"css,omitempty" json:"css,omitempty"`
	Markup string         `yaml:"markup" json:"markup"`
	Inner  []*Block       `yaml:"inner,omitempty" json:"inner,omitempty"`
}

// Variants returns block CSS. Typed css record wins, otherwise slots are read
// from attributes, non-string attribute values are ignored.
func (b *Block) Variants() VariantSet {
	if b.CSS != nil {
		return *b.CSS
	}
	var vs VariantSet
	for _, bp := range common.Breakpoints {
		if s, ok := b.Attrs[attrKeyPrefix+bp.String()].(string); ok {
			vs.Set(bp, s)
		}
	}
	return vs
}

// Document is an ordered list of top level blocks.
type Document struct {
	Title  string   `yaml:"title" json:"title"`
	Blocks []*Block `yaml:"blocks" json:"blocks"`
}

// IsDocumentFile reports whether file name has one of supported extensions.
func IsDocumentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Decode reads document in YAML or JSON form (JSON is decoded as YAML flow
// style). Unknown fields are errors.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read document: %w", err)
	}

	doc := &Document{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("document is empty")
		}
		return nil, fmt.Errorf("unable to decode document: %w", err)
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) check() error {
	var walk func(path string, blocks []*Block) error
	walk = func(path string, blocks []*Block) error {
		for i, b := range blocks {
			where := fmt.Sprintf("%s%d", path, i)
			if b == nil {
				return fmt.Errorf("block %s is empty", where)
			}
			if err := walk(where+".", b.Inner); err != nil {
				return err
			}
		}
		return nil
	}
	return walk("", d.Blocks)
}
