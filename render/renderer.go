package render

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"blockcss/common"
	"blockcss/compile"
	"blockcss/css"
	"blockcss/sanitize"
	"blockcss/scope"
)

// Renderer produces block markup with scoped styles. It holds no per-call
// state and is safe for concurrent use.
type Renderer struct {
	san  *sanitize.Sanitizer
	comp *compile.Compiler
	lint *css.Linter
	fp   scope.Fingerprint
	log  *zap.Logger
}

// NewRenderer creates renderer from its parts. Sanitizer and compiler
// default to package defaults when nil, nil linter disables diagnostics.
func NewRenderer(san *sanitize.Sanitizer, comp *compile.Compiler, lint *css.Linter, fp scope.Fingerprint, log *zap.Logger) *Renderer {
	if san == nil {
		san = sanitize.New()
	}
	if comp == nil {
		comp = compile.New(san)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{san: san, comp: comp, lint: lint, fp: fp, log: log.Named("render")}
}

// Styles returns concatenated style elements for all non-empty variants in
// emission order.
func (r *Renderer) Styles(vs VariantSet, sc compile.Scope) string {
	return r.emit(vs, sc, r.comp.Compile)
}

// Rules is Styles without style element envelopes, for callers owning the
// style node themselves.
func (r *Renderer) Rules(vs VariantSet, sc compile.Scope) string {
	return r.emit(vs, sc, r.comp.Rules)
}

func (r *Renderer) emit(vs VariantSet, sc compile.Scope, compileFn func(string, compile.Scope, common.Breakpoint) string) string {
	var out strings.Builder
	vs.Each(func(bp common.Breakpoint, raw string) {
		if len(raw) == 0 {
			return
		}
		clean := r.san.Sanitize(raw)
		r.diagnose(raw, clean, bp)
		if len(clean) == 0 {
			return
		}
		out.WriteString(compileFn(clean, sc, bp))
	})
	return out.String()
}

func (r *Renderer) diagnose(raw, clean string, bp common.Breakpoint) {
	if r.lint == nil {
		return
	}
	for _, d := range r.lint.LintVariant(raw, clean, bp.String()) {
		r.log.Debug("CSS diagnostic", zap.Stringer("breakpoint", bp), zap.Stringer("diagnostic", d))
	}
}

// RenderBlock returns block markup with inner blocks rendered in, scope token
// attached and styles prepended. Block without CSS or without markup is
// returned as is (inner blocks still get rendered). Token is attached even
// when sanitizer leaves nothing to emit.
func (r *Renderer) RenderBlock(b *Block) string {
	if b == nil {
		return ""
	}

	markup := b.Markup
	if len(b.Inner) > 0 {
		var inner strings.Builder
		for _, ib := range b.Inner {
			inner.WriteString(r.RenderBlock(ib))
		}
		if strings.Contains(markup, InnerMarker) {
			markup = strings.Replace(markup, InnerMarker, inner.String(), 1)
		} else {
			markup += inner.String()
		}
	}

	vs := b.Variants()
	if vs.IsEmpty() || len(b.Markup) == 0 {
		return markup
	}

	token := r.fp.Token(b.Attrs, b)
	styles := r.Styles(vs, compile.TokenScope(token))

	r.log.Debug("Block scoped", zap.String("block", b.Name), zap.String("token", token))
	return styles + scope.Attach(markup, token)
}

// RenderDocument renders top level blocks in order and concatenates results.
func (r *Renderer) RenderDocument(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("no document to render")
	}
	if err := doc.check(); err != nil {
		return "", err
	}

	var out strings.Builder
	for _, b := range doc.Blocks {
		out.WriteString(r.RenderBlock(b))
	}
	return out.String(), nil
}
