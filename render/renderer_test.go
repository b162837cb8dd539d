package render

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"blockcss/compile"
	"blockcss/css"
	"blockcss/sanitize"
	"blockcss/scope"
)

var testFingerprint = scope.Fingerprint{Prefix: "blockcss-", Length: 12}

func newTestRenderer() *Renderer {
	return NewRenderer(nil, nil, nil, testFingerprint, nil)
}

func TestStyles_Order(t *testing.T) {
	r := newTestRenderer()
	vs := VariantSet{
		Desktop: "margin: 3px;",
		All:     "margin: 0;",
		Tablet:  "margin: 2px;",
		Mobile:  "margin: 1px;",
	}
	got := r.Styles(vs, compile.TokenScope("t"))
	want := "<style>#t, .t { margin: 0; }</style>" +
		"<style>@media (max-width: 767px) { #t, .t { margin: 1px; } }</style>" +
		"<style>@media (min-width: 768px) and (max-width: 1024px) { #t, .t { margin: 2px; } }</style>" +
		"<style>@media (min-width: 1025px) { #t, .t { margin: 3px; } }</style>"
	if got != want {
		t.Errorf("Styles() =\n%s\nwant\n%s", got, want)
	}
}

func TestStyles_SlotsIndependent(t *testing.T) {
	r := newTestRenderer()
	vs := VariantSet{All: "<script>x</script>", Tablet: "color: red;"}
	got := r.Styles(vs, compile.TokenScope("t"))
	want := "<style>@media (min-width: 768px) and (max-width: 1024px) { #t, .t { color: red; } }</style>"
	if got != want {
		t.Errorf("Styles() = %q, want %q", got, want)
	}
}

func TestStyles_AttributeScope(t *testing.T) {
	r := newTestRenderer()
	got := r.Styles(VariantSet{All: "& a { color: red; }"}, compile.NewAttributeScope("data-block", "x1"))
	want := `<style>[data-block="x1"] a { color: red; }</style>`
	if got != want {
		t.Errorf("Styles() = %q, want %q", got, want)
	}
}

func TestRules_MatchStyles(t *testing.T) {
	r := newTestRenderer()
	vs := VariantSet{All: "color: red;", Desktop: "& a { color: blue; }"}
	sc := compile.NewAttributeScope("data-block", "x")

	rules := r.Rules(vs, sc)
	want := `[data-block="x"] { color: red; }` + `@media (min-width: 1025px) { [data-block="x"] a { color: blue; } }`
	if rules != want {
		t.Errorf("Rules() = %q, want %q", rules, want)
	}
	styles := r.Styles(vs, sc)
	if strings.ReplaceAll(strings.ReplaceAll(styles, "<style>", ""), "</style>", "") != rules {
		t.Errorf("Styles() and Rules() disagree: %q vs %q", styles, rules)
	}
}

func TestRenderBlock(t *testing.T) {
	r := newTestRenderer()

	b := &Block{
		Name:   "core/paragraph",
		Attrs:  map[string]any{"cssKubeCSS_all": "color: red;"},
		Markup: `<p class="intro">Hi</p>`,
	}
	token := testFingerprint.Token(b.Attrs, b)

	got := r.RenderBlock(b)
	want := "<style>#" + token + ", ." + token + " { color: red; }</style>" +
		`<p class="intro" id="` + token + `">Hi</p>`
	if got != want {
		t.Errorf("RenderBlock() =\n%s\nwant\n%s", got, want)
	}
	if again := r.RenderBlock(b); again != got {
		t.Error("rendering must be deterministic")
	}
}

func TestRenderBlock_Unchanged(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name string
		b    *Block
		want string
	}{
		{"no css", &Block{Markup: "<p>x</p>"}, "<p>x</p>"},
		{"empty css record", &Block{CSS: &VariantSet{}, Markup: "<p>x</p>"}, "<p>x</p>"},
		{"no markup", &Block{CSS: &VariantSet{All: "color: red;"}}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RenderBlock(tt.b); got != tt.want {
				t.Errorf("RenderBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderBlock_SanitizedAway(t *testing.T) {
	r := newTestRenderer()
	b := &Block{CSS: &VariantSet{All: "  "}, Markup: "<div>x</div>"}
	token := testFingerprint.Token(b.Attrs, b)

	got := r.RenderBlock(b)
	if got != `<div id="`+token+`">x</div>` {
		t.Errorf("RenderBlock() = %q", got)
	}
}

func TestRenderBlock_Inner(t *testing.T) {
	r := newTestRenderer()

	inner := &Block{Name: "child", CSS: &VariantSet{Mobile: "color: red;"}, Markup: "<p>c</p>"}
	outer := &Block{
		Name:   "parent",
		CSS:    &VariantSet{All: "& > p { margin: 0; }"},
		Markup: "<div>" + InnerMarker + "</div>",
		Inner:  []*Block{inner},
	}
	innerToken := testFingerprint.Token(inner.Attrs, inner)
	outerToken := testFingerprint.Token(outer.Attrs, outer)

	got := r.RenderBlock(outer)
	wantInner := "<style>@media (max-width: 767px) { #" + innerToken + ", ." + innerToken + " { color: red; } }</style>" +
		`<p id="` + innerToken + `">c</p>`
	want := "<style>#" + outerToken + " > p { margin: 0; } ." + outerToken + " > p { margin: 0; }</style>" +
		`<div id="` + outerToken + `">` + wantInner + "</div>"
	if got != want {
		t.Errorf("RenderBlock() =\n%s\nwant\n%s", got, want)
	}
	if innerToken == outerToken {
		t.Error("different blocks must get different tokens")
	}
}

func TestRenderBlock_InnerAppended(t *testing.T) {
	r := newTestRenderer()
	b := &Block{
		Markup: "<ul></ul>",
		Inner:  []*Block{{Markup: "<li>1</li>"}, {Markup: "<li>2</li>"}},
	}
	if got := r.RenderBlock(b); got != "<ul></ul><li>1</li><li>2</li>" {
		t.Errorf("RenderBlock() = %q", got)
	}
}

func TestRenderDocument(t *testing.T) {
	r := newTestRenderer()

	doc := &Document{Blocks: []*Block{
		{Markup: "<h1>A</h1>"},
		{CSS: &VariantSet{All: "color: red;"}, Markup: "<p>B</p>"},
	}}
	got, err := r.RenderDocument(doc)
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if !strings.HasPrefix(got, "<h1>A</h1><style>") || !strings.HasSuffix(got, ">B</p>") {
		t.Errorf("RenderDocument() = %q", got)
	}

	if _, err := r.RenderDocument(nil); err == nil {
		t.Error("expected error for nil document")
	}
	if _, err := r.RenderDocument(&Document{Blocks: []*Block{nil}}); err == nil {
		t.Error("expected error for nil block")
	}
}

func TestRenderer_LogsDiagnostics(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	san := sanitize.New()
	r := NewRenderer(san, compile.New(san), css.NewLinter(compile.Placeholder, log), testFingerprint, log)
	r.Styles(VariantSet{All: "p { color: red !important; }"}, compile.TokenScope("t"))

	entries := logs.FilterMessage("CSS diagnostic").All()
	if len(entries) < 2 {
		t.Fatalf("expected unscoped and important diagnostics, got %d", len(entries))
	}
	for _, e := range entries {
		if e.LoggerName != "render" {
			t.Errorf("diagnostic logged by %q, want render", e.LoggerName)
		}
	}
}
