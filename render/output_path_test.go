package render

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"blockcss/config"
	"blockcss/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Render.FileNameTransliterate = transliterate
	cfg.Render.OutputNameTemplate = template

	return &state.LocalEnv{Log: logger, Cfg: cfg, NoDirs: noDirs}
}

func testDocument() *Document {
	return &Document{
		Title: "Привет Мир",
		Blocks: []*Block{
			{Name: "core/group"},
			{Name: "core/paragraph"},
		},
	}
}

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.FromSlash("/out")

	tests := []struct {
		name          string
		src           string
		noDirs        bool
		transliterate bool
		template      string
		want          string
	}{
		{"default name", "page.yaml", false, false, "", "/out/page.html"},
		{"keeps source dirs", "site/docs/page.yaml", false, false, "", "/out/site/docs/page.html"},
		{"no dirs", "site/docs/page.yaml", true, false, "", "/out/page.html"},
		{"transliterated default", "Привет.yaml", false, true, "", "/out/privet.html"},
		{"template title", "page.yaml", false, false, "{{ .Title }}", "/out/Привет Мир.html"},
		{"template transliterated", "page.yaml", true, true, "{{ .Title }}", "/out/privet-mir.html"},
		{"template with dirs", "a/page.yaml", false, false, "{{ .SourceFile }}/{{ .Blocks }}-blocks", "/out/a/page/2-blocks.html"},
		{"template cannot escape", "page.yaml", true, false, "../../{{ .SourceFile }}", "/out/page.html"},
		{"sprig functions", "page.yaml", true, false, "{{ .SourceFile | upper }}", "/out/PAGE.html"},
		{"broken template falls back", "page.yaml", true, false, "{{ .Title ", "/out/page.html"},
		{"empty expansion falls back", "page.yaml", true, false, "{{ if false }}x{{ end }}", "/out/page.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			got := buildOutputPath(testDocument(), filepath.FromSlash(tt.src), dst, env)
			if want := filepath.FromSlash(tt.want); got != want {
				t.Errorf("buildOutputPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestBuildOutputPath_Extension(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	env.Cfg.Render.Extension = ".htm"
	if got := buildOutputPath(testDocument(), "page.json", "out", env); got != filepath.Join("out", "page.htm") {
		t.Errorf("buildOutputPath() = %q", got)
	}
}

func TestExpandTemplate_Values(t *testing.T) {
	got, err := expandTemplate(testDocument(), "dir/src.yaml", config.OutputNameTemplateFieldName, "{{ .Context }}|{{ .SourceFile }}|{{ join \",\" .Names }}")
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if want := "output_name_template|src|core/group,core/paragraph"; got != want {
		t.Errorf("expandTemplate() = %q, want %q", got, want)
	}
}
