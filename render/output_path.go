package render

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"blockcss/config"
	"blockcss/state"
)

// buildOutputPath returns output file path for document. "src" is source
// path relative to what was requested on command line, "dst" is destination
// directory. Source directory structure is preserved unless NoDirs is set.
// User template may produce subdirectories, each segment is cleaned and
// transliterated if requested.
func buildOutputPath(doc *Document, src, dst string, env *state.LocalEnv) string {
	outDir := dst
	if !env.NoDirs {
		outDir = filepath.Join(dst, filepath.Dir(src))
	}

	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if tmpl := env.Cfg.Render.OutputNameTemplate; tmpl != "" {
		expanded, err := expandTemplate(doc, src, config.OutputNameTemplateFieldName, tmpl)
		if err != nil {
			env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		} else if segments := splitPath(filepath.FromSlash(expanded)); len(segments) > 0 {
			parts := append([]string{outDir}, cleanSegments(segments[:len(segments)-1], env)...)
			return filepath.Join(append(parts, cleanSegment(segments[len(segments)-1], env)+env.Cfg.Render.Extension)...)
		}
	}
	return filepath.Join(outDir, cleanSegment(name, env)+env.Cfg.Render.Extension)
}

// splitPath returns non-empty path segments, "." and ".." are dropped so
// template cannot escape destination.
func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, string(filepath.Separator)) {
		s = strings.TrimSpace(s)
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

func cleanSegments(segments []string, env *state.LocalEnv) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		out = append(out, cleanSegment(s, env))
	}
	return out
}

func cleanSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Render.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
