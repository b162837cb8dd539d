// Package css inspects author CSS and reports things that are likely not what
// author wanted. It uses real CSS tokenizer but never changes text.
package css

import (
	"fmt"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Linter produces diagnostics for author CSS.
type Linter struct {
	log         *zap.Logger
	placeholder string
}

// NewLinter creates a new CSS linter. placeholder is the sequence standing for
// the block itself in selector blocks.
func NewLinter(placeholder string, log *zap.Logger) *Linter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Linter{log: log.Named("css-lint"), placeholder: placeholder}
}

// LintVariant reports on raw author text and on what sanitizer made of it.
// The optional source parameter identifies what's being linted (for debug
// logging).
func (l *Linter) LintVariant(raw, sanitized string, source ...string) []Diagnostic {
	var diags []Diagnostic
	if strings.TrimSpace(raw) != sanitized {
		diags = append(diags, Diagnostic{
			Kind:    KindSanitized,
			Message: fmt.Sprintf("%d byte(s) removed by sanitizer", len(strings.TrimSpace(raw))-len(sanitized)),
		})
	}
	return append(diags, l.Lint(sanitized, source...)...)
}

// Lint inspects text and returns diagnostics grouped by check.
func (l *Linter) Lint(text string, source ...string) []Diagnostic {
	if len(source) > 0 && source[0] != "" {
		l.log.Debug("Linting CSS", zap.String("source", source[0]), zap.Int("bytes", len(text)))
	}

	open, closed := strings.Contains(text, "{"), strings.Contains(text, "}")
	switch {
	case open && closed:
		return l.lintBlock(text)
	case open || closed:
		return append([]Diagnostic{{
			Kind:    KindHalfBlock,
			Offset:  strings.IndexAny(text, "{}"),
			Message: "only one kind of brace present, text is treated as declaration list",
		}}, l.lintDeclarations(text)...)
	default:
		return l.lintDeclarations(text)
	}
}

// lintDeclarations handles bare declaration lists.
func (l *Linter) lintDeclarations(text string) []Diagnostic {
	var diags []Diagnostic
	if i := strings.Index(text, l.placeholder); i >= 0 {
		diags = append(diags, Diagnostic{
			Kind:    KindStrayPlaceholder,
			Offset:  i,
			Message: fmt.Sprintf("%q outside of selector block is kept literally", l.placeholder),
		})
	}
	return append(diags, l.scanImportant(text)...)
}

// lintBlock walks top level rules of selector block.
func (l *Linter) lintBlock(text string) []Diagnostic {
	var (
		diags   []Diagnostic
		depth   int
		offset  int
		start   = -1
		prelude strings.Builder
		atRule  string
	)

	lexer := css.NewLexer(parse.NewInputString(text))
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		pos := offset
		offset += len(data)

		switch tt {
		case css.LeftBraceToken:
			if depth == 0 {
				diags = append(diags, l.checkPrelude(prelude.String(), atRule, start)...)
				prelude.Reset()
				atRule, start = "", -1
			}
			depth++
		case css.RightBraceToken:
			if depth == 0 {
				diags = append(diags, Diagnostic{Kind: KindUnbalanced, Offset: pos, Message: "closing brace without matching opening brace"})
				continue
			}
			depth--
		case css.SemicolonToken:
			if depth == 0 {
				// statement at-rule or garbage between rules
				prelude.Reset()
				atRule, start = "", -1
			}
		case css.AtKeywordToken:
			if depth == 0 && start < 0 {
				atRule = string(data)
			}
		}

		if depth == 0 && tt != css.LeftBraceToken && tt != css.RightBraceToken && tt != css.CommentToken {
			if start < 0 && tt != css.WhitespaceToken && tt != css.SemicolonToken {
				start = pos
			}
			if start >= 0 {
				prelude.Write(data)
			}
		}
	}
	if err := lexer.Err(); err != nil && err.Error() != "EOF" {
		l.log.Debug("CSS tokenizer error", zap.Error(err))
	}

	if depth > 0 {
		diags = append(diags, Diagnostic{Kind: KindUnbalanced, Offset: len(text), Message: fmt.Sprintf("%d block(s) left open", depth)})
	}
	return append(diags, l.scanImportant(text)...)
}

func (l *Linter) checkPrelude(prelude, atRule string, offset int) []Diagnostic {
	if offset < 0 {
		offset = 0
	}
	prelude = strings.TrimSpace(prelude)
	if len(atRule) > 0 {
		return []Diagnostic{{
			Kind:    KindAtRule,
			Offset:  offset,
			Message: fmt.Sprintf("%s inside block CSS is not scoped to the block", atRule),
		}}
	}
	var diags []Diagnostic
	for sel := range strings.SplitSeq(prelude, ",") {
		if sel = strings.TrimSpace(sel); !strings.Contains(sel, l.placeholder) {
			diags = append(diags, Diagnostic{
				Kind:    KindUnscoped,
				Offset:  offset,
				Message: fmt.Sprintf("selector %q does not reference %q and applies to the whole page", sel, l.placeholder),
			})
		}
	}
	return diags
}

func (l *Linter) scanImportant(text string) []Diagnostic {
	var (
		diags  []Diagnostic
		offset int
		bang   bool
	)
	lexer := css.NewLexer(parse.NewInputString(text))
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt == css.IdentToken && bang && strings.EqualFold(string(data), "important") {
			diags = append(diags, Diagnostic{Kind: KindImportant, Offset: offset, Message: "!important overrides cascade of surrounding styles"})
		}
		bang = tt == css.DelimToken && string(data) == "!" || bang && tt == css.WhitespaceToken
		offset += len(data)
	}
	return diags
}
