// Package compile turns sanitized author CSS into rules scoped to a single
// block instance and wrapped into breakpoint media query.
//
// Compiler does not parse CSS. Text is classified by presence of braces:
// text with both "{" and "}" is a selector block in which Placeholder stands
// for the block itself, anything else is a bare declaration list applied
// to the block directly. Malformed input is passed through and left for the
// browser to ignore.
package compile

import (
	"strings"

	"blockcss/common"
	"blockcss/sanitize"
)

// Placeholder is replaced with the block selector in selector blocks.
const Placeholder = "&"

// MarkupStripper removes HTML markup from text without decoding it.
type MarkupStripper interface {
	StripMarkup(text string) string
}

// Compiler is stateless and safe for concurrent use.
type Compiler struct {
	strip MarkupStripper
}

// New creates Compiler. When strip is nil markup is removed by sanitize.Sanitizer.
func New(strip MarkupStripper) *Compiler {
	if strip == nil {
		strip = sanitize.New()
	}
	return &Compiler{strip: strip}
}

// IsSelectorBlock reports whether text has to be compiled as selector block.
func IsSelectorBlock(text string) bool {
	return strings.Contains(text, "{") && strings.Contains(text, "}")
}

// Compile returns scoped rules for already sanitized text wrapped into style
// element, or empty string when there is nothing to emit.
func (c *Compiler) Compile(sanitized string, scope Scope, bp common.Breakpoint) string {
	rules := c.Rules(sanitized, scope, bp)
	if len(rules) == 0 {
		return ""
	}
	return Envelope(rules)
}

// Rules is Compile without style element envelope.
func (c *Compiler) Rules(sanitized string, scope Scope, bp common.Breakpoint) string {
	css := strings.TrimSpace(sanitized)
	if len(css) == 0 {
		return ""
	}

	var out string
	if IsSelectorBlock(css) {
		copies := scope.Expand(css)
		for i := range copies {
			// substitution must not smuggle markup in
			copies[i] = c.strip.StripMarkup(copies[i])
		}
		out = strings.Join(copies, " ")
	} else {
		out = scope.Selector() + " { " + c.strip.StripMarkup(css) + " }"
	}

	if cond := bp.MediaCondition(); len(cond) > 0 {
		out = "@media " + cond + " { " + out + " }"
	}
	return out
}

// Envelope wraps rules into style element so they can be inserted into HTML
// as is.
func Envelope(rules string) string {
	return "<style>" + rules + "</style>"
}
