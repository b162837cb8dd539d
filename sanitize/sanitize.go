// Package sanitize neutralizes executable content in author supplied CSS.
//
// It is a deny-list filter, not a validator: everything it does not know
// about is passed through unchanged, character references included.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	scriptRe     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script\s*>`)
	protocolRe   = regexp.MustCompile(`(?i)javascript:|vbscript:|data:text/html`)
	importRe     = regexp.MustCompile(`(?i)@import\s*`)
	expressionRe = regexp.MustCompile(`(?i)expression\s*\(`)
	// whole declaration goes, including any prefix glued to the property name
	// (scroll-behavior) and the terminating semicolon
	declarationRe = regexp.MustCompile(`(?i)[-\w]*(?:behavior|-moz-binding)\s*:[^;{}]*;?[ \t]*`)
)

// Every pass that changes text makes it shorter. Text still changing after
// maxPasses is dropped entirely.
const maxPasses = 64

// Sanitizer strips dangerous constructs from raw CSS text. Safe for
// concurrent use.
type Sanitizer struct{}

// New creates Sanitizer.
func New() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize returns raw with markup, script fragments, script protocols,
// @import directives, behavior/-moz-binding declarations and expression()
// calls removed and surrounding whitespace trimmed. It never fails, the worst
// case is an empty string.
//
// Passes are repeated until text stops changing so a removal can never glue
// together a new forbidden token ("javajavascript:script:"). As a result
// Sanitize(Sanitize(x)) == Sanitize(x).
func (s *Sanitizer) Sanitize(raw string) string {
	out := raw
	for range maxPasses {
		next := s.pass(out)
		if next == out {
			return out
		}
		out = next
	}
	return ""
}

func (s *Sanitizer) pass(in string) string {
	out := scriptRe.ReplaceAllString(in, "")
	out = s.StripMarkup(out)
	out = protocolRe.ReplaceAllString(out, "")
	out = importRe.ReplaceAllString(out, "")
	out = declarationRe.ReplaceAllString(out, "")
	out = expressionRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// StripMarkup removes HTML tags, comments and doctypes from text. Content of
// script and style elements goes together with the elements, all other text
// is copied byte for byte: character references are never decoded. Result
// contains no tags even when removal of one tag assembles another.
func (s *Sanitizer) StripMarkup(text string) string {
	for strings.ContainsRune(text, '<') {
		next := stripTags(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

// stripTags is a single tokenizer pass. Output is a subsequence of input.
func stripTags(text string) string {
	var (
		b    strings.Builder
		skip string
	)
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, unterminated trailing tag is dropped
			return b.String()
		case html.TextToken:
			if len(skip) == 0 {
				b.Write(z.Raw())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); len(skip) == 0 {
				if n := string(name); n == "script" || n == "style" {
					skip = n
				}
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == skip {
				skip = ""
			}
		}
	}
}
