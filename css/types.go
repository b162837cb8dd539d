package css

import "fmt"

// Kind identifies what diagnostic is about.
type Kind string

const (
	// KindUnbalanced - braces do not pair up.
	KindUnbalanced Kind = "unbalanced"
	// KindHalfBlock - only one kind of brace is present, text is compiled as
	// declaration list.
	KindHalfBlock Kind = "half-block"
	// KindUnscoped - rule in selector block does not reference placeholder and
	// will apply to the whole page.
	KindUnscoped Kind = "unscoped"
	// KindAtRule - at-rule inside author CSS. Names it defines (keyframes,
	// font faces) are global.
	KindAtRule Kind = "at-rule"
	// KindImportant - !important is used.
	KindImportant Kind = "important"
	// KindStrayPlaceholder - placeholder in declaration list has no meaning.
	KindStrayPlaceholder Kind = "stray-placeholder"
	// KindSanitized - sanitizer removed something from the text.
	KindSanitized Kind = "sanitized"
)

// Diagnostic is a single finding about author CSS. Diagnostics never affect
// compilation.
type Diagnostic struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Offset  int    `json:"offset" yaml:"offset"`
	Message string `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s@%d: %s", d.Kind, d.Offset, d.Message)
}
