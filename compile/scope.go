package compile

import "strings"

// Scope decides how the placeholder standing for "the block itself" is
// substituted and which selector bare declaration lists are attached to.
type Scope interface {
	// Expand returns one copy of selector block text per scope expression
	// with every placeholder substituted.
	Expand(text string) []string
	// Selector returns selector list matching the scoped block.
	Selector() string
}

// TokenScope scopes rules to an element carrying token either as its id or
// as one of its classes. Rendered markup is given one form or the other, so
// both selector forms are produced and the browser ignores the one that
// does not match.
type TokenScope string

func (t TokenScope) Expand(text string) []string {
	return []string{
		strings.ReplaceAll(text, Placeholder, "#"+string(t)),
		strings.ReplaceAll(text, Placeholder, "."+string(t)),
	}
}

func (t TokenScope) Selector() string {
	return "#" + string(t) + ", ." + string(t)
}

// AttributeScope scopes rules to an element carrying a stable attribute, as
// blocks do in the live preview DOM. Single substitution pass is enough.
type AttributeScope struct {
	Attribute string
	Value     string
}

// NewAttributeScope returns scope matching [attr="value"].
func NewAttributeScope(attr, value string) AttributeScope {
	return AttributeScope{Attribute: attr, Value: value}
}

func (a AttributeScope) Expand(text string) []string {
	return []string{strings.ReplaceAll(text, Placeholder, a.Selector())}
}

func (a AttributeScope) Selector() string {
	return `[` + a.Attribute + `="` + a.Value + `"]`
}
