// Enumerations shared between the transform engine, configuration and the
// command line. Kept separate so that packages below config do not have to
// import it.
package common

// Responsive condition under which a CSS variant applies.
// ENUM(all, mobile, tablet, desktop)
type Breakpoint int

// Breakpoints lists all breakpoints in the order their variants are emitted.
// Later entries win the cascade when selectors have equal specificity.
var Breakpoints = [...]Breakpoint{BreakpointAll, BreakpointMobile, BreakpointTablet, BreakpointDesktop}

// MediaCondition returns media query condition for breakpoint or empty string
// when breakpoint is unconditional.
func (x Breakpoint) MediaCondition() string {
	switch x {
	case BreakpointMobile:
		return "(max-width: 767px)"
	case BreakpointTablet:
		return "(min-width: 768px) and (max-width: 1024px)"
	case BreakpointDesktop:
		return "(min-width: 1025px)"
	default:
		return ""
	}
}
