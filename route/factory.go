package route

// Factory bundles a separator (and its escaped form, reserved for callers
// that need literal-separator keys in string-mode routes) and builds
// [Route] values from strings in bulk.
type Factory struct {
	// Sep is the unescaped separator used to split route strings.
	Sep string
	// EscapedSep is the sequence a caller may use to express a literal
	// separator character in a source string before it reaches [Factory.Parse].
	// The factory itself does not interpret it; routes have no escape
	// mechanism of their own (see [FromString]).
	EscapedSep string
}

// NewFactory returns a Factory with separator sep and escaped separator
// escapedSep, both stored as given.
func NewFactory(sep, escapedSep string) Factory {
	return Factory{Sep: sep, EscapedSep: escapedSep}
}

// Parse builds a string-mode Route from s using the factory's separator.
func (f Factory) Parse(s string) Route {
	return FromString(s, f.Sep)
}

// ParseAll builds a Route for every string in ss, in order.
func (f Factory) ParseAll(ss []string) []Route {
	routes := make([]Route, len(ss))
	for i, s := range ss {
		routes[i] = f.Parse(s)
	}

	return routes
}
