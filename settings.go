package diffchunk

// Settings provides the configuration the diff pipeline consults.
type Settings interface {
	// ContextLines returns how many equal lines to keep around changes
	// before the rest of an equal run becomes collapsable.
	ContextLines() int
	// SyntaxHighlighting reports whether syntax highlighting is enabled.
	SyntaxHighlighting() bool
	// SyntaxHighlightingThreshold returns the line count above which a file
	// is not highlighted. Zero means no limit.
	SyntaxHighlightingThreshold() int
	// CustomLexer returns the lexer configured for a file extension
	// (".py"), if any.
	CustomLexer(ext string) (string, bool)
	// IncludeSpacePatterns returns filename globs for which whitespace is
	// never ignored during alignment.
	IncludeSpacePatterns() []string
	// IgnoreSpace reports whether alignment should ignore whitespace.
	IgnoreSpace() bool
	// MaxIntralineLength returns the longest line, in characters, for which
	// intraline regions are computed.
	MaxIntralineLength() int
	// HighlightBlacklist returns extensions that are never highlighted.
	HighlightBlacklist() []string
	// CodeSafetyCheckers returns the enabled checker IDs. An empty list
	// enables every registered checker.
	CodeSafetyCheckers() []string
}

// Highlighter renders source text as HTML markup.
type Highlighter interface {
	// Highlight returns one markup line per line of text, or false if the
	// text could not be highlighted.
	Highlight(text, filename string) ([]string, bool)
}

// CodeSafetyChecker inspects a pair of raw lines for risky content.
type CodeSafetyChecker interface {
	// Check returns the findings for the pair. Either line may be empty when
	// the row has no content on that side.
	Check(origLine, modifiedLine string) []CodeSafetyFinding
}
