package myers

import (
	"fmt"
	"path"

	"github.com/dlclark/regexp2"
	"github.com/reviewboard/diffchunk"
)

// HeaderCategory is the interesting-line category filled by
// AddInterestingLinesForHeaders.
const HeaderCategory = "header"

// HeaderPattern associates file name globs with regular expressions that
// match the header lines (function and class definitions) of those files.
type HeaderPattern struct {
	Globs    []string
	Patterns []*regexp2.Regexp
}

func mustHeader(globs []string, exprs ...string) HeaderPattern {
	p := HeaderPattern{Globs: globs}
	for _, expr := range exprs {
		p.Patterns = append(p.Patterns, regexp2.MustCompile(expr, regexp2.None))
	}
	return p
}

// DefaultHeaderPatterns covers the common languages.
var DefaultHeaderPatterns = []HeaderPattern{
	mustHeader([]string{"*.c", "*.h", "*.cc", "*.cpp", "*.cxx", "*.hh", "*.hpp", "*.hxx", "*.m", "*.mm"},
		`^[A-Za-z_][\w\s\*&:<>,~]*?\b(?!(?:if|for|while|switch|return|sizeof)\b)[A-Za-z_~][\w:~]*\s*\([^;]*$`,
		`^\s*(?:class|struct|namespace)\s+[A-Za-z_]\w*`,
	),
	mustHeader([]string{"*.cs"},
		`^\s*(?:(?:public|private|protected|internal|static|abstract|override|virtual|async)\s+)+[\w\.\[\]<>,]+\s+[A-Za-z_]\w*\s*\(`,
		`^\s*(?:(?:public|private|protected|internal|static|abstract|partial|sealed)\s+)*(?:class|struct|interface)\s+[A-Za-z_]\w*`,
	),
	mustHeader([]string{"*.java"},
		`^\s*(?:(?:public|private|protected|static|final|abstract|synchronized)\s+)+[\w\.\[\]<>,]+\s+[A-Za-z_]\w*\s*\(`,
		`^\s*(?:(?:public|private|protected|static|final|abstract)\s+)*(?:class|interface|enum)\s+[A-Za-z_]\w*`,
	),
	mustHeader([]string{"*.go"},
		`^func\s+(?:\([^)]*\)\s*)?[A-Za-z_]\w*`,
		`^type\s+[A-Za-z_]\w*\s+(?:struct|interface)\b`,
	),
	mustHeader([]string{"*.py"},
		`^\s*(?:async\s+)?(?:def|class)\s+[A-Za-z_]\w*\s*[\(:]?`,
	),
	mustHeader([]string{"*.rb"},
		`^\s*(?:def|class|module)\s+[A-Za-z_][\w\.:]*[!?]?`,
	),
	mustHeader([]string{"*.js", "*.jsx", "*.mjs", "*.ts", "*.tsx"},
		`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*[A-Za-z_$][\w$]*\s*\(`,
		`^\s*(?:export\s+)?(?:var|let|const)?\s*[A-Za-z_$][\w$\.]*\s*[=:]\s*(?:async\s+)?function\b`,
		`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+[A-Za-z_$][\w$]*`,
	),
	mustHeader([]string{"*.pl", "*.pm"},
		`^\s*sub\s+[A-Za-z_]\w*`,
	),
	mustHeader([]string{"*.php"},
		`^\s*(?:(?:public|private|protected|static|abstract|final)\s+)*(?:class|function|interface|trait)\s+[A-Za-z_]\w*`,
	),
	mustHeader([]string{"*.sh", "*.bash"},
		`^\s*(?:function\s+)?[A-Za-z_][\w-]*\s*\(\)\s*\{?`,
		`^\s*function\s+[A-Za-z_][\w-]*`,
	),
}

type lineMatcher struct {
	category string
	re       *regexp2.Regexp
}

// AddInterestingLineRegex registers pattern under category. Lines that
// match and end up aligned as equal are collected while the opcodes are
// computed, so registration must happen before the first call to Opcodes.
func (d *Differ) AddInterestingLineRegex(category, pattern string) error {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return fmt.Errorf("compiling interesting line pattern %q: %w", pattern, err)
	}
	d.addMatcher(category, re)
	return nil
}

// AddInterestingLinesForHeaders registers the header patterns whose globs
// match the base name of filename, under HeaderCategory.
func (d *Differ) AddInterestingLinesForHeaders(filename string) {
	base := path.Base(filename)
	for _, hp := range d.headerPatterns {
		if !matchesAny(hp.Globs, base) {
			continue
		}
		for _, re := range hp.Patterns {
			d.addMatcher(HeaderCategory, re)
		}
	}
}

func (d *Differ) addMatcher(category string, re *regexp2.Regexp) {
	d.matchers = append(d.matchers, lineMatcher{category: category, re: re})
	for side := range d.interesting {
		if d.interesting[side] == nil {
			d.interesting[side] = make(map[string][]diffchunk.InterestingLine)
		}
		if _, ok := d.interesting[side][category]; !ok {
			d.interesting[side][category] = []diffchunk.InterestingLine{}
		}
	}
}

// InterestingLines returns the lines captured for category on the original
// side, or on the modified side when modified is true. The result is only
// complete once the opcodes have been computed.
func (d *Differ) InterestingLines(category string, modified bool) []diffchunk.InterestingLine {
	side := 0
	if modified {
		side = 1
	}
	return d.interesting[side][category]
}

// matchInteresting tests the equal pair (a[i], b[j]) against every
// registered pattern. A line matched by several patterns of one category is
// recorded once.
func (d *Differ) matchInteresting(i, j int) {
	if len(d.matchers) == 0 {
		return
	}
	seen := make(map[string][2]bool, len(d.matchers))
	for _, m := range d.matchers {
		got := seen[m.category]
		if !got[0] && matches(m.re, d.a[i]) {
			got[0] = true
			d.interesting[0][m.category] = append(d.interesting[0][m.category], diffchunk.InterestingLine{Index: i, Text: d.a[i]})
		}
		if !got[1] && matches(m.re, d.b[j]) {
			got[1] = true
			d.interesting[1][m.category] = append(d.interesting[1][m.category], diffchunk.InterestingLine{Index: j, Text: d.b[j]})
		}
		seen[m.category] = got
	}
}

func matches(re *regexp2.Regexp, line string) bool {
	ok, err := re.MatchString(line)
	return err == nil && ok
}

func matchesAny(globs []string, name string) bool {
	for _, g := range globs {
		if ok, _ := path.Match(g, name); ok {
			return true
		}
	}
	return false
}
