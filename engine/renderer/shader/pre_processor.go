// pre_processor.go implements the WGSL shader pre-processor. WGSL has no native
// conditional compilation, so shader variants (e.g. the horizontal and vertical
// halves of a separable blur) are produced from a single source file using
// #define / #if / #else / #endif directives plus whole-word substitution of
// defined symbols.
//
// Directives occupy their own line and must be the first non-space token:
//
//	#define NAME [VALUE]
//	#if NAME
//	#else
//	#endif
//
// #if is true when NAME is defined with a value other than "0" or "false".
// Defines without a value participate in #if but are not substituted into
// the output. Conditionals nest; directive lines never appear in the output.
package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// directiveRegex matches a pre-processor directive line and captures the
// directive name and its arguments.
var directiveRegex = regexp.MustCompile(`^\s*#(\w+)\s*(.*?)\s*$`)

// identRegex validates symbol names used in #define and #if.
var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// defines maps symbol names to replacement values. Seeded from the
	// constructor and extended by #define lines during Process.
	defines map[string]string
}

// PreProcessor processes raw WGSL shader source code, resolving conditional
// compilation directives and substituting defined symbols so that a single
// source file can produce multiple pipeline variants.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and resolves all pre-processor
	// directives. Lines inside false conditional branches are dropped, directive
	// lines are removed, and defined symbols with values are substituted into the
	// surviving lines as whole words.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing directives
	//
	// Returns:
	//   - string: the processed WGSL shader source code
	//   - error: an error if a directive is malformed or conditionals are unbalanced
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor seeded with the provided defines.
// The map may be nil. Seeded defines behave exactly like #define lines at the
// top of the source and can be overridden by #define lines in the source.
//
// Parameters:
//   - defines: initial symbol definitions, or nil
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(defines map[string]string) PreProcessor {
	p := &preProcessor{defines: make(map[string]string, len(defines))}
	for k, v := range defines {
		p.defines[k] = v
	}
	return p
}

// condFrame tracks one level of #if nesting.
type condFrame struct {
	// active reports whether lines in the current branch are emitted.
	active bool
	// taken reports whether any branch of this conditional has been active,
	// used to reject a second #else.
	seenElse bool
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	var stack []condFrame

	emitting := func() bool {
		for _, f := range stack {
			if !f.active {
				return false
			}
		}
		return true
	}

	for i, line := range lines {
		match := directiveRegex.FindStringSubmatch(line)
		if match == nil {
			if emitting() {
				out = append(out, line)
			}
			continue
		}

		directive := match[1]
		args := match[2]

		switch directive {
		case "define":
			if !emitting() {
				continue
			}
			name, value, _ := strings.Cut(args, " ")
			if !identRegex.MatchString(name) {
				return "", fmt.Errorf("line %d: invalid #define name %q", i+1, name)
			}
			p.defines[name] = strings.TrimSpace(value)
		case "if":
			if !identRegex.MatchString(args) {
				return "", fmt.Errorf("line %d: invalid #if condition %q", i+1, args)
			}
			value, defined := p.defines[args]
			truthy := defined && value != "0" && value != "false"
			stack = append(stack, condFrame{active: truthy})
		case "else":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #else without matching #if", i+1)
			}
			top := &stack[len(stack)-1]
			if top.seenElse {
				return "", fmt.Errorf("line %d: duplicate #else", i+1)
			}
			top.active = !top.active
			top.seenElse = true
		case "endif":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #endif without matching #if", i+1)
			}
			stack = stack[:len(stack)-1]
		default:
			return "", fmt.Errorf("line %d: unknown directive #%s", i+1, directive)
		}
	}

	if len(stack) > 0 {
		return "", fmt.Errorf("unterminated #if at end of source")
	}

	return p.substitute(strings.Join(out, "\n")), nil
}

// substitute replaces whole-word occurrences of every defined symbol that has
// a non-empty value. Symbols are applied in sorted order so the output is
// deterministic.
func (p *preProcessor) substitute(source string) string {
	names := make([]string, 0, len(p.defines))
	for name, value := range p.defines {
		if value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		source = re.ReplaceAllString(source, p.defines[name])
	}
	return source
}
