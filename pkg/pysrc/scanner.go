// Package pysrc extracts imported module names from Python source text.
//
// The scanner is purely static: it looks at top-level import statements
// without executing anything. Imports nested inside functions, classes, or
// conditionals are ignored, as are relative imports (`from . import x`),
// which never map to an installable package.
//
// Unparseable input (an unterminated string literal, an unmatched closing
// bracket, a malformed import statement) fails with [*SyntaxError]. That is
// the only error type returned; callers that want to treat bad source as
// "nothing to do" can check for it with errors.As.
package pysrc

import (
	"fmt"
	"regexp"
	"strings"
)

// SyntaxError reports unparseable source text.
type SyntaxError struct {
	Line int    // 1-based line number
	Msg  string // what went wrong
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Msg)
}

var moduleNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// FindImports returns the root module names imported at the top level of
// source, deduplicated, in first-seen order.
//
// `import a.b as c` and `from a.b import x` both contribute "a": only the
// root segment identifies the installable distribution. Relative imports
// contribute nothing.
func FindImports(source string) ([]string, error) {
	lines, err := stripLiterals(source)
	if err != nil {
		return nil, err
	}

	var (
		imports []string
		seen    = make(map[string]bool)
		depth   int
	)

	add := func(mods []string) {
		for _, m := range mods {
			if !seen[m] {
				seen[m] = true
				imports = append(imports, m)
			}
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		startDepth := depth

		// Join explicit backslash continuations into one logical line.
		logical := line
		for hasContinuation(logical) && i+1 < len(lines) {
			logical = strings.TrimSuffix(strings.TrimRight(logical, " \t"), `\`) + " " + strings.TrimSpace(lines[i+1])
			i++
		}
		if hasContinuation(logical) {
			return nil, &SyntaxError{Line: i + 1, Msg: "line continuation at end of input"}
		}

		for _, r := range logical {
			switch r {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
				if depth < 0 {
					return nil, &SyntaxError{Line: i + 1, Msg: "unmatched closing bracket"}
				}
			}
		}

		// Only statements that begin at bracket depth zero and column zero
		// are top-level.
		if startDepth != 0 || line != strings.TrimLeft(line, " \t") {
			continue
		}

		lineNo := i + 1
		// A physical line can hold several statements joined by semicolons;
		// literals are already stripped, so every ";" here is a separator.
		for _, stmt := range strings.Split(logical, ";") {
			stmt = strings.TrimSpace(stmt)
			switch {
			case stmt == "import" || strings.HasPrefix(stmt, "import "):
				mods, err := parseImport(stmt, lineNo)
				if err != nil {
					return nil, err
				}
				add(mods)
			case stmt == "from" || strings.HasPrefix(stmt, "from "):
				mod, err := parseFrom(stmt, lineNo)
				if err != nil {
					return nil, err
				}
				if mod != "" {
					add([]string{mod})
				}
			}
		}
	}

	if depth != 0 {
		return nil, &SyntaxError{Line: len(lines), Msg: "unclosed bracket at end of input"}
	}
	return imports, nil
}

func hasContinuation(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t"), `\`)
}

// parseImport handles `import a.b as c, d`, returning the root module names.
func parseImport(stmt string, line int) ([]string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(stmt, "import"))
	if rest == "" {
		return nil, &SyntaxError{Line: line, Msg: "expected module name after 'import'"}
	}

	var mods []string
	for _, item := range strings.Split(rest, ",") {
		fields := strings.Fields(item)
		switch {
		case len(fields) == 1:
		case len(fields) == 3 && fields[1] == "as":
		default:
			return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("malformed import clause %q", strings.TrimSpace(item))}
		}
		name := fields[0]
		if !moduleNameRE.MatchString(name) {
			return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("invalid module name %q", name)}
		}
		mods = append(mods, rootModule(name))
	}
	return mods, nil
}

// parseFrom handles `from a.b import x`, returning the root module name.
// Relative imports return "".
func parseFrom(stmt string, line int) (string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(stmt, "from"))
	name, _, found := strings.Cut(rest, " import")
	if !found || name == "" {
		return "", &SyntaxError{Line: line, Msg: "expected 'import' in from-statement"}
	}
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, ".") {
		return "", nil // relative import, nothing installable
	}
	if !moduleNameRE.MatchString(name) {
		return "", &SyntaxError{Line: line, Msg: fmt.Sprintf("invalid module name %q", name)}
	}
	return rootModule(name), nil
}

func rootModule(name string) string {
	root, _, _ := strings.Cut(name, ".")
	return root
}

// stripLiterals removes comments and string literal contents from source,
// preserving the line structure so that line numbers and indentation survive.
// It reports unterminated string literals as syntax errors.
func stripLiterals(source string) ([]string, error) {
	var (
		lines []string
		cur   strings.Builder
		line  = 1
	)

	const (
		stateCode = iota
		stateString
		stateTriple
	)
	state := stateCode
	var quote byte
	var openLine int

	endLine := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		line++
	}

	for i := 0; i < len(source); i++ {
		c := source[i]
		switch state {
		case stateCode:
			switch {
			case c == '#':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					endLine()
				}
			case c == '\'' || c == '"':
				quote = c
				openLine = line
				if i+2 < len(source) && source[i+1] == quote && source[i+2] == quote {
					state = stateTriple
					i += 2
				} else {
					state = stateString
				}
			case c == '\n':
				endLine()
			default:
				cur.WriteByte(c)
			}

		case stateString:
			switch {
			case c == '\\' && i+1 < len(source):
				if source[i+1] == '\n' {
					endLine()
				}
				i++
			case c == quote:
				state = stateCode
			case c == '\n':
				return nil, &SyntaxError{Line: openLine, Msg: "unterminated string literal"}
			}

		case stateTriple:
			switch {
			case c == '\\' && i+1 < len(source):
				if source[i+1] == '\n' {
					endLine()
				}
				i++
			case c == quote && i+2 < len(source) && source[i+1] == quote && source[i+2] == quote:
				state = stateCode
				i += 2
			case c == '\n':
				endLine()
			}
		}
	}

	switch state {
	case stateString:
		return nil, &SyntaxError{Line: openLine, Msg: "unterminated string literal"}
	case stateTriple:
		return nil, &SyntaxError{Line: openLine, Msg: "unterminated triple-quoted string"}
	}

	lines = append(lines, cur.String())
	return lines, nil
}
