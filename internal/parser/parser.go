// Package parser reads stub declaration files: doc-comment blocks attached
// to empty-body class/module/method/constant declarations. The grammar is
// small and line-oriented, so the parser is a hand-written scanner rather
// than a grammar-generated one; this keeps doc-comment attachment and
// source positions exact, which the round-trip printer depends on.
package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"stubdex/internal/logging"
	"stubdex/internal/stub"
)

// Issue is a positioned, non-fatal problem found while parsing. The parser
// reports every issue it can rather than stopping at the first.
type Issue struct {
	Path    string
	Line    int
	Col     int
	Code    string // "syntax", "bad-signature", "body"
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", i.Path, i.Line, i.Col, i.Code, i.Message)
}

const (
	CodeSyntax       = "syntax"
	CodeBadSignature = "bad-signature"
	CodeBody         = "body"
)

var (
	classRe  = regexp.MustCompile(`^class\s+([A-Z][A-Za-z0-9_]*)(?:\s*<\s*([A-Z][A-Za-z0-9_:]*))?$`)
	moduleRe = regexp.MustCompile(`^module\s+([A-Z][A-Za-z0-9_]*)$`)
	defRe    = regexp.MustCompile(`^def\s+(self\.)?(` + methodNamePattern + `)\s*(?:\((.*)\))?\s*$`)
	constRe  = regexp.MustCompile(`^([A-Z][A-Za-z0-9_]*)\s*=\s*(\S.*)$`)
)

// methodNamePattern accepts plain identifiers (with the ?/!/= suffixes of
// predicate, bang, and setter methods) and the operator method names that
// built-in class stubs declare.
const methodNamePattern = `[a-z_][A-Za-z0-9_]*[?!=]?` +
	`|\[\]=?|<=>|===|==|!=|=~|<<|>>|<=|>=|[+\-*/%<>!^&|~]`

// ParseFile reads and parses one stub file from disk.
func ParseFile(path string) (*stub.File, []Issue, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read stub file: %w", err)
	}
	f, issues := Parse(path, content)
	return f, issues, nil
}

// Parse parses stub source. It always returns a File containing every
// declaration it could recover, alongside the issues it hit. A file with
// issues is still usable for indexing; callers that need strictness
// (check, fmt) treat a non-empty issue list as failure.
func Parse(path string, content []byte) (*stub.File, []Issue) {
	p := &fileParser{
		path:  path,
		lines: strings.Split(string(content), "\n"),
		file:  &stub.File{Path: path},
	}
	p.run()
	logging.Parser("parsed %s: %d top-level members, %d issues",
		path, len(p.file.Members), len(p.issues))
	return p.file, p.issues
}

// fileParser holds the scanner state for one file.
type fileParser struct {
	path   string
	lines  []string
	file   *stub.File
	issues []Issue

	// open scope stack; empty means top level
	scopes []*stub.Scope

	// open method awaiting its "end", if any
	openMethod *stub.Method

	// pending doc block: lines with "#" stripped, plus the line number of
	// the last comment line (attachment requires contiguity)
	pendingDoc     []string
	pendingDocLast int
}

func (p *fileParser) errorf(line, col int, code, format string, args ...interface{}) {
	p.issues = append(p.issues, Issue{
		Path: p.path, Line: line, Col: col, Code: code,
		Message: fmt.Sprintf(format, args...),
	})
}

// takeDoc returns the pending doc block if it ends on the line directly
// above declLine, and clears it either way.
func (p *fileParser) takeDoc(declLine int) stub.DocComment {
	doc := stub.DocComment{}
	if len(p.pendingDoc) > 0 && p.pendingDocLast == declLine-1 {
		doc.Lines = p.pendingDoc
	}
	p.pendingDoc = nil
	p.pendingDocLast = 0
	return doc
}

func (p *fileParser) appendMember(m stub.Member) {
	if n := len(p.scopes); n > 0 {
		p.scopes[n-1].Members = append(p.scopes[n-1].Members, m)
		return
	}
	p.file.Members = append(p.file.Members, m)
}

func (p *fileParser) run() {
	for i, raw := range p.lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)
		col := strings.Index(raw, trimmed) + 1

		switch {
		case trimmed == "":
			// A blank line detaches any pending doc block.
			p.pendingDoc = nil
			p.pendingDocLast = 0

		case strings.HasPrefix(trimmed, "#"):
			text := strings.TrimPrefix(trimmed, "#")
			if p.pendingDocLast != lineNo-1 {
				p.pendingDoc = nil
			}
			p.pendingDoc = append(p.pendingDoc, text)
			p.pendingDocLast = lineNo

		case p.openMethod != nil && trimmed != "end":
			// Inside a method only blanks, comments, and "end" are legal.
			p.errorf(lineNo, col, CodeBody, "method bodies must be empty in stub files")

		case trimmed == "end":
			p.closeFrame(lineNo, col)

		default:
			p.parseDeclaration(lineNo, col, trimmed)
		}
	}

	if p.openMethod != nil {
		p.errorf(p.openMethod.Position.Line, p.openMethod.Position.Col,
			CodeSyntax, "method %q is missing its closing end", p.openMethod.Name)
		p.appendMember(p.openMethod)
		p.openMethod = nil
	}
	for j := len(p.scopes) - 1; j >= 0; j-- {
		s := p.scopes[j]
		p.errorf(s.Position.Line, s.Position.Col,
			CodeSyntax, "%s %q is missing its closing end", s.Kind, s.Name)
	}
	// Unclosed scopes already sit in their parents' member lists; just
	// unwind the stack.
	p.scopes = nil
}

func (p *fileParser) closeFrame(lineNo, col int) {
	if p.openMethod != nil {
		p.openMethod.EndLine = lineNo
		p.appendMember(p.openMethod)
		p.openMethod = nil
		return
	}
	if n := len(p.scopes); n > 0 {
		p.scopes = p.scopes[:n-1]
		return
	}
	p.errorf(lineNo, col, CodeSyntax, "unmatched end")
}

func (p *fileParser) parseDeclaration(lineNo, col int, trimmed string) {
	pos := stub.Position{Line: lineNo, Col: col}

	if m := classRe.FindStringSubmatch(trimmed); m != nil {
		s := &stub.Scope{
			Kind:       stub.ScopeClass,
			Name:       m[1],
			Superclass: m[2],
			Doc:        p.takeDoc(lineNo),
			Position:   pos,
		}
		p.appendMember(s)
		p.scopes = append(p.scopes, s)
		return
	}

	if m := moduleRe.FindStringSubmatch(trimmed); m != nil {
		s := &stub.Scope{
			Kind:     stub.ScopeModule,
			Name:     m[1],
			Doc:      p.takeDoc(lineNo),
			Position: pos,
		}
		p.appendMember(s)
		p.scopes = append(p.scopes, s)
		return
	}

	if m := defRe.FindStringSubmatch(trimmed); m != nil {
		method := &stub.Method{
			Name:      m[2],
			Singleton: m[1] != "",
			Doc:       p.takeDoc(lineNo),
			Position:  pos,
		}
		method.Params = p.parseParams(lineNo, col, m[3])
		for _, e := range stub.ValidateParams(method.Params) {
			p.errorf(lineNo, col, CodeBadSignature, "%s: %s", method.Name, e.Message)
		}
		p.openMethod = method
		return
	}

	if m := constRe.FindStringSubmatch(trimmed); m != nil {
		p.appendMember(&stub.Constant{
			Name:     m[1],
			Value:    strings.TrimSpace(m[2]),
			Doc:      p.takeDoc(lineNo),
			Position: pos,
		})
		return
	}

	p.takeDoc(lineNo) // drop any orphaned doc block
	p.errorf(lineNo, col, CodeSyntax, "unexpected statement: %s", truncate(trimmed, 40))
}

// parseParams splits and classifies a raw parameter list. Malformed
// fragments become required params with their raw text as the name so that
// ValidateParams flags them with a position instead of losing them.
func (p *fileParser) parseParams(lineNo, col int, raw string) []stub.Param {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts, balanced := splitTopLevel(raw)
	if !balanced {
		p.errorf(lineNo, col, CodeSyntax, "unbalanced brackets in parameter list")
	}

	params := make([]stub.Param, 0, len(parts))
	for _, part := range parts {
		params = append(params, classifyParam(strings.TrimSpace(part)))
	}
	return params
}

var (
	keywordParamRe  = regexp.MustCompile(`^([a-z_][A-Za-z0-9_]*):\s*(.*)$`)
	optionalParamRe = regexp.MustCompile(`^([a-z_][A-Za-z0-9_]*)\s*=\s*(\S.*)$`)
)

func classifyParam(part string) stub.Param {
	switch {
	case strings.HasPrefix(part, "**"):
		return stub.Param{Kind: stub.ParamKeywordRest, Name: strings.TrimSpace(part[2:])}
	case strings.HasPrefix(part, "*"):
		return stub.Param{Kind: stub.ParamRest, Name: strings.TrimSpace(part[1:])}
	case strings.HasPrefix(part, "&"):
		return stub.Param{Kind: stub.ParamBlock, Name: strings.TrimSpace(part[1:])}
	}
	if m := keywordParamRe.FindStringSubmatch(part); m != nil {
		if strings.TrimSpace(m[2]) == "" {
			return stub.Param{Kind: stub.ParamKeyword, Name: m[1]}
		}
		return stub.Param{Kind: stub.ParamKeywordOpt, Name: m[1], Default: strings.TrimSpace(m[2])}
	}
	if m := optionalParamRe.FindStringSubmatch(part); m != nil {
		return stub.Param{Kind: stub.ParamOptional, Name: m[1], Default: strings.TrimSpace(m[2])}
	}
	return stub.Param{Kind: stub.ParamRequired, Name: part}
}

// splitTopLevel splits s at commas that are not nested inside brackets or
// string/regexp literals. It reports whether all brackets were balanced.
func splitTopLevel(s string) ([]string, bool) {
	var parts []string
	depth := 0
	var quote rune // 0 when outside a literal; ' " / while inside
	escaped := false
	start := 0

	for i, r := range s {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
			continue
		}
		switch r {
		case '\'', '"', '/':
			quote = r
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts, depth == 0 && quote == 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
