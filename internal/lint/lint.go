// Package lint checks parsed stub files against the declaration-hygiene
// rules a stub corpus must satisfy before tooling can trust it: every
// member documented, scope names unique, signatures well-formed.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"stubdex/internal/logging"
	"stubdex/internal/parser"
	"stubdex/internal/stub"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Rule IDs. Stable: they appear in config and in CLI output.
const (
	RuleMissingDoc   = "missing-doc"
	RuleEmptyDoc     = "empty-doc"
	RuleDupScope     = "dup-scope"
	RuleDupMember    = "dup-member"
	RuleBadSignature = "bad-signature"
	RuleConstNaming  = "const-naming"
	RuleSyntax       = "syntax"
)

// defaultSeverity maps each rule to its out-of-the-box severity.
var defaultSeverity = map[string]Severity{
	RuleMissingDoc:   SeverityWarn,
	RuleEmptyDoc:     SeverityWarn,
	RuleDupScope:     SeverityError,
	RuleDupMember:    SeverityError,
	RuleBadSignature: SeverityError,
	RuleConstNaming:  SeverityWarn,
	RuleSyntax:       SeverityError,
}

// Diagnostic is one lint finding.
type Diagnostic struct {
	Path     string
	Line     int
	Col      int
	Rule     string
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s [%s]: %s", d.Path, d.Line, d.Col, d.Severity, d.Rule, d.Message)
}

// Options control which rules run and at which severity.
type Options struct {
	Disabled map[string]bool
	Severity map[string]Severity // overrides defaultSeverity per rule
}

func (o Options) severity(rule string) Severity {
	if s, ok := o.Severity[rule]; ok {
		return s
	}
	if s, ok := defaultSeverity[rule]; ok {
		return s
	}
	return SeverityWarn
}

func (o Options) enabled(rule string) bool {
	return !o.Disabled[rule]
}

// Run lints one parsed file together with the parser issues found in it,
// and returns diagnostics sorted by position.
func Run(f *stub.File, issues []parser.Issue, opts Options) []Diagnostic {
	r := &runner{file: f, opts: opts}

	// Parser issues surface as diagnostics so one command reports both
	// syntax and hygiene problems.
	for _, is := range issues {
		rule := RuleSyntax
		if is.Code == parser.CodeBadSignature {
			rule = RuleBadSignature
		}
		if !opts.enabled(rule) {
			continue
		}
		r.diags = append(r.diags, Diagnostic{
			Path: is.Path, Line: is.Line, Col: is.Col,
			Rule: rule, Severity: opts.severity(rule), Message: is.Message,
		})
	}

	r.checkScopeNames()
	r.walk("", f.Members)

	sort.Slice(r.diags, func(i, j int) bool {
		a, b := r.diags[i], r.diags[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	logging.Lint("linted %s: %d diagnostics", f.Path, len(r.diags))
	return r.diags
}

// RunAll lints a batch of parse results and returns all diagnostics in
// file order.
func RunAll(results []parser.Result, opts Options) []Diagnostic {
	var out []Diagnostic
	for _, res := range results {
		out = append(out, Run(res.File, res.Issues, opts)...)
	}
	return out
}

// HasErrors reports whether any diagnostic is error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

type runner struct {
	file  *stub.File
	opts  Options
	diags []Diagnostic
}

func (r *runner) report(pos stub.Position, rule, format string, args ...interface{}) {
	if !r.opts.enabled(rule) {
		return
	}
	r.diags = append(r.diags, Diagnostic{
		Path: r.file.Path, Line: pos.Line, Col: pos.Col,
		Rule: rule, Severity: r.opts.severity(rule),
		Message: fmt.Sprintf(format, args...),
	})
}

// checkScopeNames enforces that every qualified scope name is declared at
// most once per file.
func (r *runner) checkScopeNames() {
	seen := make(map[string]stub.Position)
	var visit func(owner string, members []stub.Member)
	visit = func(owner string, members []stub.Member) {
		for _, m := range members {
			s, ok := m.(*stub.Scope)
			if !ok {
				continue
			}
			qname := stub.QualifyScope(owner, s.Name)
			if first, dup := seen[qname]; dup {
				r.report(s.Position, RuleDupScope,
					"scope %s already declared at line %d", qname, first.Line)
			} else {
				seen[qname] = s.Position
			}
			visit(qname, s.Members)
		}
	}
	visit("", r.file.Members)
}

// walk applies the per-member rules.
func (r *runner) walk(owner string, members []stub.Member) {
	// Duplicate member detection is per scope; methods are keyed by
	// receiver kind so String#size and String.size may coexist.
	seen := make(map[string]stub.Position)

	for _, m := range members {
		doc := m.DocBlock()
		switch {
		case doc.IsEmpty():
			r.report(m.Pos(), RuleMissingDoc,
				"%s has no doc comment", describe(owner, m))
		case doc.IsBlank():
			r.report(m.Pos(), RuleEmptyDoc,
				"%s has an empty doc comment", describe(owner, m))
		}

		switch d := m.(type) {
		case *stub.Scope:
			r.walk(stub.QualifyScope(owner, d.Name), d.Members)

		case *stub.Method:
			key := stub.QualifyMethod("", d.Name, d.Singleton)
			if first, dup := seen[key]; dup {
				r.report(d.Position, RuleDupMember,
					"%s already declared at line %d", describe(owner, m), first.Line)
			} else {
				seen[key] = d.Position
			}

		case *stub.Constant:
			key := "::" + d.Name
			if first, dup := seen[key]; dup {
				r.report(d.Position, RuleDupMember,
					"%s already declared at line %d", describe(owner, m), first.Line)
			} else {
				seen[key] = d.Position
			}
			if d.Name != strings.ToUpper(d.Name) {
				r.report(d.Position, RuleConstNaming,
					"constant %s should be SCREAMING_SNAKE_CASE", d.Name)
			}
		}
	}
}

func describe(owner string, m stub.Member) string {
	switch d := m.(type) {
	case *stub.Scope:
		return fmt.Sprintf("%s %s", d.Kind, stub.QualifyScope(owner, d.Name))
	case *stub.Method:
		return "method " + stub.QualifyMethod(owner, d.Name, d.Singleton)
	case *stub.Constant:
		return "constant " + stub.QualifyConstant(owner, d.Name)
	}
	return m.MemberName()
}
