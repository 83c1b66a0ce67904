// Package stub defines the declaration model for stub files: empty-body
// class/module/method/constant declarations that carry doc-comments and
// exist purely to describe an API's shape for tooling (completion, hover,
// type checking). The model is pure data; parsing lives in internal/parser
// and regeneration in internal/printer.
package stub

import "fmt"

// ScopeKind distinguishes class scopes from module scopes.
type ScopeKind string

const (
	ScopeClass  ScopeKind = "class"
	ScopeModule ScopeKind = "module"
)

// Position is a 1-indexed source location.
type Position struct {
	Line int
	Col  int
}

// Member is any declaration that can appear inside a scope (or at the top
// level of a file): a method, a constant, or a nested scope.
type Member interface {
	// MemberName returns the declared name (unqualified).
	MemberName() string

	// DocBlock returns the doc-comment attached to the declaration.
	// Never nil; may be empty.
	DocBlock() *DocComment

	// Pos returns the position of the declaration keyword or name.
	Pos() Position
}

// File is one parsed stub file.
type File struct {
	// Path is the source path as given to the parser.
	Path string

	// Members are the top-level declarations in source order.
	Members []Member
}

// Scope is a class or module declaration. Its Members preserve source
// order across methods, constants, and nested scopes so that regeneration
// keeps the original layout.
type Scope struct {
	Kind       ScopeKind
	Name       string
	Superclass string // class scopes only, "" when absent
	Doc        DocComment
	Members    []Member
	Position   Position
}

func (s *Scope) MemberName() string    { return s.Name }
func (s *Scope) DocBlock() *DocComment { return &s.Doc }
func (s *Scope) Pos() Position         { return s.Position }

// Header returns the declaration line without indentation,
// e.g. "class TypeError < StandardError" or "module Kernel".
func (s *Scope) Header() string {
	if s.Kind == ScopeClass && s.Superclass != "" {
		return fmt.Sprintf("class %s < %s", s.Name, s.Superclass)
	}
	return fmt.Sprintf("%s %s", s.Kind, s.Name)
}

// Method is an empty-body method declaration.
type Method struct {
	Name      string
	Singleton bool // declared as "def self.name"
	Params    []Param
	Doc       DocComment
	Position  Position
	EndLine   int // line of the closing "end"
}

func (m *Method) MemberName() string    { return m.Name }
func (m *Method) DocBlock() *DocComment { return &m.Doc }
func (m *Method) Pos() Position         { return m.Position }

// Signature returns the canonical declaration line, e.g.
// "def gsub(pattern, replacement = nil, *rest, limit: nil, **opts, &block)".
func (m *Method) Signature() string {
	name := m.Name
	if m.Singleton {
		name = "self." + name
	}
	params := ""
	for i, p := range m.Params {
		if i > 0 {
			params += ", "
		}
		params += p.String()
	}
	return fmt.Sprintf("def %s(%s)", name, params)
}

// Constant is a constant declaration with an inert placeholder value.
type Constant struct {
	Name     string
	Value    string // raw literal text, e.g. "nil", "3.14", `"UTF-8"`
	Doc      DocComment
	Position Position
}

func (c *Constant) MemberName() string    { return c.Name }
func (c *Constant) DocBlock() *DocComment { return &c.Doc }
func (c *Constant) Pos() Position         { return c.Position }
