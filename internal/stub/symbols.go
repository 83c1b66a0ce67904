package stub

// SymbolKind classifies a flattened symbol for the index.
type SymbolKind string

const (
	SymbolClass     SymbolKind = "class"
	SymbolModule    SymbolKind = "module"
	SymbolMethod    SymbolKind = "method"           // instance method, qualified with "#"
	SymbolSingleton SymbolKind = "singleton_method" // class-level method, qualified with "."
	SymbolConstant  SymbolKind = "constant"         // qualified with "::"
)

// Symbol is the flat, index-ready view of one declaration: everything an
// editor consumer needs to answer hover and completion requests.
type Symbol struct {
	QName     string     `json:"qname"` // "String#gsub", "ENV.fetch", "Float::INFINITY"
	Kind      SymbolKind `json:"kind"`
	Name      string     `json:"name"`      // unqualified name
	Owner     string     `json:"owner"`     // qualified owner scope, "" at top level
	Signature string     `json:"signature"` // declaration line, e.g. "def gsub(pattern, ...)"
	Doc       string     `json:"doc"`       // doc block text (DocComment.Text)
	Path      string     `json:"path"`
	Line      int        `json:"line"`
}

// QualifyScope joins an owner scope path with a nested scope name.
func QualifyScope(owner, name string) string {
	if owner == "" {
		return name
	}
	return owner + "::" + name
}

// QualifyMethod builds a method's qualified name: "#" separates instance
// methods from their owner, "." separates singleton methods.
func QualifyMethod(owner, name string, singleton bool) string {
	sep := "#"
	if singleton {
		sep = "."
	}
	if owner == "" {
		return sep + name
	}
	return owner + sep + name
}

// QualifyConstant builds a constant's qualified name.
func QualifyConstant(owner, name string) string {
	return QualifyScope(owner, name)
}

// Flatten walks a parsed file and returns every declaration as a Symbol,
// in source order. Scopes themselves are symbols (their doc block becomes
// the scope's hover text).
func Flatten(f *File) []Symbol {
	var out []Symbol
	flattenMembers(f, "", f.Members, &out)
	return out
}

func flattenMembers(f *File, owner string, members []Member, out *[]Symbol) {
	for _, m := range members {
		switch d := m.(type) {
		case *Scope:
			qname := QualifyScope(owner, d.Name)
			kind := SymbolModule
			if d.Kind == ScopeClass {
				kind = SymbolClass
			}
			*out = append(*out, Symbol{
				QName:     qname,
				Kind:      kind,
				Name:      d.Name,
				Owner:     owner,
				Signature: d.Header(),
				Doc:       d.Doc.Text(),
				Path:      f.Path,
				Line:      d.Position.Line,
			})
			flattenMembers(f, qname, d.Members, out)

		case *Method:
			kind := SymbolMethod
			if d.Singleton {
				kind = SymbolSingleton
			}
			*out = append(*out, Symbol{
				QName:     QualifyMethod(owner, d.Name, d.Singleton),
				Kind:      kind,
				Name:      d.Name,
				Owner:     owner,
				Signature: d.Signature(),
				Doc:       d.Doc.Text(),
				Path:      f.Path,
				Line:      d.Position.Line,
			})

		case *Constant:
			*out = append(*out, Symbol{
				QName:     QualifyConstant(owner, d.Name),
				Kind:      SymbolConstant,
				Name:      d.Name,
				Owner:     owner,
				Signature: d.Name + " = " + d.Value,
				Doc:       d.Doc.Text(),
				Path:      f.Path,
				Line:      d.Position.Line,
			})
		}
	}
}
