package stub

import "testing"

func TestQualify(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{QualifyScope("", "String"), "String"},
		{QualifyScope("Process", "Status"), "Process::Status"},
		{QualifyMethod("String", "gsub", false), "String#gsub"},
		{QualifyMethod("ENV", "fetch", true), "ENV.fetch"},
		{QualifyMethod("", "puts", false), "#puts"},
		{QualifyConstant("Float", "INFINITY"), "Float::INFINITY"},
		{QualifyConstant("", "ARGV"), "ARGV"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestFlatten(t *testing.T) {
	f := &File{
		Path: "stubs/string.rb",
		Members: []Member{
			&Scope{
				Kind: ScopeClass,
				Name: "String",
				Doc:  DocComment{Lines: []string{" A sequence of characters."}},
				Members: []Member{
					&Constant{Name: "DEFAULT_ENCODING", Value: `"UTF-8"`, Position: Position{Line: 3, Col: 3}},
					&Method{Name: "size", Position: Position{Line: 5, Col: 3}},
					&Method{Name: "try_convert", Singleton: true, Params: []Param{{Kind: ParamRequired, Name: "obj"}}, Position: Position{Line: 8, Col: 3}},
					&Scope{
						Kind: ScopeModule,
						Name: "Unicode",
						Members: []Member{
							&Method{Name: "normalize", Position: Position{Line: 12, Col: 5}},
						},
						Position: Position{Line: 11, Col: 3},
					},
				},
				Position: Position{Line: 2, Col: 1},
			},
		},
	}

	syms := Flatten(f)

	wantQNames := []string{
		"String",
		"String::DEFAULT_ENCODING",
		"String#size",
		"String.try_convert",
		"String::Unicode",
		"String::Unicode#normalize",
	}
	if len(syms) != len(wantQNames) {
		t.Fatalf("Flatten() returned %d symbols, want %d", len(syms), len(wantQNames))
	}
	for i, want := range wantQNames {
		if syms[i].QName != want {
			t.Errorf("symbol[%d].QName = %q, want %q", i, syms[i].QName, want)
		}
	}

	if syms[0].Kind != SymbolClass {
		t.Errorf("String kind = %s, want %s", syms[0].Kind, SymbolClass)
	}
	if syms[0].Doc != "A sequence of characters." {
		t.Errorf("String doc = %q", syms[0].Doc)
	}
	if syms[1].Kind != SymbolConstant || syms[1].Signature != `DEFAULT_ENCODING = "UTF-8"` {
		t.Errorf("constant symbol = %+v", syms[1])
	}
	if syms[3].Kind != SymbolSingleton || syms[3].Signature != "def self.try_convert(obj)" {
		t.Errorf("singleton symbol = %+v", syms[3])
	}
	if syms[4].Kind != SymbolModule || syms[4].Owner != "String" {
		t.Errorf("nested module symbol = %+v", syms[4])
	}
	for i, sym := range syms {
		if sym.Path != "stubs/string.rb" {
			t.Errorf("symbol[%d].Path = %q", i, sym.Path)
		}
	}
}

func TestScopeHeader(t *testing.T) {
	cases := []struct {
		scope Scope
		want  string
	}{
		{Scope{Kind: ScopeClass, Name: "String"}, "class String"},
		{Scope{Kind: ScopeClass, Name: "TypeError", Superclass: "StandardError"}, "class TypeError < StandardError"},
		{Scope{Kind: ScopeModule, Name: "Kernel"}, "module Kernel"},
	}
	for _, tc := range cases {
		if got := tc.scope.Header(); got != tc.want {
			t.Errorf("Header() = %q, want %q", got, tc.want)
		}
	}
}

func TestMethodSignature(t *testing.T) {
	m := &Method{
		Name: "gsub",
		Params: []Param{
			{Kind: ParamRequired, Name: "pattern"},
			{Kind: ParamOptional, Name: "replacement", Default: "nil"},
			{Kind: ParamBlock, Name: "block"},
		},
	}
	want := "def gsub(pattern, replacement = nil, &block)"
	if got := m.Signature(); got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}

	s := &Method{Name: "fetch", Singleton: true, Params: []Param{{Kind: ParamRequired, Name: "name"}}}
	if got := s.Signature(); got != "def self.fetch(name)" {
		t.Errorf("Signature() = %q, want %q", got, "def self.fetch(name)")
	}
}
