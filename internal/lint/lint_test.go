package lint

import (
	"strings"
	"testing"

	"stubdex/internal/parser"
)

func lintSource(t *testing.T, src string, opts Options) []Diagnostic {
	t.Helper()
	f, issues := parser.Parse("test.rb", []byte(src))
	return Run(f, issues, opts)
}

func rulesOf(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Rule
	}
	return out
}

func hasRule(diags []Diagnostic, rule string) bool {
	for _, d := range diags {
		if d.Rule == rule {
			return true
		}
	}
	return false
}

func TestCleanFileHasNoDiagnostics(t *testing.T) {
	src := strings.Join([]string{
		"# A documented module.",
		"module Kernel",
		"  # Writes each argument to stdout.",
		"  def puts(*args)",
		"  end",
		"",
		"  # The default record separator.",
		`  SEPARATOR = "\n"`,
		"end",
		"",
	}, "\n")
	if diags := lintSource(t, src, Options{}); len(diags) != 0 {
		t.Errorf("clean file produced diagnostics: %v", diags)
	}
}

func TestMissingDoc(t *testing.T) {
	src := strings.Join([]string{
		"# Documented.",
		"module M",
		"  def undocumented()",
		"  end",
		"end",
		"",
	}, "\n")
	diags := lintSource(t, src, Options{})
	if len(diags) != 1 || diags[0].Rule != RuleMissingDoc {
		t.Fatalf("diags = %v, want one %s", diags, RuleMissingDoc)
	}
	if diags[0].Severity != SeverityWarn {
		t.Errorf("severity = %s, want %s", diags[0].Severity, SeverityWarn)
	}
	if !strings.Contains(diags[0].Message, "M#undocumented") {
		t.Errorf("message %q does not name the method", diags[0].Message)
	}
}

func TestEmptyDoc(t *testing.T) {
	src := strings.Join([]string{
		"#",
		"module M",
		"end",
		"",
	}, "\n")
	diags := lintSource(t, src, Options{})
	if !hasRule(diags, RuleEmptyDoc) {
		t.Errorf("diags = %v, want %s", rulesOf(diags), RuleEmptyDoc)
	}
}

func TestDuplicateScope(t *testing.T) {
	src := strings.Join([]string{
		"# One.",
		"class String",
		"end",
		"",
		"# Two.",
		"class String",
		"end",
		"",
	}, "\n")
	diags := lintSource(t, src, Options{})
	if !hasRule(diags, RuleDupScope) {
		t.Fatalf("diags = %v, want %s", rulesOf(diags), RuleDupScope)
	}
	for _, d := range diags {
		if d.Rule == RuleDupScope {
			if d.Severity != SeverityError {
				t.Errorf("severity = %s, want %s", d.Severity, SeverityError)
			}
			if d.Line != 6 {
				t.Errorf("duplicate reported at line %d, want 6 (the second declaration)", d.Line)
			}
		}
	}
}

func TestSameNameInDifferentScopesIsFine(t *testing.T) {
	src := strings.Join([]string{
		"# A.",
		"module A",
		"  # Error type.",
		"  class Error",
		"  end",
		"end",
		"",
		"# B.",
		"module B",
		"  # Error type.",
		"  class Error",
		"  end",
		"end",
		"",
	}, "\n")
	diags := lintSource(t, src, Options{})
	if hasRule(diags, RuleDupScope) {
		t.Errorf("A::Error and B::Error flagged as duplicates: %v", diags)
	}
}

func TestDuplicateMember(t *testing.T) {
	src := strings.Join([]string{
		"# M.",
		"module M",
		"  # One.",
		"  def f()",
		"  end",
		"",
		"  # Two.",
		"  def f()",
		"  end",
		"end",
		"",
	}, "\n")
	diags := lintSource(t, src, Options{})
	if !hasRule(diags, RuleDupMember) {
		t.Errorf("diags = %v, want %s", rulesOf(diags), RuleDupMember)
	}
}

func TestInstanceAndSingletonMethodsCoexist(t *testing.T) {
	src := strings.Join([]string{
		"# S.",
		"class S",
		"  # Instance form.",
		"  def size()",
		"  end",
		"",
		"  # Class form.",
		"  def self.size()",
		"  end",
		"end",
		"",
	}, "\n")
	diags := lintSource(t, src, Options{})
	if hasRule(diags, RuleDupMember) {
		t.Errorf("S#size and S.size flagged as duplicates: %v", diags)
	}
}

func TestConstNaming(t *testing.T) {
	src := strings.Join([]string{
		"# M.",
		"module M",
		"  # Mixed case.",
		"  MaxValue = 100",
		"end",
		"",
	}, "\n")
	diags := lintSource(t, src, Options{})
	if !hasRule(diags, RuleConstNaming) {
		t.Errorf("diags = %v, want %s", rulesOf(diags), RuleConstNaming)
	}
}

func TestParserIssuesBecomeDiagnostics(t *testing.T) {
	src := strings.Join([]string{
		"# M.",
		"module M",
		"  # Bad signature.",
		"  def f(a = 1, b)",
		"  end",
		"",
		"  # Bad body.",
		"  def g()",
		"    puts 1",
		"  end",
		"end",
		"",
	}, "\n")
	diags := lintSource(t, src, Options{})
	if !hasRule(diags, RuleBadSignature) {
		t.Errorf("diags = %v, want %s", rulesOf(diags), RuleBadSignature)
	}
	if !hasRule(diags, RuleSyntax) {
		t.Errorf("diags = %v, want %s", rulesOf(diags), RuleSyntax)
	}
}

func TestDiagnosticsSortedByPosition(t *testing.T) {
	src := strings.Join([]string{
		"module M",
		"  def a()",
		"  end",
		"",
		"  def b()",
		"  end",
		"end",
		"",
	}, "\n")
	diags := lintSource(t, src, Options{})
	for i := 1; i < len(diags); i++ {
		if diags[i].Line < diags[i-1].Line {
			t.Fatalf("diagnostics out of order: %v", diags)
		}
	}
}

func TestDisabledRule(t *testing.T) {
	src := strings.Join([]string{
		"module M",
		"end",
		"",
	}, "\n")
	opts := Options{Disabled: map[string]bool{RuleMissingDoc: true}}
	if diags := lintSource(t, src, opts); len(diags) != 0 {
		t.Errorf("disabled rule still fired: %v", diags)
	}
}

func TestSeverityOverride(t *testing.T) {
	src := strings.Join([]string{
		"module M",
		"end",
		"",
	}, "\n")
	opts := Options{Severity: map[string]Severity{RuleMissingDoc: SeverityError}}
	diags := lintSource(t, src, opts)
	if len(diags) != 1 || diags[0].Severity != SeverityError {
		t.Fatalf("diags = %v, want one error-severity %s", diags, RuleMissingDoc)
	}
	if !HasErrors(diags) {
		t.Error("HasErrors() = false, want true")
	}
}
