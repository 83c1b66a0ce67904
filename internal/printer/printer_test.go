package printer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"stubdex/internal/parser"
	"stubdex/internal/stub"
)

// equivalent ignores source positions, which legitimately move when a file
// is reformatted. Everything else must survive the round trip.
var equivalent = []cmp.Option{
	cmpopts.IgnoreFields(stub.Scope{}, "Position"),
	cmpopts.IgnoreFields(stub.Method{}, "Position", "EndLine"),
	cmpopts.IgnoreFields(stub.Constant{}, "Position"),
}

func TestRoundTripCorpus(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "parser", "testdata", "*.rb"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("no corpus files: %v", err)
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			first, issues := parser.Parse(path, src)
			if len(issues) != 0 {
				t.Fatalf("corpus file has issues: %v", issues)
			}

			printed := Print(first)
			second, issues := parser.Parse(path, printed)
			if len(issues) != 0 {
				t.Fatalf("printed output has issues: %v\n%s", issues, printed)
			}

			if diff := cmp.Diff(first, second, equivalent...); diff != "" {
				t.Errorf("round trip changed declarations (-first +second):\n%s", diff)
			}
		})
	}
}

func TestPrintIsStable(t *testing.T) {
	// Printing a reparse of printed output must reproduce it byte for byte;
	// fmt relies on this to decide whether a file is already canonical.
	paths, err := filepath.Glob(filepath.Join("..", "parser", "testdata", "*.rb"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("no corpus files: %v", err)
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			f, _ := parser.Parse(path, src)
			once := Print(f)

			g, _ := parser.Parse(path, once)
			twice := Print(g)

			if !bytes.Equal(once, twice) {
				t.Errorf("printing is not stable:\nfirst:\n%s\nsecond:\n%s", once, twice)
			}
		})
	}
}

func TestPrintCanonicalLayout(t *testing.T) {
	f := &stub.File{
		Path: "test.rb",
		Members: []stub.Member{
			&stub.Scope{
				Kind: stub.ScopeClass,
				Name: "String",
				Doc:  stub.DocComment{Lines: []string{" A sequence of characters."}},
				Members: []stub.Member{
					&stub.Constant{
						Name:  "DEFAULT_ENCODING",
						Value: `"UTF-8"`,
						Doc:   stub.DocComment{Lines: []string{" Encoding for new strings."}},
					},
					&stub.Method{
						Name: "size",
						Doc:  stub.DocComment{Lines: []string{" Returns the character count."}},
					},
					&stub.Method{
						Name:      "try_convert",
						Singleton: true,
						Params:    []stub.Param{{Kind: stub.ParamRequired, Name: "obj"}},
					},
				},
			},
		},
	}

	want := `# A sequence of characters.
class String
  # Encoding for new strings.
  DEFAULT_ENCODING = "UTF-8"

  # Returns the character count.
  def size()
  end

  def self.try_convert(obj)
  end
end
`
	if got := string(Print(f)); got != want {
		t.Errorf("Print() =\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintNestedIndentation(t *testing.T) {
	f := &stub.File{
		Path: "test.rb",
		Members: []stub.Member{
			&stub.Scope{
				Kind: stub.ScopeModule,
				Name: "Process",
				Members: []stub.Member{
					&stub.Scope{
						Kind: stub.ScopeClass,
						Name: "Status",
						Members: []stub.Member{
							&stub.Method{Name: "exitstatus"},
						},
					},
				},
			},
		},
	}

	want := `module Process
  class Status
    def exitstatus()
    end
  end
end
`
	if got := string(Print(f)); got != want {
		t.Errorf("Print() =\n%s\nwant:\n%s", got, want)
	}
}
