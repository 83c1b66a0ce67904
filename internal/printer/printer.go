// Package printer regenerates stub source from the declaration model.
// Output is canonical: two-space indentation per scope depth, one blank
// line between sibling members, doc-comment text preserved byte-for-byte.
// Round-trip invariant: for any file the parser accepts cleanly,
// reparsing the printed output yields an equivalent declaration set.
package printer

import (
	"bytes"
	"io"
	"strings"

	"stubdex/internal/stub"
)

const indentUnit = "  "

// Print renders a parsed stub file back to source text.
func Print(f *stub.File) []byte {
	var buf bytes.Buffer
	Fprint(&buf, f)
	return buf.Bytes()
}

// Fprint writes the canonical rendering of f to w.
func Fprint(w io.Writer, f *stub.File) {
	p := &printer{w: w}
	p.members(f.Members, 0)
}

type printer struct {
	w io.Writer
}

func (p *printer) line(depth int, text string) {
	if text == "" {
		io.WriteString(p.w, "\n")
		return
	}
	io.WriteString(p.w, strings.Repeat(indentUnit, depth))
	io.WriteString(p.w, text)
	io.WriteString(p.w, "\n")
}

func (p *printer) doc(doc *stub.DocComment, depth int) {
	for _, l := range doc.Lines {
		p.line(depth, "#"+l)
	}
}

func (p *printer) members(members []stub.Member, depth int) {
	for i, m := range members {
		if i > 0 {
			p.line(0, "")
		}
		p.member(m, depth)
	}
}

func (p *printer) member(m stub.Member, depth int) {
	switch d := m.(type) {
	case *stub.Scope:
		p.doc(&d.Doc, depth)
		p.line(depth, d.Header())
		p.members(d.Members, depth+1)
		p.line(depth, "end")

	case *stub.Method:
		p.doc(&d.Doc, depth)
		p.line(depth, d.Signature())
		p.line(depth, "end")

	case *stub.Constant:
		p.doc(&d.Doc, depth)
		p.line(depth, d.Name+" = "+d.Value)
	}
}
