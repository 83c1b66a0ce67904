package stub

import "strings"

// DocComment is the comment block attached to a declaration. Lines hold
// the text of each comment line with the leading "#" stripped but all
// other characters preserved, so regeneration is byte-faithful.
//
// By convention, comment lines indented by two or more spaces are
// illustrative examples:
//
//	# Returns a copy with all matches replaced.
//	#
//	#   "hello".gsub(/l/, "r")   #=> "herro"
type DocComment struct {
	Lines []string
}

// IsEmpty reports whether the block has no lines at all.
func (d *DocComment) IsEmpty() bool { return len(d.Lines) == 0 }

// IsBlank reports whether the block contains only whitespace.
func (d *DocComment) IsBlank() bool {
	for _, l := range d.Lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// Summary returns the first paragraph of prose (lines up to the first
// blank or example line), joined with spaces.
func (d *DocComment) Summary() string {
	var parts []string
	for _, l := range d.Lines {
		if strings.TrimSpace(l) == "" || isExampleLine(l) {
			break
		}
		parts = append(parts, strings.TrimSpace(l))
	}
	return strings.Join(parts, " ")
}

// Text returns the full prose with single leading spaces trimmed,
// preserving blank lines and example indentation.
func (d *DocComment) Text() string {
	out := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = strings.TrimPrefix(l, " ")
	}
	return strings.Join(out, "\n")
}

// Examples returns contiguous runs of example lines, dedented by their
// common two-space example indent.
func (d *DocComment) Examples() [][]string {
	var groups [][]string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			groups = append(groups, cur)
			cur = nil
		}
	}
	for _, l := range d.Lines {
		if isExampleLine(l) {
			cur = append(cur, strings.TrimPrefix(strings.TrimPrefix(l, " "), "  "))
			continue
		}
		if strings.TrimSpace(l) == "" && len(cur) > 0 {
			// Blank line inside an example block stays in the block.
			cur = append(cur, "")
			continue
		}
		flush()
	}
	flush()
	// Trim trailing blanks kept by the in-block rule above.
	for i, g := range groups {
		for len(g) > 0 && g[len(g)-1] == "" {
			g = g[:len(g)-1]
		}
		groups[i] = g
	}
	return groups
}

// isExampleLine reports whether a doc line (leading "#" already stripped)
// is example code: at least three spaces of indentation, i.e. the normal
// single space plus a two-space example indent.
func isExampleLine(l string) bool {
	return strings.HasPrefix(l, "   ") && strings.TrimSpace(l) != ""
}
