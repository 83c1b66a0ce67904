package stub

import (
	"fmt"
	"regexp"
)

// ParamKind classifies a parameter in a method signature.
type ParamKind string

const (
	ParamRequired    ParamKind = "required"     // name
	ParamOptional    ParamKind = "optional"     // name = expr
	ParamRest        ParamKind = "rest"         // *name
	ParamKeyword     ParamKind = "keyword"      // name:
	ParamKeywordOpt  ParamKind = "keyword_opt"  // name: expr
	ParamKeywordRest ParamKind = "keyword_rest" // **name
	ParamBlock       ParamKind = "block"        // &name
)

// Param is one parameter of a method signature. Default holds the raw
// default expression text for optional and keyword_opt parameters; it is
// never evaluated, only carried through for display and regeneration.
type Param struct {
	Kind    ParamKind
	Name    string
	Default string
}

// String renders the parameter in declaration syntax.
func (p Param) String() string {
	switch p.Kind {
	case ParamOptional:
		return fmt.Sprintf("%s = %s", p.Name, p.Default)
	case ParamRest:
		return "*" + p.Name
	case ParamKeyword:
		return p.Name + ":"
	case ParamKeywordOpt:
		return fmt.Sprintf("%s: %s", p.Name, p.Default)
	case ParamKeywordRest:
		return "**" + p.Name
	case ParamBlock:
		return "&" + p.Name
	default:
		return p.Name
	}
}

var identRe = regexp.MustCompile(`^[a-z_][A-Za-z0-9_]*$`)

// IsIdent reports whether s is a legal parameter/method identifier.
func IsIdent(s string) bool {
	return identRe.MatchString(s)
}

// paramRank orders parameter kinds as the signature grammar requires:
// required, then optional, then rest, then keywords (required and optional
// keywords may interleave), then keyword-rest, then block.
func paramRank(k ParamKind) int {
	switch k {
	case ParamRequired:
		return 0
	case ParamOptional:
		return 1
	case ParamRest:
		return 2
	case ParamKeyword, ParamKeywordOpt:
		return 3
	case ParamKeywordRest:
		return 4
	case ParamBlock:
		return 5
	}
	return 6
}

// SignatureError describes one well-formedness violation in a parameter
// list. Index is the offending parameter's position (0-based).
type SignatureError struct {
	Index   int
	Message string
}

func (e SignatureError) Error() string { return e.Message }

// ValidateParams checks a parameter list for well-formedness: legal names,
// no duplicates, correct kind ordering, and at most one rest, keyword-rest,
// and block parameter. All violations are returned, not just the first.
func ValidateParams(params []Param) []SignatureError {
	var errs []SignatureError
	seen := make(map[string]bool, len(params))
	counts := make(map[ParamKind]int)
	lastRank := -1

	for i, p := range params {
		if !IsIdent(p.Name) {
			errs = append(errs, SignatureError{i, fmt.Sprintf("invalid parameter name %q", p.Name)})
		}
		if seen[p.Name] {
			errs = append(errs, SignatureError{i, fmt.Sprintf("duplicate parameter name %q", p.Name)})
		}
		seen[p.Name] = true

		rank := paramRank(p.Kind)
		if rank < lastRank {
			errs = append(errs, SignatureError{i, fmt.Sprintf("%s parameter %q may not follow a %s parameter", p.Kind, p.Name, kindAtRank(lastRank))})
		}
		if rank > lastRank {
			lastRank = rank
		}

		counts[p.Kind]++
		switch p.Kind {
		case ParamRest, ParamKeywordRest, ParamBlock:
			if counts[p.Kind] > 1 {
				errs = append(errs, SignatureError{i, fmt.Sprintf("at most one %s parameter is allowed", p.Kind)})
			}
		case ParamOptional, ParamKeywordOpt:
			if p.Default == "" {
				errs = append(errs, SignatureError{i, fmt.Sprintf("parameter %q is missing its default expression", p.Name)})
			}
		}
	}
	return errs
}

func kindAtRank(rank int) ParamKind {
	switch rank {
	case 0:
		return ParamRequired
	case 1:
		return ParamOptional
	case 2:
		return ParamRest
	case 3:
		return ParamKeyword
	case 4:
		return ParamKeywordRest
	case 5:
		return ParamBlock
	}
	return ""
}
