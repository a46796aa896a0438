package repl

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ardnew/mbsym/lang"
)

// statement is a declaration typed at the eval prompt:
//
//	[set:] [const | ifndef [const]] [type] name = expr [;]
//
// The type may be omitted, in which case the type of an existing
// declaration, or of the resolved value, is used.
type statement struct {
	modifier lang.Modifier
	typ      lang.Type
	typed    bool
	name     string
	expr     string
}

// parseStatement reports whether input is a declaration and parses it.
// Input without a top-level assignment is an expression and returns false.
func parseStatement(input string) (statement, bool, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimSpace(strings.TrimPrefix(input, "set:"))
	input = strings.TrimSpace(strings.TrimSuffix(input, ";"))

	eq := assignIndex(input)
	if eq < 0 {
		return statement{}, false, nil
	}

	st := statement{expr: strings.TrimSpace(input[eq+1:])}
	if st.expr == "" {
		return st, true, fmt.Errorf("%w: missing expression", ErrInvalidStatement)
	}

	fields := strings.Fields(input[:eq])
	if len(fields) == 0 {
		return st, true, fmt.Errorf("%w: missing name", ErrInvalidStatement)
	}

	st.name = fields[len(fields)-1]
	if !isIdentifier(st.name) {
		return st, true, fmt.Errorf("%w: invalid name %q", ErrInvalidStatement, st.name)
	}

	words := fields[:len(fields)-1]

	switch {
	case len(words) > 0 && words[0] == "const":
		st.modifier = lang.ModifierConstant
		words = words[1:]

	case len(words) > 0 && words[0] == "ifndef":
		st.modifier = lang.ModifierDefineIfAbsent
		words = words[1:]

		if len(words) > 0 && words[0] == "const" {
			words = words[1:]
		}
	}

	switch len(words) {
	case 0:

	case 1:
		typ, err := lang.ParseType(words[0])
		if err != nil {
			return st, true, fmt.Errorf("%w: unknown type %q", ErrInvalidStatement, words[0])
		}

		st.typ, st.typed = typ, true

	default:
		return st, true, fmt.Errorf("%w: unexpected %q",
			ErrInvalidStatement, strings.Join(words, " "))
	}

	return st, true, nil
}

// assignIndex returns the byte offset of the first "=" that is not part of a
// comparison operator, or -1.
func assignIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}

		if i > 0 && strings.IndexByte("=!<>", s[i-1]) >= 0 {
			continue
		}

		if i+1 < len(s) && s[i+1] == '=' {
			i++

			continue
		}

		return i
	}

	return -1
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if !isIdentRune(r) || (i == 0 && unicode.IsDigit(r)) {
			return false
		}
	}

	return s != ""
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
