package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// functionParams names the parameters of each function.
var functionParams = map[string][]string{
	"sin":   {"x"},
	"cos":   {"x"},
	"tan":   {"x"},
	"asin":  {"x"},
	"acos":  {"x"},
	"sqrt":  {"x"},
	"atan2": {"y", "x"},
}

// Styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall determines whether the cursor is inside the argument
// list of a call, and if so which function and which argument.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Find the innermost unclosed paren before the cursor.
	depth := 0
	open := -1

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++

		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0

	for _, c := range input[open+1 : cursor] {
		switch c {
		case '(':
			depth++

		case ')':
			depth--

		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// getSignature returns the signature and parameter names of a function, or
// an empty signature if name is not a function.
func getSignature(name string) (signature string, params []string) {
	params, ok := functionParams[name]
	if !ok {
		return "", nil
	}

	return name + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 || len(params) == 0 {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(signature[:openParen]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		if currentArgIdx == i {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
