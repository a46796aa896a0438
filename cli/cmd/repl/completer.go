package repl

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/mbsym/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "emit", "check", "simplify", "strict", "edit", "clear", "quit",
}

// switches are the arguments of the simplify and strict commands.
var switches = []string{"on", "off"}

// keywords are the words of a declaration other than names.
var keywords = []string{
	"const", "ifndef", "bool", "integer", "real", "string", "true", "false",
}

// wordBounds returns the identifier at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor does not
// touch an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// evalCandidates returns the declared names, the function names, and the
// declaration keywords.
func evalCandidates(s *lang.Session) []string {
	names := s.Env().Names()
	names = append(names, lang.Functions()...)

	return append(names, keywords...)
}

// ctrlCandidates returns the command names for the first word of a control
// command, or the arguments accepted by that command.
func ctrlCandidates(input string, wordStart int) []string {
	fields := strings.Fields(input[:wordStart])
	if len(fields) == 0 {
		return ctrlCommands
	}

	if slices.Contains([]string{"simplify", "strict"}, fields[0]) && len(fields) == 1 {
		return switches
	}

	return nil
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word has no matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCandidates(input, wordStart)
	} else {
		candidates = evalCandidates(m.session)
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// formatPreview summarizes a declaration for the list command.
func formatPreview(d *lang.Declaration) string {
	var sb strings.Builder

	if d.Modifier() != lang.ModifierPlain {
		sb.WriteString(d.Modifier().String() + " ")
	}

	sb.WriteString(d.Type().String() + " = ")

	src := lang.Render(d.Bound())
	if len(src) > 40 {
		src = src[:37] + "..."
	}

	sb.WriteString(src)

	return sb.String()
}

// formatValue renders a resolved number with its type.
func formatValue(n lang.Number) string {
	if n.Type() == lang.TypeString {
		return fmt.Sprintf("%q (%s)", n.String(), n.Type())
	}

	return fmt.Sprintf("%s (%s)", n, n.Type())
}

// isFunction reports whether name is called like a function.
func isFunction(name string) bool {
	op, err := lang.ParseOp(name)

	return err == nil && op.IsFunc()
}
