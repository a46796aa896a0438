package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/mbsym/lang"
	"github.com/ardnew/mbsym/log"
)

// editManifestMsg is sent when manifest editing completes successfully.
type editManifestMsg struct{ session *lang.Session }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after an error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters an unexpected error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help             Print this help
  list             List declarations
  emit             Print every set: statement made so far
  check [expr]     Evaluate expr, or the manifest checks
  simplify [on|off]  Show or change eager simplification
  strict [on|off]  Show or change protection of const names
  edit             Edit the session as a manifest in $EDITOR
  clear            Clear screen
  quit             Exit REPL

Usage:
  Type an expression to print its simplified form and value
  Type a declaration to make it, for example:
    L = 1.5
    const real g = 9.81
    ifndef integer N = 3
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// echo formats the echo line of submitted input for the given mode.
func echo(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *lang.Session
	out          *bytes.Buffer // receives lines emitted by session
	checks       []string
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	saved        [2]savedInput // input of each mode while inactive
}

type savedInput struct {
	text   string
	cursor int
}

// Run starts an interactive session over s. The check command evaluates
// checks when it is given no expression.
func Run(
	ctx context.Context,
	s *lang.Session,
	checks []string,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("declarations", s.Len()),
		slog.Int("history", history.Len()),
	)

	m := newModel(ctx, s, checks, history, logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *lang.Session,
	checks []string,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	var out bytes.Buffer

	s.SetOutput(&out)

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    s,
		out:        &out,
		checks:     checks,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editManifestMsg:
		m.session = msg.session
		m.session.SetOutput(m.out)
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("declarations", m.session.Len()),
		)

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("session rebuilt with %d declarations", m.session.Len()),
		))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	funcCall := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type an expression or declaration, or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case funcCall.inCall && m.mode == modeEval && isFunction(funcCall.name):
		signature, params := getSignature(funcCall.name)
		b.WriteString(renderSignatureHint(signature, params, funcCall.argIndex))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space breaks out of tab-cycling, keeping the candidate.
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, etc.) edits without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step through the current matches. A sole
// candidate is completed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	m.saved = [2]savedInput{}
	m.input.SetValue("")
	m.tabActive = false
	m.matches = nil

	_, _ = m.history.WriteWithMode(input, mode)
	m.historyIdx = m.history.Len()

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl input",
		slog.String("input", input),
		slog.Int("mode", int(mode)),
	)

	var lines []string

	if mode == modeCtrl {
		var cmd tea.Cmd

		m, lines, cmd = m.executeCommand(input)
		if cmd != nil {
			return m, tea.Sequence(tea.Println(echo(mode, input)), cmd)
		}
	} else {
		lines = m.evaluate(input)
	}

	cmds := []tea.Cmd{tea.Println(echo(mode, input))}
	for _, line := range lines {
		cmds = append(cmds, tea.Println(line))
	}

	return m, tea.Sequence(cmds...)
}

// evaluate makes a declaration or evaluates an expression, returning the
// styled output lines.
func (m model) evaluate(input string) []string {
	st, ok, err := parseStatement(input)

	switch {
	case err != nil:
		return []string{errorStyle.Render("error: " + err.Error())}

	case ok:
		return m.declare(st)
	}

	x, err := m.session.ParseExpr(input)
	if err != nil {
		return []string{errorStyle.Render("error: " + err.Error())}
	}

	n, err := m.session.Resolve(x)
	if err != nil {
		return []string{
			hintStyle.Render(lang.Render(x)),
			errorStyle.Render("error: " + err.Error()),
		}
	}

	return []string{
		hintStyle.Render(lang.Render(x)+" → ") + resultStyle.Render(formatValue(n)),
	}
}

// declare applies a parsed declaration to the session. Without an explicit
// type, the type of an existing declaration or of the resolved value is used.
func (m model) declare(st statement) []string {
	defer m.out.Reset()

	fail := func(err error) []string {
		return []string{errorStyle.Render("error: " + err.Error())}
	}

	x, err := m.session.ParseExpr(st.expr)
	if err != nil {
		return fail(err)
	}

	typ := st.typ

	if !st.typed {
		if d, ok := m.session.Lookup(st.name); ok {
			typ = d.Type()
		} else {
			n, err := m.session.Resolve(x)
			if err != nil {
				return fail(err)
			}

			typ = n.Type()
		}
	}

	_, event, err := m.session.Declare(st.name, typ, st.modifier, x)
	if err != nil {
		return fail(err)
	}

	if event == lang.EventSkipped {
		return []string{hintStyle.Render("skipped: " + st.name + " is already declared")}
	}

	return []string{resultStyle.Render(strings.TrimSpace(m.out.String()))}
}

// executeCommand runs a control command, returning its output lines or a
// command to run after the echo.
func (m model) executeCommand(input string) (model, []string, tea.Cmd) {
	parts := strings.Fields(input)
	name, args := parts[0], parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", name),
		slog.Any("args", args),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, nil, tea.Quit

	case "h", "help":
		return m, []string{helpMessage()}, nil

	case "l", "list":
		return m, m.list(), nil

	case "emit":
		var b strings.Builder
		if err := m.session.Format(m.ctxFunc(), &b); err != nil {
			return m, []string{errorStyle.Render("error: " + err.Error())}, nil
		}

		return m, []string{strings.TrimRight(b.String(), "\n")}, nil

	case "check":
		checks := m.checks
		if len(args) > 0 {
			checks = []string{strings.TrimSpace(strings.TrimPrefix(input, name))}
		}

		return m, m.check(checks), nil

	case "simplify":
		on, err := toggle(m.session.Simplify(), args)
		if err != nil {
			return m, []string{errorStyle.Render("error: " + err.Error())}, nil
		}

		m.session.SetSimplify(on)

		return m, []string{hintStyle.Render("simplify: " + onOff(on))}, nil

	case "strict":
		on, err := toggle(m.session.Strict(), args)
		if err != nil {
			return m, []string{errorStyle.Render("error: " + err.Error())}, nil
		}

		m.session.SetStrict(on)

		return m, []string{hintStyle.Render("strict: " + onOff(on))}, nil

	case "c", "clear":
		return m, nil, tea.ClearScreen

	case "e", "edit":
		return m, nil, m.edit()

	default:
		return m, []string{
			errorStyle.Render("unknown command: " + name + " (try 'help')"),
		}, nil
	}
}

func (m model) list() []string {
	if m.session.Len() == 0 {
		return []string{hintStyle.Render("  (no declarations)")}
	}

	lines := make([]string, 0, m.session.Len())

	for d := range m.session.All() {
		lines = append(lines, "  "+d.Name()+" "+hintStyle.Render(formatPreview(d)))
	}

	return lines
}

func (m model) check(checks []string) []string {
	if len(checks) == 0 {
		return []string{hintStyle.Render("no checks defined")}
	}

	lines := make([]string, 0, len(checks))

	for _, src := range checks {
		ok, err := m.session.Check(m.ctxFunc(), src)

		switch {
		case err != nil:
			lines = append(lines, errorStyle.Render("FAIL  "+src+": "+err.Error()))

		case ok:
			lines = append(lines, resultStyle.Render("ok    "+src))

		default:
			lines = append(lines, errorStyle.Render("FAIL  "+src))
		}
	}

	return lines
}

// toggle returns the new value of a switch: the argument "on" or "off", or
// the current value when there is no argument.
func toggle(current bool, args []string) (bool, error) {
	if len(args) == 0 {
		return current, nil
	}

	switch args[0] {
	case "on", "true", "1":
		return true, nil

	case "off", "false", "0":
		return false, nil

	default:
		return current, fmt.Errorf("expected on or off, got %q", args[0])
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}

// rebuild returns an empty session with the same options as the current one.
func (m model) rebuild() *lang.Session {
	return lang.NewSession(
		lang.WithSimplify(m.session.Simplify()),
		lang.WithStrictConstants(m.session.Strict()),
		lang.WithMaxDepth(m.session.MaxDepth()),
		lang.WithLogger(m.session.Logger()),
		lang.WithOutput(nil),
	)
}

func (m model) edit() tea.Cmd {
	cmd := &editManifestCommand{
		session: m.session,
		rebuild: m.rebuild,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.result == nil {
			return editCancelledMsg{}
		}

		return editManifestMsg{session: cmd.result}
	})
}

// historyStep moves through history by dir (-1 older, 1 newer). With
// sameMode, entries of the other mode are skipped; otherwise the mode
// follows the entry. Stepping past the newest entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.GetEntry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to the specified mode, preserving the input of the
// mode being left.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode].text = m.input.Value()
	m.saved[m.mode].cursor = m.input.Position()

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	refreshMatches(&m, false)

	return m
}
