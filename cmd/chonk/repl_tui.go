package main

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgomes/chonk/chonk"
)

var (
	accentColor = lipgloss.Color("#F97316")
	okColor     = lipgloss.Color("#22C55E")
	failColor   = lipgloss.Color("#EF4444")
	dimColor    = lipgloss.Color("#6B7280")
	nameColor   = lipgloss.Color("#38BDF8")

	promptStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(okColor)
	errorStyle  = lipgloss.NewStyle().Foreground(failColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(dimColor)
	titleStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(nameColor)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

// tuiKeys are the bindings the model reacts to. Their help text feeds the
// footer and the help panel.
var tuiKeys = struct {
	Quit, Clear, Complete, Vars, Help, Prev, Next, Submit key.Binding
}{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	Vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "vars")),
	Help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
	Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous input")),
	Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next input")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
}

// tuiCommands are the dot commands the full-screen REPL understands, in the
// order the help panel lists them.
var tuiCommands = []struct {
	names []string
	desc  string
}{
	{[]string{".help", ".h"}, "toggle this help"},
	{[]string{".vars", ".v"}, "toggle the variables panel"},
	{[]string{".clear", ".c"}, "clear the transcript"},
	{[]string{".reset", ".r"}, "start a fresh interpreter"},
	{[]string{".exit", ".quit", ".q"}, "leave the REPL"},
}

// transcriptEntry is one evaluated input and what it produced. input is empty
// for informational lines such as completion lists.
type transcriptEntry struct {
	input  string
	output string
	isErr  bool
}

// inputHistory walks previously submitted inputs. pos == len(items) means
// the user is editing a new line.
type inputHistory struct {
	items []string
	pos   int
}

func (h *inputHistory) add(item string) {
	h.items = append(h.items, item)
	h.pos = len(h.items)
}

func (h *inputHistory) prev() (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	h.pos--
	return h.items[h.pos], true
}

func (h *inputHistory) next() (string, bool) {
	if h.pos >= len(h.items) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.items) {
		return "", true
	}
	return h.items[h.pos], true
}

type replModel struct {
	textInput  textinput.Model
	cfg        cliConfig
	interp     *chonk.Interpreter
	output     *bytes.Buffer
	pending    []string
	transcript []transcriptEntry
	inputs     inputHistory
	width      int
	height     int
	showHelp   bool
	showVars   bool
	quitting   bool
	ready      bool
}

func newREPLModel(cfg cliConfig) replModel {
	ti := textinput.New()
	ti.Placeholder = "echo 1 + 2;"
	ti.Prompt = cfg.Prompt
	ti.PromptStyle = promptStyle
	ti.CharLimit = 1000
	ti.Width = 60
	ti.Focus()

	m := replModel{textInput: ti, cfg: cfg, output: &bytes.Buffer{}}
	m.interp = m.freshInterpreter()
	return m
}

func (m replModel) freshInterpreter() *chonk.Interpreter {
	return chonk.NewInterpreter(chonk.Config{Stdout: m.output, Logger: newLogger(m.cfg.Verbose)})
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textInput.Width = max(msg.Width-len(m.cfg.Prompt)-4, 10)
		m.ready = true
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tuiKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, tuiKeys.Clear):
			m.transcript = nil
			return m, nil
		case key.Matches(msg, tuiKeys.Vars):
			m.showVars = !m.showVars
			return m, nil
		case key.Matches(msg, tuiKeys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, tuiKeys.Prev):
			if item, ok := m.inputs.prev(); ok {
				m.textInput.SetValue(item)
				m.textInput.CursorEnd()
			}
			return m, nil
		case key.Matches(msg, tuiKeys.Next):
			if item, ok := m.inputs.next(); ok {
				m.textInput.SetValue(item)
				m.textInput.CursorEnd()
			}
			return m, nil
		case key.Matches(msg, tuiKeys.Complete):
			return m.complete(), nil
		case key.Matches(msg, tuiKeys.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// submit runs the current line, or holds it while brackets or a string are
// still open.
func (m replModel) submit() (tea.Model, tea.Cmd) {
	line := m.textInput.Value()
	m.textInput.SetValue("")

	if len(m.pending) == 0 {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return m, nil
		}
		if strings.HasPrefix(trimmed, ".") {
			return m.runCommand(trimmed)
		}
	}

	m.pending = append(m.pending, line)
	input := strings.Join(m.pending, "\n")
	if needsMoreInput(input) {
		m.textInput.Prompt = m.cfg.ContinuationPrompt
		return m, nil
	}
	m.pending = nil
	m.textInput.Prompt = m.cfg.Prompt

	output, isErr := m.evaluate(input)
	m.transcript = append(m.transcript, transcriptEntry{input: input, output: output, isErr: isErr})
	m.inputs.add(strings.ReplaceAll(input, "\n", " "))
	return m, nil
}

func (m replModel) runCommand(input string) (replModel, tea.Cmd) {
	name := strings.Fields(input)[0]
	switch {
	case slices.Contains(tuiCommands[0].names, name):
		m.showHelp = !m.showHelp
	case slices.Contains(tuiCommands[1].names, name):
		m.showVars = !m.showVars
	case slices.Contains(tuiCommands[2].names, name):
		m.transcript = nil
	case slices.Contains(tuiCommands[3].names, name):
		m.output.Reset()
		m.interp = m.freshInterpreter()
		m.transcript = append(m.transcript, transcriptEntry{input: input, output: "Interpreter reset"})
	case slices.Contains(tuiCommands[4].names, name):
		m.quitting = true
		return m, tea.Quit
	default:
		m.transcript = append(m.transcript, transcriptEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command %s", name),
			isErr:  true,
		})
	}
	return m, nil
}

// complete extends the identifier before the cursor when exactly one
// keyword, builtin or global matches, and lists the candidates otherwise.
func (m replModel) complete() replModel {
	input := m.textInput.Value()
	start := len(input)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		start -= size
	}
	partial := input[start:]
	if partial == "" {
		return m
	}

	var candidates []string
	for _, group := range [][]string{chonk.Keywords(), m.interp.Builtins(), m.interp.Globals().Names()} {
		for _, word := range group {
			if strings.HasPrefix(word, partial) && !slices.Contains(candidates, word) {
				candidates = append(candidates, word)
			}
		}
	}
	sort.Strings(candidates)

	switch len(candidates) {
	case 0:
	case 1:
		m.textInput.SetValue(input[:start] + candidates[0])
		m.textInput.CursorEnd()
	default:
		m.transcript = append(m.transcript, transcriptEntry{
			output: "Completions: " + strings.Join(candidates, ", "),
		})
	}
	return m
}

// evaluate runs input against the session interpreter and returns what it
// echoed, followed by the rendered error if it failed.
func (m replModel) evaluate(input string) (string, bool) {
	m.output.Reset()
	err := m.interp.Run(input)
	echoed := strings.TrimRight(m.output.String(), "\n")
	m.output.Reset()

	if err != nil {
		rendered := chonk.FormatError(err, input)
		if echoed != "" {
			rendered = echoed + "\n" + rendered
		}
		return rendered, true
	}
	if echoed == "" {
		return "ok", false
	}
	return echoed, false
}

// userNames lists global bindings that are not builtins.
func (m replModel) userNames() []string {
	builtins := m.interp.Builtins()
	var names []string
	for _, name := range m.interp.Globals().Names() {
		if !slices.Contains(builtins, name) {
			names = append(names, name)
		}
	}
	return names
}

func (m replModel) View() string {
	if m.quitting {
		return mutedStyle.Render("bye\n")
	}
	if !m.ready {
		return "starting..."
	}

	var panels []string
	if m.showVars {
		panels = append(panels, renderVarsPanel(m.interp.Globals(), m.userNames()))
	}
	if m.showHelp {
		panels = append(panels, renderHelpPanel())
	}
	side := strings.Join(panels, "\n")

	var b strings.Builder
	b.WriteString(titleStyle.Render("chonk") + mutedStyle.Render(" "+version) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width, 72), 1))) + "\n")

	// Keep the newest entries that fit above the input line and footer.
	budget := max(m.height-4-lipgloss.Height(side), 1)
	var lines []string
	for i := len(m.transcript) - 1; i >= 0 && len(lines) < budget; i-- {
		lines = append(renderEntry(m.transcript[i]), lines...)
	}
	if len(lines) > budget {
		lines = lines[len(lines)-budget:]
	}
	for _, line := range lines {
		b.WriteString(line + "\n")
	}

	if side != "" {
		b.WriteString(side + "\n")
	}
	b.WriteString(m.textInput.View() + "\n")
	b.WriteString(renderFooter())
	return b.String()
}

func renderEntry(entry transcriptEntry) []string {
	var lines []string
	if entry.input != "" {
		for i, line := range strings.Split(entry.input, "\n") {
			marker := "› "
			if i > 0 {
				marker = "  "
			}
			lines = append(lines, mutedStyle.Render(marker)+line)
		}
	}
	style := resultStyle
	if entry.isErr {
		style = errorStyle
	}
	for _, line := range strings.Split(entry.output, "\n") {
		lines = append(lines, "  "+style.Render(line))
	}
	return lines
}

func renderVarsPanel(env *chonk.Env, names []string) string {
	if len(names) == 0 {
		return panelStyle.Render(mutedStyle.Render("no variables yet"))
	}
	lines := []string{titleStyle.Render("variables")}
	for _, name := range names {
		val, _ := env.Lookup(name)
		lines = append(lines, fmt.Sprintf("%s = %s", nameStyle.Render(name), val.String()))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	lines := []string{titleStyle.Render("keys")}
	for _, b := range []key.Binding{tuiKeys.Submit, tuiKeys.Prev, tuiKeys.Next, tuiKeys.Complete, tuiKeys.Clear, tuiKeys.Quit} {
		lines = append(lines, fmt.Sprintf("%-8s %s", nameStyle.Render(b.Help().Key), b.Help().Desc))
	}
	lines = append(lines, "", titleStyle.Render("commands"))
	for _, c := range tuiCommands {
		lines = append(lines, fmt.Sprintf("%-8s %s", nameStyle.Render(c.names[0]), c.desc))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderFooter() string {
	parts := make([]string, 0, 4)
	for _, b := range []key.Binding{tuiKeys.Help, tuiKeys.Vars, tuiKeys.Clear, tuiKeys.Quit} {
		parts = append(parts, nameStyle.Render(b.Help().Key)+" "+mutedStyle.Render(b.Help().Desc))
	}
	return strings.Join(parts, "  ")
}

func runTUI(cfg cliConfig) error {
	_, err := tea.NewProgram(newREPLModel(cfg), tea.WithAltScreen()).Run()
	return err
}
