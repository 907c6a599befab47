package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"struktur/internal/config"
	"struktur/internal/tree"
)

const (
	rootQuestion   = "Folder path to walk: "
	inlineQuestion = "Include file contents? [Y/n]: "
)

// ErrPromptAborted is returned when the user cancels a prompt (Esc, Ctrl+C)
// or input ends before an answer was given.
var ErrPromptAborted = errors.New("prompt aborted")

// Prompter collects the two run-time values that are not configured.
type Prompter interface {
	// AskRoot returns the normalized root folder path.
	AskRoot() (string, error)
	// AskInline returns whether file contents should be inlined; an empty
	// answer yields def.
	AskInline(def bool) (bool, error)
}

// isTerminal reports whether r is a terminal (for interactive prompts).
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newPrompter returns a TUI prompter when in is a terminal and a plain line
// reader otherwise (piped input, tests).
func newPrompter(in io.Reader, out io.Writer) Prompter {
	if isTerminal(in) {
		return &ttyPrompter{in: in, out: out}
	}
	return &linePrompter{r: bufio.NewReader(in), out: out}
}

func validateRootAnswer(answer string) error {
	if tree.NormalizeRoot(answer) == "" {
		return errors.New("folder path is required")
	}
	return nil
}

func parseInlineAnswer(answer string, def bool) (bool, error) {
	if strings.TrimSpace(answer) == "" {
		return def, nil
	}
	v, err := config.ParseBool(answer)
	if err != nil {
		return false, errors.New("answer y or n")
	}
	return v, nil
}

// linePrompter reads answers line by line. One bufio.Reader is shared by
// both questions so buffered input is not lost between them.
type linePrompter struct {
	r   *bufio.Reader
	out io.Writer
}

func (p *linePrompter) AskRoot() (string, error) {
	for {
		answer, err := p.ask(rootQuestion)
		if err != nil {
			return "", err
		}
		if verr := validateRootAnswer(answer); verr != nil {
			fmt.Fprintln(p.out, verr)
			continue
		}
		return tree.NormalizeRoot(answer), nil
	}
}

func (p *linePrompter) AskInline(def bool) (bool, error) {
	for {
		answer, err := p.ask(inlineQuestion)
		if err != nil {
			return false, err
		}
		v, perr := parseInlineAnswer(answer, def)
		if perr != nil {
			fmt.Fprintln(p.out, perr)
			continue
		}
		return v, nil
	}
}

func (p *linePrompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			fmt.Fprintln(p.out)
			return strings.TrimRight(line, "\r\n"), nil
		}
		fmt.Fprintln(p.out)
		if errors.Is(err, io.EOF) {
			return "", ErrPromptAborted
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ttyPrompter asks each question with a small bubbletea program.
type ttyPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p *ttyPrompter) AskRoot() (string, error) {
	answer, err := runPrompt(p.in, p.out, newPromptModel(rootQuestion, "./project", validateRootAnswer))
	if err != nil {
		return "", err
	}
	return tree.NormalizeRoot(answer), nil
}

func (p *ttyPrompter) AskInline(def bool) (bool, error) {
	validate := func(answer string) error {
		_, err := parseInlineAnswer(answer, def)
		return err
	}
	answer, err := runPrompt(p.in, p.out, newPromptModel(inlineQuestion, "y", validate))
	if err != nil {
		return false, err
	}
	return parseInlineAnswer(answer, def)
}

func runPrompt(in io.Reader, out io.Writer, m promptModel) (string, error) {
	prog := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out))
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	fm, ok := final.(promptModel)
	if !ok || fm.aborted {
		return "", ErrPromptAborted
	}
	answer := fm.input.Value()
	fmt.Fprintln(out, fm.question+answer)
	return answer, nil
}

var (
	promptQuestionStyle = lipgloss.NewStyle().Bold(true).Foreground(clrBrand)
	promptErrorStyle    = lipgloss.NewStyle().Foreground(clrRed)
	promptHelpStyle     = lipgloss.NewStyle().Foreground(clrDim)
)

// promptModel is the bubbletea model for a single-line question.
type promptModel struct {
	question string
	input    textinput.Model
	validate func(string) error
	errMsg   string
	done     bool
	aborted  bool
}

func newPromptModel(question, placeholder string, validate func(string) error) promptModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()
	return promptModel{
		question: question,
		input:    ti,
		validate: validate,
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.validate != nil {
				if err := m.validate(m.input.Value()); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.errMsg != "" && m.validate != nil && m.validate(m.input.Value()) == nil {
		m.errMsg = ""
	}
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptQuestionStyle.Render(m.question))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(promptErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(promptHelpStyle.Render("enter to confirm • esc to cancel"))
	b.WriteString("\n")
	return b.String()
}
