// Package console prints operator-facing progress and reads answers to
// prompts.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorTitle   = lipgloss.Color("#8BC34A")
	colorSuccess = lipgloss.Color("#4db6ac")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("#7a8599")
)

// Styles holds the text styles of a Console.
type Styles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Body    lipgloss.Style
}

// DefaultStyles returns the stock palette.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colorTitle),
		Success: lipgloss.NewStyle().Foreground(colorSuccess),
		Warning: lipgloss.NewStyle().Foreground(colorWarning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Bold:    lipgloss.NewStyle().Bold(true),
		Body:    lipgloss.NewStyle(),
	}
}

// Console writes styled lines to out and reads answers from in.
type Console struct {
	in        *bufio.Reader
	out       io.Writer
	styles    Styles
	assumeYes bool
}

// New creates a console. With assumeYes every confirmation is accepted
// without reading input.
func New(in io.Reader, out io.Writer, assumeYes bool) *Console {
	return &Console{
		in:        bufio.NewReader(in),
		out:       out,
		styles:    DefaultStyles(),
		assumeYes: assumeYes,
	}
}

// Title prints a section heading.
func (c *Console) Title(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.styles.Title.Render(fmt.Sprintf(format, args...)))
}

// Info prints a plain line.
func (c *Console) Info(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.styles.Body.Render(fmt.Sprintf(format, args...)))
}

// Success prints a completed step.
func (c *Console) Success(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.styles.Success.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Warn prints a warning.
func (c *Console) Warn(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.styles.Warning.Render("! "+fmt.Sprintf(format, args...)))
}

// Error prints an error line.
func (c *Console) Error(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.styles.Error.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Progress prints a "[n/total] label" line.
func (c *Console) Progress(n, total int, label string) {
	counter := c.styles.Muted.Render(fmt.Sprintf("[%d/%d]", n, total))
	fmt.Fprintf(c.out, "%s %s\n", counter, label)
}

// Ask prints prompt and returns the trimmed answer. End of input yields an
// empty answer.
func (c *Console) Ask(prompt string) (string, error) {
	fmt.Fprint(c.out, c.styles.Bold.Render(prompt)+" ")
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only "y" and "yes" accept.
func (c *Console) Confirm(prompt string) (bool, error) {
	if c.assumeYes {
		return true, nil
	}
	answer, err := c.Ask(prompt + " (yes/no):")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Table renders rows under headers with padded columns.
func (c *Console) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	header := c.styles.Bold.Padding(0, 1)
	body := c.styles.Body.Padding(0, 1)
	sep := c.styles.Muted.Render("|")

	var sb strings.Builder
	for i, h := range headers {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(header.Width(widths[i]).Render(h))
	}
	sb.WriteString("\n")

	total := len(headers) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(c.styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(body.Width(widths[i]).Render(cell))
		}
		sb.WriteString("\n")
	}
	fmt.Fprint(c.out, sb.String())
}
