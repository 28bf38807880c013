package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	plain   bool
	title   lipgloss.Style
	header  lipgloss.Style
	chart   lipgloss.Style
	message lipgloss.Style
}

func newStyles(plain bool) styles {
	return styles{
		plain:   plain,
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		chart:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		message: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

// report styles the header line of a multi-line report
func (s styles) report(text string) string {
	head, rest, found := strings.Cut(text, "\n")
	head = s.render(s.header, head)
	if !found {
		return head
	}
	return head + "\n" + rest
}

// graph styles the title and the bar rows, leaving axis and summary plain
func (s styles) graph(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}
	lines[0] = s.render(s.header, lines[0])
	for i := 1; i < len(lines)-2; i++ {
		lines[i] = s.render(s.chart, lines[i])
	}
	return strings.Join(lines, "\n")
}
