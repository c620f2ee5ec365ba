package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))
)

// KV is one labelled value of a summary block.
type KV struct {
	Key   string
	Value string
}

// KeyValues aligns keys and renders one pair per line.
func KeyValues(pairs []KV) string {
	width := 0
	for _, p := range pairs {
		if len(p.Key) > width {
			width = len(p.Key)
		}
	}
	lines := make([]string, len(pairs))
	for i, p := range pairs {
		key := fmt.Sprintf("%-*s", width, p.Key)
		lines[i] = LabelStyle.Render(key) + "  " + ValueStyle.Render(p.Value)
	}
	return strings.Join(lines, "\n")
}

// Panel renders content in a bordered box with a title line.
func Panel(title, content string) string {
	return PanelStyle.Render(TitleStyle.Render(title) + "\n" + content)
}

// HeaderPairs splits "key = value" description lines into pairs. Lines
// without a separator become section titles with an empty value.
func HeaderPairs(lines []string) []KV {
	pairs := make([]KV, 0, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			pairs = append(pairs, KV{Key: strings.TrimSpace(line)})
			continue
		}
		pairs = append(pairs, KV{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
	}
	return pairs
}

// Separator draws a muted horizontal rule.
func Separator(width int) string {
	if width < 7 {
		width = 7
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
