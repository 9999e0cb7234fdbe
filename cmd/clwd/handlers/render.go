package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/clwd/internal/store"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorAmber = lipgloss.Color("#f59e0b")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(colorAmber)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// stdoutIsTTY reports whether stdout is an interactive terminal. Styling is
// skipped for pipes and redirects.
var stdoutIsTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// styled renders s with style on a terminal, and plain otherwise.
func styled(style lipgloss.Style, s string) string {
	if !stdoutIsTTY() {
		return s
	}
	return style.Render(s)
}

// renderSummaries produces the project listing table.
func renderSummaries(summaries []store.Summary) string {
	var b strings.Builder

	b.WriteString(styled(titleStyle, "  clwd projects"))
	b.WriteString("\n")
	b.WriteString(styled(dimStyle, "  "+strings.Repeat("─", 72)))
	b.WriteString("\n")
	b.WriteString(styled(dimStyle, fmt.Sprintf("  %-18s %-12s %-16s %-9s %s",
		"Project", "Status", "Address", "Provider", "Last accessed")))
	b.WriteString("\n")

	for _, s := range summaries {
		fmt.Fprintf(&b, "  %-18s %-12s %-16s %-9s %s\n",
			s.ProjectName, s.Status, s.Address, s.Provider, s.LastAccessed)
	}

	return b.String()
}

// renderProject produces the single-project status block.
func renderProject(p *store.Project) string {
	var b strings.Builder

	b.WriteString(styled(titleStyle, fmt.Sprintf("  %s", p.ProjectName)))
	b.WriteString("\n")
	b.WriteString(styled(dimStyle, "  "+strings.Repeat("─", 40)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Status:    %s\n", p.Status)
	fmt.Fprintf(&b, "  Address:   %s\n", p.Address)
	fmt.Fprintf(&b, "  Preview:   http://%s\n", p.Address)
	fmt.Fprintf(&b, "  Provider:  %s\n", p.ProviderKind)
	fmt.Fprintf(&b, "  Created:   %s\n", p.CreatedAt)
	if region := p.Metadata["region"]; region != "" {
		fmt.Fprintf(&b, "  Region:    %s\n", region)
	}
	if hardening := p.Metadata["hardening_level"]; hardening != "" {
		fmt.Fprintf(&b, "  Hardening: %s\n", hardening)
	}

	return b.String()
}
