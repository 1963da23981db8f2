package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	// Title bar
	sections = append(sections, m.renderTitleBar())

	// Error display
	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	// Main content
	if m.status != nil {
		sections = append(sections, m.renderCPUMemory())
		sections = append(sections, m.renderProcess())
	}

	// Model section
	if m.modelInfo != nil {
		sections = append(sections, m.renderModel())
	}

	// Footer
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar() string {
	title := titleStyle.Render("DRAINFOX DASHBOARD")

	refreshInfo := fmt.Sprintf("↻ %s", m.config.RefreshInterval)
	if m.loading {
		refreshInfo = "↻ loading..."
	}

	help := helpStyle.Render("q:quit r:refresh")

	// Calculate spacing
	rightPart := fmt.Sprintf("%s | %s", refreshInfo, help)
	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(rightPart) - 2
	if spacing < 1 {
		spacing = 1
	}

	return fmt.Sprintf("%s%s%s", title, strings.Repeat(" ", spacing), helpStyle.Render(rightPart))
}

func (m Model) renderCPUMemory() string {
	cpuBar := m.renderProgressBar("CPU", m.status.System.CPU.UsagePercent, 20)
	memBar := m.renderProgressBar("Memory", m.status.System.Memory.UsagePercent, 20)

	return fmt.Sprintf("  %s    %s", cpuBar, memBar)
}

func (m Model) renderProgressBar(label string, percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	color := getProgressColor(percent)
	filledBar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyBar := progressBarEmptyStyle.Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("%s [%s%s] %5.1f%%", labelStyle.Render(label), filledBar, emptyBar, percent)
}

func (m Model) renderProcess() string {
	proc := m.status.System.Process
	rssMB := float64(proc.RSSBytes) / 1024 / 1024

	return fmt.Sprintf("  %s PID %d │ RSS %.1f MB │ Threads %d",
		sectionHeaderStyle.Render("Daemon"),
		proc.PID, rssMB, proc.Threads)
}

func (m Model) renderModel() string {
	var lines []string
	lines = append(lines, sectionHeaderStyle.Render("  Model"))

	if !m.modelInfo.Loaded {
		lines = append(lines, helpStyle.Render("  not trained — POST /train or run 'drainfox train'"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf("  Type:     %s", valueStyle.Render(m.modelInfo.Model)))
	lines = append(lines, fmt.Sprintf("  Features: %s", valueStyle.Render(fmt.Sprintf("%d", len(m.modelInfo.Features)))))

	if m.modelInfo.Artifact.Exists {
		sizeKB := float64(m.modelInfo.Artifact.Size) / 1024
		lines = append(lines, fmt.Sprintf("  Artifact: %s", valueStyle.Render(
			fmt.Sprintf("%s (%.1f KB)", m.modelInfo.Artifact.Path, sizeKB))))
		if !m.modelInfo.Artifact.UpdatedAt.IsZero() {
			lines = append(lines, fmt.Sprintf("  Updated:  %s",
				valueStyle.Render(m.modelInfo.Artifact.UpdatedAt.Format("2006-01-02 15:04:05"))))
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	if m.status == nil {
		return ""
	}

	host := m.status.System.Host
	uptime := time.Duration(host.UptimeSec) * time.Second
	updated := m.lastUpdated.Format("15:04:05")

	return helpStyle.Render(fmt.Sprintf(
		"  %s │ up %s │ v%s │ Updated: %s",
		host.Hostname,
		formatUptime(uptime),
		m.status.Version,
		updated,
	))
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
