package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pwinty/internal/pwinty"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("pwinty")}
	if m.config != nil {
		env := "LIVE"
		envStyle := styles.DangerText
		if m.config.Sandbox() {
			env = "SANDBOX"
			envStyle = styles.SuccessText
		}
		parts = append(parts, envStyle.Render(env))
		if m.config.MerchantID != "" {
			parts = append(parts, styles.MutedText.Render("merchant ")+styles.Text.Render(m.config.MerchantID))
		}
	}

	switch {
	case !m.snapshot.HasData && m.snapshot.LastError != nil:
		parts = append(parts,
			styles.DangerText.Render(describeError(m.snapshot.LastError)),
			styles.WarningText.Render("Retrying..."))
	case !m.snapshot.HasData:
		parts = append(parts, styles.WarningText.Render("Connecting..."))
	default:
		parts = append(parts,
			styles.MutedText.Render("Orders ")+styles.Text.Render(fmt.Sprintf("%d", len(m.visibleOrders()))),
			styles.MutedText.Render("Filter ")+styles.AccentText.Render(filterLabel(m.filter)),
		)
		parts = append(parts, m.statusCounts(styles))
		if !m.snapshot.LastUpdated.IsZero() {
			age := humanizeDuration(time.Since(m.snapshot.LastUpdated))
			parts = append(parts, styles.MutedText.Render("updated "+age))
		}
		if m.snapshot.IsOffline() {
			parts = append(parts, styles.DangerText.Render("OFFLINE"))
		} else if m.snapshot.LastError != nil {
			parts = append(parts, styles.WarningText.Render("! "+truncate(describeError(m.snapshot.LastError), 60)))
		}
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

// statusCounts summarises how many loaded orders sit in each status.
func (m Model) statusCounts(styles Styles) string {
	counts := make(map[pwinty.OrderStatus]int, len(pwinty.OrderStatuses))
	for _, o := range m.snapshot.Orders {
		counts[o.Status]++
	}
	var parts []string
	for _, s := range pwinty.OrderStatuses {
		if counts[s] == 0 {
			continue
		}
		parts = append(parts, styles.StatusStyle(s).Render(fmt.Sprintf("%s %d", s, counts[s])))
	}
	return strings.Join(parts, " ")
}

// describeError gives a short label for a poll failure.
func describeError(err error) string {
	switch pwinty.Kind(err) {
	case "unauthorized":
		return "Unauthorized: check merchant ID and API key"
	case "timeout":
		return "API timed out"
	case "transport":
		return "API unreachable"
	default:
		return err.Error()
	}
}

// renderFooter shows the confirmation prompt, a flash message or key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	switch {
	case m.pending != nil:
		return styles.Prompt.Render(m.pending.prompt())
	case m.flash.text != "":
		if m.flash.isError {
			return styles.Footer.Render(styles.DangerText.Render(m.flash.text))
		}
		return styles.Footer.Render(styles.SuccessText.Render(m.flash.text))
	default:
		return styles.Footer.Render(m.help.View(m.keys))
	}
}
