package ui

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pwinty/internal/pwinty"
)

func newOrderTable() table.Model {
	return table.New(
		table.WithColumns(orderColumns(100)),
		table.WithFocused(true),
	)
}

// orderColumns splits width across the order table columns. Recipient
// absorbs whatever the fixed columns leave over.
func orderColumns(width int) []table.Column {
	fixed := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Ref", Width: 14},
		{Title: "Destination", Width: 16},
		{Title: "Status", Width: 16},
		{Title: "Photos", Width: 6},
		{Title: "Created", Width: 10},
	}
	used := 0
	for _, c := range fixed {
		used += c.Width + 2
	}
	recipient := width - used - 2
	if recipient < 12 {
		recipient = 12
	}
	cols := make([]table.Column, 0, len(fixed)+1)
	cols = append(cols, fixed[0], fixed[1], table.Column{Title: "Recipient", Width: recipient})
	return append(cols, fixed[2:]...)
}

func (m *Model) applyTableStyles() {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(m.theme.Text))
	s.Selected = m.theme.Styles().Selected
	m.table.SetStyles(s)
}

// visibleOrders returns the snapshot orders matching the active filter,
// newest first. The store may still hold the previous filter's result while
// a refresh is in flight, so filtering is applied locally too.
func (m Model) visibleOrders() []pwinty.Order {
	rows := make([]pwinty.Order, 0, len(m.snapshot.Orders))
	for _, o := range m.snapshot.Orders {
		if m.filter != "" && o.Status != m.filter {
			continue
		}
		rows = append(rows, o)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ID > rows[j].ID
	})
	return rows
}

// refreshTable rebuilds table rows and keeps the cursor on the same order.
func (m *Model) refreshTable() {
	var selectedID int64
	if o, ok := m.selectedOrder(); ok {
		selectedID = o.ID
	}

	orders := m.visibleOrders()
	rows := make([]table.Row, 0, len(orders))
	cursor := 0
	for i, o := range orders {
		if o.ID == selectedID {
			cursor = i
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(o.ID, 10),
			truncate(o.MerchantOrderID, 14),
			o.RecipientName,
			truncate(m.snapshot.CountryName(destinationCode(o)), 16),
			string(o.Status),
			strconv.Itoa(len(o.Photos)),
			formatCreated(o.Created),
		})
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(cursor)
	}
	m.syncDetail()
}

// selectedOrder returns the order under the table cursor.
func (m Model) selectedOrder() (pwinty.Order, bool) {
	row := m.table.SelectedRow()
	if row == nil {
		return pwinty.Order{}, false
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return pwinty.Order{}, false
	}
	for _, o := range m.snapshot.Orders {
		if o.ID == id {
			return o, true
		}
	}
	return pwinty.Order{}, false
}

func destinationCode(o pwinty.Order) string {
	if o.DestinationCountryCode != "" {
		return o.DestinationCountryCode
	}
	return o.CountryCode
}

func (m Model) renderOrders() string {
	styles := m.theme.Styles()

	tablePanel := styles.Panel
	detailPanel := styles.Focused
	if !m.focusDetail {
		tablePanel, detailPanel = styles.Focused, styles.Panel
	}

	var tableBody string
	switch {
	case !m.snapshot.HasData && m.snapshot.LastError == nil:
		tableBody = styles.MutedText.Render("Loading orders…")
	case len(m.table.Rows()) == 0:
		tableBody = styles.MutedText.Render(fmt.Sprintf("No orders (filter: %s)", filterLabel(m.filter)))
	default:
		tableBody = m.table.View()
	}

	top := tablePanel.Width(m.width - 2).Render(tableBody)
	bottom := detailPanel.Width(m.width - 2).Render(m.detail.viewport.View())
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}
