package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/pwinty/internal/pwinty"
)

const detailFetchTimeout = 10 * time.Second

// detailState holds the detail pane for the selected order.
type detailState struct {
	viewport viewport.Model

	orderID    int64
	loading    bool
	loaded     bool
	order      pwinty.Order
	photos     []pwinty.Photo
	submission pwinty.SubmissionStatus
	err        error
}

// detailMsg carries the order, its photos and its submission status.
type detailMsg struct {
	orderID    int64
	order      pwinty.Order
	photos     []pwinty.Photo
	submission pwinty.SubmissionStatus
	err        error
}

// syncDetail resets the pane when the cursor moves to another order.
func (m *Model) syncDetail() {
	o, ok := m.selectedOrder()
	if !ok {
		m.detail = detailState{viewport: m.detail.viewport}
		m.renderDetail()
		return
	}
	if o.ID != m.detail.orderID {
		m.detail = detailState{viewport: m.detail.viewport, orderID: o.ID}
		m.detail.viewport.GotoTop()
	}
	m.renderDetail()
}

// loadSelectedDetail fetches the order, its photos and its submission status
// concurrently.
func (m *Model) loadSelectedDetail() tea.Cmd {
	o, ok := m.selectedOrder()
	if !ok || m.client == nil {
		return nil
	}
	m.detail.loading = true
	m.renderDetail()
	return fetchDetailCmd(m.ctx, m.client, o.ID)
}

func fetchDetailCmd(parent context.Context, api pwinty.API, orderID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, detailFetchTimeout)
		defer cancel()

		id := strconv.FormatInt(orderID, 10)
		msg := detailMsg{orderID: orderID}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			body, err := api.Order(gctx, id)
			if err != nil {
				return fmt.Errorf("order: %w", err)
			}
			msg.order, err = pwinty.Decode[pwinty.Order](body)
			return err
		})
		g.Go(func() error {
			body, err := api.OrderPhotos(gctx, id)
			if err != nil {
				return fmt.Errorf("photos: %w", err)
			}
			msg.photos, err = pwinty.Decode[[]pwinty.Photo](body)
			return err
		})
		g.Go(func() error {
			body, err := api.OrderSubmissionStatus(gctx, id)
			if err != nil {
				return fmt.Errorf("submission status: %w", err)
			}
			msg.submission, err = pwinty.Decode[pwinty.SubmissionStatus](body)
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m *Model) handleDetail(msg detailMsg) {
	if msg.orderID != m.detail.orderID {
		return
	}
	m.detail.loading = false
	m.detail.err = msg.err
	if msg.err == nil {
		m.detail.loaded = true
		m.detail.order = msg.order
		m.detail.photos = msg.photos
		m.detail.submission = msg.submission
	}
	if msg.err != nil {
		m.logger.Warn("load order detail failed", "order_id", msg.orderID, "error", msg.err)
	}
	m.renderDetail()
}

// renderDetail writes the pane content into the viewport.
func (m *Model) renderDetail() {
	m.detail.viewport.SetContent(m.detailContent())
}

func (m Model) detailContent() string {
	styles := m.theme.Styles()
	o, ok := m.selectedOrder()
	if !ok {
		return styles.MutedText.Render("No order selected")
	}
	if m.detail.loaded {
		o = m.detail.order
	}

	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Order #%d", o.ID)))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(o.Status).Render(string(o.Status)))
	b.WriteString("\n\n")

	field("Reference", o.MerchantOrderID)
	field("Recipient", o.RecipientName)
	field("Address", formatAddress(o))
	field("Destination", m.snapshot.CountryName(destinationCode(o)))
	field("Email", o.Email)
	field("Quality", string(o.QualityLevel))
	field("Payment", string(o.Payment))
	if o.Price > 0 {
		field("Price", formatPrice(o.Price))
	}
	field("Created", o.Created)
	field("Updated", o.LastUpdated)
	field("Pay at", o.PaymentURL)

	switch {
	case m.detail.loading:
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Loading photos and submission status…"))
	case m.detail.err != nil:
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render("Detail unavailable: " + m.detail.err.Error()))
	case m.detail.loaded:
		b.WriteString("\n")
		b.WriteString(m.renderSubmission(styles))
		b.WriteString("\n")
		b.WriteString(m.renderPhotos(styles))
	default:
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d photo(s). Press enter to load details.", len(o.Photos))))
	}
	return b.String()
}

func (m Model) renderSubmission(styles Styles) string {
	s := m.detail.submission
	var b strings.Builder
	if s.IsValid {
		b.WriteString(styles.SuccessText.Render("Ready to submit"))
	} else {
		b.WriteString(styles.WarningText.Render("Not ready to submit"))
	}
	b.WriteString("\n")
	for _, e := range s.GeneralErrors {
		b.WriteString(styles.DangerText.Render("  • " + e))
		b.WriteString("\n")
	}
	for _, p := range s.Photos {
		for _, e := range p.Errors {
			b.WriteString(styles.DangerText.Render(fmt.Sprintf("  • photo %d: %s", p.ID, e)))
			b.WriteString("\n")
		}
		for _, w := range p.Warnings {
			b.WriteString(styles.WarningText.Render(fmt.Sprintf("  • photo %d: %s", p.ID, w)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderPhotos(styles Styles) string {
	if len(m.detail.photos) == 0 {
		return styles.MutedText.Render("No photos")
	}
	var b strings.Builder
	b.WriteString(styles.AccentText.Render(fmt.Sprintf("Photos (%d)", len(m.detail.photos))))
	b.WriteString("\n")
	width := m.detail.viewport.Width - 40
	if width < 20 {
		width = 20
	}
	for _, p := range m.detail.photos {
		line := fmt.Sprintf("  #%-8d %-14s x%-3d %-10s %s",
			p.ID, truncate(p.Type, 14), p.Copies, p.Status, truncateMiddle(p.URL, width))
		b.WriteString(styles.Text.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func formatAddress(o pwinty.Order) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{o.Address1, o.Address2, o.AddressTownOrCity, o.StateOrCounty, o.PostalOrZipCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
