package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pwinty/internal/pwinty"
)

const actionTimeout = 15 * time.Second

// pendingAction is a status change awaiting confirmation.
type pendingAction struct {
	orderID int64
	status  pwinty.OrderStatus
}

func (p pendingAction) prompt() string {
	verb := "Change"
	switch p.status {
	case pwinty.StatusCancelled:
		verb = "Cancel"
	case pwinty.StatusSubmitted:
		verb = "Submit"
	}
	return fmt.Sprintf("%s order #%d? [y/n]", verb, p.orderID)
}

// actionMsg reports the outcome of a status change.
type actionMsg struct {
	orderID int64
	status  pwinty.OrderStatus
	err     error
}

// promptStatusChange asks for confirmation before moving the selected order
// to status.
func (m *Model) promptStatusChange(status pwinty.OrderStatus) {
	o, ok := m.selectedOrder()
	if !ok {
		return
	}
	if o.Status == status {
		m.flash = newFlash(fmt.Sprintf("Order #%d is already %s", o.ID, status), false)
		return
	}
	m.pending = &pendingAction{orderID: o.ID, status: status}
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		p := *m.pending
		m.pending = nil
		if m.client == nil {
			return m, nil
		}
		m.flash = newFlash(fmt.Sprintf("Updating order #%d…", p.orderID), false)
		return m, updateStatusCmd(m.ctx, m.client, p)
	case key.Matches(msg, m.keys.Deny), key.Matches(msg, m.keys.Quit):
		m.pending = nil
	}
	return m, nil
}

func updateStatusCmd(parent context.Context, api pwinty.API, p pendingAction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, actionTimeout)
		defer cancel()
		_, err := api.UpdateOrderStatus(ctx, pwinty.StatusParams{
			ID:     strconv.FormatInt(p.orderID, 10),
			Status: p.status,
		})
		return actionMsg{orderID: p.orderID, status: p.status, err: err}
	}
}

func (m Model) handleActionResult(msg actionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("order status change failed",
			"order_id", msg.orderID,
			"status", msg.status,
			"error", msg.err,
		)
		m.flash = newFlash(fmt.Sprintf("Order #%d: %v", msg.orderID, msg.err), true)
		return m, nil
	}
	m.logger.Info("order status changed", "order_id", msg.orderID, "status", msg.status)
	m.flash = newFlash(fmt.Sprintf("Order #%d is now %s", msg.orderID, msg.status), false)
	if m.source != nil {
		m.source.Kick()
	}
	if msg.orderID == m.detail.orderID && m.detail.loaded {
		return m, fetchDetailCmd(m.ctx, m.client, msg.orderID)
	}
	return m, nil
}
