package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arun19061/newstatement/internal/api"
)

// ---------------------------------------------------------------------------
// Message handlers (called from Update)
// ---------------------------------------------------------------------------

func (m model) handleHealthChecked(msg healthCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("url", m.cfg.Server.URL).Msg("health check failed")
		m.setStatus(fmt.Sprintf("Warning: cannot reach the processing service at %s.", m.cfg.Server.URL), statusWarn)
	}
	return m, nil
}

func (m model) handleFilesScanned(msg filesScannedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("File scan error: %v", msg.err), statusError)
		m.showPicker = false
		return m, nil
	}
	m.picker = newFilePicker(msg.files)
	m.pickerReady = true
	return m, nil
}

func (m model) handleProcessDone(msg processDoneMsg) (tea.Model, tea.Cmd) {
	if m.cancelSubmit != nil {
		m.cancelSubmit()
		m.cancelSubmit = nil
	}
	if msg.err != nil {
		m.phase = phaseFailed
		m.failMsg = submitFailureMessage(msg.err, m.cfg.Server.TimeoutSeconds)
		m.setStatus(m.failMsg, statusError)
		return m, nil
	}
	m.phase = phaseSucceeded
	m.current = msg.payload
	m.failMsg = ""
	m.txnCursor = 0
	m.txnTop = 0

	status := fmt.Sprintf("Successfully processed %d transactions.", msg.payload.Summary.TotalTransactions)
	if failed := msg.payload.FailedFiles(); len(failed) > 0 {
		status += " Skipped: " + strings.Join(failed, ", ") + "."
	}
	m.setStatus(status, statusSuccess)
	return m, nil
}

func (m model) handleDownloadDone(msg downloadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		var serr *api.ServerError
		if errors.As(msg.err, &serr) {
			m.setStatus("Download failed: "+serr.Message, statusError)
		} else {
			m.setStatus("Download failed: cannot reach the processing service.", statusError)
		}
		return m, nil
	}
	m.setStatus("Reports saved to "+msg.path, statusSuccess)
	return m, nil
}

// submitFailureMessage maps an error from the process request onto the
// user-facing notification for it.
func submitFailureMessage(err error, timeoutSeconds int) string {
	var serr *api.ServerError
	switch {
	case errors.As(err, &serr):
		return serr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Processing timed out after %ds. Press p to retry.", timeoutSeconds)
	default:
		return "Cannot connect to the processing service."
	}
}

// ---------------------------------------------------------------------------
// Key-input handlers
// ---------------------------------------------------------------------------

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		return m, nil
	case "1", "2", "3", "4", "5":
		m.activeTab = int(msg.String()[0] - '1')
		return m, nil
	case "o":
		m.showPicker = true
		m.pickerReady = false
		return m, scanFilesCmd(m.basePath)
	case "p":
		return m.startSubmit()
	case "d":
		return m.startDownload()
	case "r":
		m.setStatus("Checking service health...", statusInfo)
		return m, checkHealthCmd(m.client, m.cfg.Timeout())
	case "up", "k", "ctrl+p":
		if m.activeTab == tabTransactions && m.txnCursor > 0 {
			m.txnCursor--
			m.ensureCursorInWindow()
		}
		return m, nil
	case "down", "j", "ctrl+n":
		if m.activeTab == tabTransactions && m.txnCursor < m.shownTransactionCount()-1 {
			m.txnCursor++
			m.ensureCursorInWindow()
		}
		return m, nil
	}
	return m, nil
}

// startSubmit guards then kicks off the process request. At most one request
// is in flight; the timeout context is owned by the model so a later action
// can cancel a stale one.
func (m model) startSubmit() (tea.Model, tea.Cmd) {
	if m.phase == phasePending {
		m.setStatus("Processing is already in progress.", statusWarn)
		return m, nil
	}
	if len(m.selection) == 0 {
		m.setStatus("Please select statement files before processing.", statusError)
		return m, nil
	}
	if m.cancelSubmit != nil {
		m.cancelSubmit()
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout())
	m.cancelSubmit = cancel
	m.phase = phasePending
	m.setStatus(fmt.Sprintf("Processing %d file(s)...", len(m.selection)), statusInfo)
	return m, processCmd(ctx, m.client, m.selection)
}

func (m model) startDownload() (tea.Model, tea.Cmd) {
	if !m.canDownload() {
		m.setStatus("No report to download. Process statement files first.", statusError)
		return m, nil
	}
	m.setStatus("Downloading report archive...", statusInfo)
	return m, downloadCmd(m.client, m.current.Reports, m.cfg.Download.Dir, m.cfg.Timeout())
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}
	if !m.pickerReady {
		if msg.String() == "esc" {
			m.showPicker = false
		}
		return m, nil
	}

	result := m.picker.HandleKey(msg.String())
	switch result.Action {
	case pickerActionCancelled:
		m.showPicker = false
		return m, nil
	case pickerActionToggled:
		n := len(result.Chosen)
		if n > maxSelectedFiles {
			m.setStatus(fmt.Sprintf("Only the first %d files will be used.", maxSelectedFiles), statusWarn)
		} else {
			m.setStatus(fmt.Sprintf("%d file(s) marked.", n), statusInfo)
		}
		return m, nil
	case pickerActionConfirmed:
		m.showPicker = false
		m.selection = pickerSelection(result.Chosen)
		if len(m.selection) == 0 {
			m.setStatus("Selection cleared.", statusInfo)
		} else {
			m.setStatus(fmt.Sprintf("Selected %d file(s). Press p to process.", len(m.selection)), statusInfo)
		}
		return m, nil
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Transaction panel viewport
// ---------------------------------------------------------------------------

func (m model) shownTransactionCount() int {
	if m.current == nil {
		return 0
	}
	n := len(m.current.Reports.Transactions)
	if n > transactionDisplayCap {
		n = transactionDisplayCap
	}
	return n
}

func (m *model) visibleTxnRows() int {
	if m.height == 0 {
		return 10
	}
	// header + gap + section frame + table header + count line + status + footer
	available := m.height - 10
	if available < 3 {
		available = 3
	}
	if available > 20 {
		available = 20
	}
	return available
}

func (m *model) ensureCursorInWindow() {
	visible := m.visibleTxnRows()
	if visible <= 0 {
		return
	}
	if m.txnCursor < m.txnTop {
		m.txnTop = m.txnCursor
	} else if m.txnCursor >= m.txnTop+visible {
		m.txnTop = m.txnCursor - visible + 1
	}
	maxTop := m.shownTransactionCount() - visible
	if maxTop < 0 {
		maxTop = 0
	}
	if m.txnTop > maxTop {
		m.txnTop = maxTop
	}
	if m.txnTop < 0 {
		m.txnTop = 0
	}
}
