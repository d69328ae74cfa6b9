// Package tui implements the terminal dashboard: a Bubble Tea state machine
// that owns the selected statement files and the most recent report payload,
// drives the submit/health/download request lifecycle, and projects the
// current state into five tabbed panels.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/arun19061/newstatement/internal/api"
	"github.com/arun19061/newstatement/internal/config"
	"github.com/arun19061/newstatement/internal/report"
)

const appName = "Newstatement"

// Tab indices
const (
	tabOverview = iota
	tabTransactions
	tabIncomeStatement
	tabBalanceSheet
	tabCashFlow
	tabCount
)

// maxSelectedFiles bounds the selection; extras are dropped silently.
const maxSelectedFiles = 5

// transactionDisplayCap bounds the transaction panel regardless of payload size.
const transactionDisplayCap = 50

// SelectedFile is one user-chosen statement file.
type SelectedFile struct {
	Name      string
	SizeBytes int64
	Path      string
}

// capSelection replaces the whole selection with the first maxSelectedFiles
// entries, order preserved.
func capSelection(files []SelectedFile) []SelectedFile {
	if len(files) <= maxSelectedFiles {
		return append([]SelectedFile(nil), files...)
	}
	return append([]SelectedFile(nil), files[:maxSelectedFiles]...)
}

// ---------------------------------------------------------------------------
// Request lifecycle state
// ---------------------------------------------------------------------------

type requestPhase int

const (
	phaseIdle requestPhase = iota
	phasePending
	phaseSucceeded
	phaseFailed
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusWarn
	statusError
)

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type healthCheckedMsg struct {
	err error
}

type filesScannedMsg struct {
	files []pickerFile
	err   error
}

type processDoneMsg struct {
	payload *report.Payload
	err     error
}

type downloadDoneMsg struct {
	path string
	err  error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	cfg    config.Config
	client *api.Client
	log    zerolog.Logger

	keys       keyMap
	pickerKeys pickerKeyMap

	activeTab int
	width     int
	height    int

	status      string
	statusLevel statusLevel

	// selection store
	selection []SelectedFile

	// request lifecycle; current survives later failures so the download
	// stays available until a newer success replaces it
	phase        requestPhase
	current      *report.Payload
	failMsg      string
	cancelSubmit context.CancelFunc

	// file picker modal
	showPicker  bool
	pickerReady bool
	picker      *filePicker
	basePath    string

	// transaction panel viewport
	txnCursor int
	txnTop    int
}

func newModel(cfg config.Config, client *api.Client, log zerolog.Logger, basePath string) model {
	return model{
		cfg:        cfg,
		client:     client,
		log:        log,
		keys:       newKeyMap(),
		pickerKeys: pickerKeyMap{keyMap: newKeyMap()},
		activeTab:  tabOverview,
		basePath:   basePath,
		status:     "Press o to select statement files, p to process.",
	}
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

// canDownload reports whether a report archive can be requested. Availability
// is sticky: it survives failed submissions and resets only when a newer
// successful payload replaces the current one.
func (m model) canDownload() bool {
	return m.current != nil
}

func (m model) Init() tea.Cmd {
	return checkHealthCmd(m.client, m.cfg.Timeout())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case healthCheckedMsg:
		return m.handleHealthChecked(msg)
	case filesScannedMsg:
		return m.handleFilesScanned(msg)
	case processDoneMsg:
		return m.handleProcessDone(msg)
	case downloadDoneMsg:
		return m.handleDownloadDone(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInWindow()
		return m, nil
	case tea.KeyMsg:
		if m.showPicker {
			return m.updatePicker(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m model) View() string {
	header := renderHeader(appName, m.activeTab, m.width)
	statusLine := m.renderStatus()
	footer := m.renderFooter(m.footerBindings())

	var body string
	switch m.activeTab {
	case tabOverview:
		body = m.overviewTab()
	case tabTransactions:
		body = m.transactionsTab()
	case tabIncomeStatement:
		body = m.incomeStatementTab()
	case tabBalanceSheet:
		body = m.balanceSheetTab()
	case tabCashFlow:
		body = m.cashFlowTab()
	default:
		body = m.overviewTab()
	}

	main := header + "\n\n" + body

	if m.showPicker {
		return m.composeModal(main, statusLine, footer)
	}
	return m.placeWithFooter(main, statusLine, footer)
}

func (m model) footerBindings() []key.Binding {
	if m.showPicker {
		return m.pickerKeys.ShortHelp()
	}
	return m.keys.ShortHelp()
}
