package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/arun19061/newstatement/internal/api"
	"github.com/arun19061/newstatement/internal/config"
	"github.com/arun19061/newstatement/internal/report"
)

// ---------------------------------------------------------------------------
// Flow test helpers
// ---------------------------------------------------------------------------

func flowKey(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func flowApplyMsg(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}
	return flowDrainCmd(t, got, cmd)
}

func flowPress(t *testing.T, m model, key string) model {
	t.Helper()
	return flowApplyMsg(t, m, flowKey(key))
}

func flowDrainCmd(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	for i := 0; cmd != nil && i < 32; i++ {
		msg := cmd()
		if msg == nil {
			return m
		}
		next, nextCmd := m.Update(msg)
		got, ok := next.(model)
		if !ok {
			t.Fatalf("command update returned %T, want model", next)
		}
		m = got
		cmd = nextCmd
	}
	if cmd != nil {
		t.Fatal("command chain exceeded max depth")
	}
	return m
}

func newTestModel(t *testing.T, serverURL string) model {
	t.Helper()
	cfg := config.Config{
		Server:   config.ServerConfig{URL: serverURL, TimeoutSeconds: 5},
		Download: config.DownloadConfig{Dir: t.TempDir()},
	}
	client := api.New(serverURL, zerolog.Nop())
	m := newModel(cfg, client, zerolog.Nop(), t.TempDir())
	m.width = 120
	m.height = 40
	return m
}

func writeStatement(t *testing.T, name, content string) SelectedFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return SelectedFile{Name: name, SizeBytes: int64(len(content)), Path: path}
}

func samplePayload(transactions int) report.Payload {
	txns := make([]report.Transaction, 0, transactions)
	for i := 0; i < transactions; i++ {
		amount := 100.0
		category := "salary"
		if i%2 == 1 {
			amount = -40.0
			category = "expense_groceries"
		}
		txns = append(txns, report.Transaction{
			Date:        fmt.Sprintf("2024-01-%02d", i%28+1),
			Description: fmt.Sprintf("entry %d", i),
			Amount:      amount,
			Category:    category,
		})
	}
	return report.Payload{
		Status: "success",
		ProcessedFiles: []report.FileStatus{
			{Filename: "jan.csv", Status: "success", TransactionsCount: transactions},
		},
		Summary: report.Summary{
			TotalTransactions: transactions,
			TotalIncome:       5000,
			TotalExpenses:     3000,
			NetIncome:         2000,
		},
		Reports: report.Reports{
			Transactions: txns,
			IncomeStatement: report.IncomeStatement{
				TotalIncome:   5000,
				TotalExpenses: 3000,
				NetIncome:     2000,
				Breakdown: map[string]float64{
					"salary":            5000,
					"expense_groceries": -1800,
					"expense_utilities": -1200,
				},
			},
			BalanceSheet: report.BalanceSheet{TotalAssets: 3500, TotalLiabilities: 900, TotalEquity: 2600},
			CashFlow:     report.CashFlow{OperatingActivities: 2000, InvestingActivities: 500, FinancingActivities: -300, NetCashFlow: 2200},
		},
	}
}

func payloadServer(t *testing.T, payload report.Payload) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/process":
			json.NewEncoder(w).Encode(payload)
		case "/download-reports":
			w.Header().Set("Content-Type", "application/zip")
			w.Write([]byte("PK\x03\x04archive"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// Selection cap
// ---------------------------------------------------------------------------

func TestCapSelection(t *testing.T) {
	files := make([]SelectedFile, 0, 7)
	for i := 0; i < 7; i++ {
		files = append(files, SelectedFile{Name: fmt.Sprintf("f%d.csv", i)})
	}

	capped := capSelection(files)
	if len(capped) != maxSelectedFiles {
		t.Fatalf("len = %d, want %d", len(capped), maxSelectedFiles)
	}
	for i, f := range capped {
		want := fmt.Sprintf("f%d.csv", i)
		if f.Name != want {
			t.Errorf("capped[%d] = %q, want %q (order must be preserved)", i, f.Name, want)
		}
	}

	short := capSelection(files[:3])
	if len(short) != 3 {
		t.Fatalf("short len = %d, want 3", len(short))
	}
	// returned slice must be independent of the input
	short[0].Name = "mutated"
	if files[0].Name == "mutated" {
		t.Error("capSelection aliases its input")
	}
}

// ---------------------------------------------------------------------------
// Submit lifecycle
// ---------------------------------------------------------------------------

func TestSubmitWithoutSelection(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1")

	m = flowPress(t, m, "p")

	if m.phase != phaseIdle {
		t.Errorf("phase = %v, want idle", m.phase)
	}
	if !strings.Contains(m.status, "select statement files") {
		t.Errorf("status = %q, want selection prompt", m.status)
	}
	if m.statusLevel != statusError {
		t.Errorf("statusLevel = %v, want error", m.statusLevel)
	}
}

func TestSubmitWhilePending(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1")
	m.selection = []SelectedFile{{Name: "jan.csv", Path: "/nonexistent"}}
	m.phase = phasePending

	next, cmd := m.Update(flowKey("p"))
	m = next.(model)

	if cmd != nil {
		t.Error("expected no command while a request is pending")
	}
	if !strings.Contains(m.status, "already in progress") {
		t.Errorf("status = %q", m.status)
	}
}

func TestSubmitSuccessEnablesDownload(t *testing.T) {
	srv := payloadServer(t, samplePayload(37))
	m := newTestModel(t, srv.URL)
	m.selection = []SelectedFile{writeStatement(t, "jan.csv", "date,description,amount\n2024-01-01,Pay,5000\n")}

	m = flowPress(t, m, "p")

	if m.phase != phaseSucceeded {
		t.Fatalf("phase = %v, want succeeded", m.phase)
	}
	if m.current == nil {
		t.Fatal("current payload not set")
	}
	if !strings.Contains(m.status, "Successfully processed 37 transactions") {
		t.Errorf("status = %q", m.status)
	}
	if !m.canDownload() {
		t.Error("download should be available after a successful submit")
	}

	m = flowPress(t, m, "d")
	if !strings.Contains(m.status, "Reports saved to") {
		t.Fatalf("status = %q", m.status)
	}
	entries, err := os.ReadDir(m.cfg.Download.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("download dir has %d entries, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "financial_reports_") || !strings.HasSuffix(name, ".zip") {
		t.Errorf("archive name = %q", name)
	}
}

func TestSubmitPartialSuccessListsSkippedFiles(t *testing.T) {
	payload := samplePayload(12)
	payload.ProcessedFiles = append(payload.ProcessedFiles, report.FileStatus{
		Filename: "broken.csv", Status: "error", Error: "no transactions found",
	})
	srv := payloadServer(t, payload)
	m := newTestModel(t, srv.URL)
	m.selection = []SelectedFile{writeStatement(t, "jan.csv", "x")}

	m = flowPress(t, m, "p")

	if !strings.Contains(m.status, "Skipped: broken.csv") {
		t.Errorf("status = %q, want skipped file listed", m.status)
	}
	if m.statusLevel != statusSuccess {
		t.Errorf("statusLevel = %v, want success", m.statusLevel)
	}
}

func TestSubmitRejectionKeepsPriorReport(t *testing.T) {
	reject := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if reject {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "unsupported file type"})
			return
		}
		json.NewEncoder(w).Encode(samplePayload(8))
	}))
	t.Cleanup(srv.Close)

	m := newTestModel(t, srv.URL)
	m.selection = []SelectedFile{writeStatement(t, "jan.csv", "x")}
	m = flowPress(t, m, "p")
	if m.phase != phaseSucceeded {
		t.Fatalf("setup submit failed: phase = %v", m.phase)
	}

	reject = true
	m.selection = []SelectedFile{writeStatement(t, "notes.txt", "not a statement")}
	m = flowPress(t, m, "p")

	if m.phase != phaseFailed {
		t.Errorf("phase = %v, want failed", m.phase)
	}
	if m.status != "unsupported file type" {
		t.Errorf("status = %q, want the server message verbatim", m.status)
	}
	if m.current == nil || m.current.Summary.TotalTransactions != 8 {
		t.Error("failed submit must not clear the prior report")
	}
	if !m.canDownload() {
		t.Error("download availability must survive a failed submit")
	}
}

func TestSubmitConnectionFailure(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1")
	m.selection = []SelectedFile{writeStatement(t, "jan.csv", "x")}

	m = flowPress(t, m, "p")

	if m.phase != phaseFailed {
		t.Errorf("phase = %v, want failed", m.phase)
	}
	if m.status != "Cannot connect to the processing service." {
		t.Errorf("status = %q", m.status)
	}
}

func TestDownloadGuardWithoutReport(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1")

	next, cmd := m.Update(flowKey("d"))
	m = next.(model)

	if cmd != nil {
		t.Error("expected no command without a report")
	}
	if !strings.Contains(m.status, "No report to download") {
		t.Errorf("status = %q", m.status)
	}
}

// ---------------------------------------------------------------------------
// Tab navigation
// ---------------------------------------------------------------------------

func TestTabNavigation(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1")

	m = flowPress(t, m, "tab")
	if m.activeTab != tabTransactions {
		t.Errorf("after tab: activeTab = %d", m.activeTab)
	}
	m = flowPress(t, m, "shift+tab")
	if m.activeTab != tabOverview {
		t.Errorf("after shift+tab: activeTab = %d", m.activeTab)
	}
	m = flowPress(t, m, "shift+tab")
	if m.activeTab != tabCashFlow {
		t.Errorf("shift+tab should wrap to the last tab, got %d", m.activeTab)
	}
	m = flowPress(t, m, "3")
	if m.activeTab != tabIncomeStatement {
		t.Errorf("after 3: activeTab = %d", m.activeTab)
	}
}

// ---------------------------------------------------------------------------
// Picker flow
// ---------------------------------------------------------------------------

func TestPickerConfirmCapsSelection(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1")
	m.showPicker = true

	files := make([]pickerFile, 0, 6)
	for i := 0; i < 6; i++ {
		files = append(files, pickerFile{ID: i, Name: fmt.Sprintf("f%d.csv", i), Size: 100})
	}
	m = flowApplyMsg(t, m, filesScannedMsg{files: files})
	if !m.pickerReady {
		t.Fatal("picker not ready after scan")
	}

	for i := 0; i < 6; i++ {
		m = flowPress(t, m, "space")
		m = flowPress(t, m, "j")
	}
	if !strings.Contains(m.status, "first 5") {
		t.Errorf("status = %q, want over-cap warning", m.status)
	}

	m = flowPress(t, m, "enter")
	if m.showPicker {
		t.Error("picker should close on confirm")
	}
	if len(m.selection) != maxSelectedFiles {
		t.Fatalf("selection len = %d, want %d", len(m.selection), maxSelectedFiles)
	}
	for i, f := range m.selection {
		want := fmt.Sprintf("f%d.csv", i)
		if f.Name != want {
			t.Errorf("selection[%d] = %q, want %q", i, f.Name, want)
		}
	}
}

func TestPickerEscapeKeepsSelection(t *testing.T) {
	m := newTestModel(t, "http://127.0.0.1:1")
	m.selection = []SelectedFile{{Name: "keep.csv"}}
	m.showPicker = true
	m = flowApplyMsg(t, m, filesScannedMsg{files: []pickerFile{{ID: 0, Name: "other.csv"}}})

	m = flowPress(t, m, "space")
	m = flowPress(t, m, "esc")

	if m.showPicker {
		t.Error("picker should close on escape")
	}
	if len(m.selection) != 1 || m.selection[0].Name != "keep.csv" {
		t.Errorf("selection = %v, want untouched", m.selection)
	}
}

// ---------------------------------------------------------------------------
// Failure message mapping
// ---------------------------------------------------------------------------

func TestSubmitFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server message verbatim",
			err:  &api.ServerError{Status: 400, Message: "unsupported file type"},
			want: "unsupported file type",
		},
		{
			name: "wrapped server error",
			err:  fmt.Errorf("process request: %w", &api.ServerError{Status: 422, Message: "no valid transactions found in any file"}),
			want: "no valid transactions found in any file",
		},
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("process request: %w", context.DeadlineExceeded),
			want: "Processing timed out after 30s. Press p to retry.",
		},
		{
			name: "connection refused",
			err:  fmt.Errorf("process request: dial tcp: connection refused"),
			want: "Cannot connect to the processing service.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := submitFailureMessage(tt.err, 30); got != tt.want {
				t.Errorf("submitFailureMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
