package tui

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arun19061/newstatement/internal/api"
	"github.com/arun19061/newstatement/internal/report"
)

// ---------------------------------------------------------------------------
// Async commands. Each runs off the event loop and reports back with a
// message; all state transitions happen in Update.
// ---------------------------------------------------------------------------

// checkHealthCmd probes the service once at startup. Failures surface as a
// warning and never block later operations.
func checkHealthCmd(client *api.Client, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return healthCheckedMsg{err: client.Health(ctx)}
	}
}

// processCmd submits the selection under the caller-owned context. The model
// retains the CancelFunc so a newer user action can supersede a stale
// request.
func processCmd(ctx context.Context, client *api.Client, selection []SelectedFile) tea.Cmd {
	files := make([]api.UploadFile, 0, len(selection))
	for _, f := range selection {
		files = append(files, api.UploadFile{Name: f.Name, Path: f.Path})
	}
	return func() tea.Msg {
		payload, err := client.Process(ctx, files)
		return processDoneMsg{payload: payload, err: err}
	}
}

// downloadCmd fetches the report archive and saves it into dir, named with
// the current date.
func downloadCmd(client *api.Client, reports report.Reports, dir string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		data, err := client.DownloadReports(ctx, reports)
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		path := filepath.Join(dir, api.ArchiveName(time.Now()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return downloadDoneMsg{err: err}
		}
		return downloadDoneMsg{path: path}
	}
}

// scanFilesCmd lists regular files under basePath for the picker, sorted by
// name. No type filtering: the service decides what it accepts.
func scanFilesCmd(basePath string) tea.Cmd {
	return func() tea.Msg {
		entries, err := os.ReadDir(basePath)
		if err != nil {
			return filesScannedMsg{err: err}
		}
		var files []pickerFile
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, pickerFile{
				Name: entry.Name(),
				Size: info.Size(),
				Path: filepath.Join(basePath, entry.Name()),
			})
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		for i := range files {
			files[i].ID = i
		}
		return filesScannedMsg{files: files}
	}
}
