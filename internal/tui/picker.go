package tui

import (
	"sort"
	"strings"

	"github.com/arun19061/newstatement/internal/report"
)

// ---------------------------------------------------------------------------
// File picker: a multi-select list over the working directory. The picker
// performs no type or size validation; the service decides what it accepts.
// ---------------------------------------------------------------------------

type pickerFile struct {
	ID   int
	Name string
	Size int64
	Path string
}

type pickerAction int

const (
	pickerActionNone pickerAction = iota
	pickerActionMoved
	pickerActionToggled
	pickerActionConfirmed
	pickerActionCancelled
)

type pickerResult struct {
	Action pickerAction
	Chosen []pickerFile
}

type filePicker struct {
	files    []pickerFile
	filtered []pickerFile
	query    string
	cursor   int
	selected map[int]bool
}

func newFilePicker(files []pickerFile) *filePicker {
	p := &filePicker{selected: make(map[int]bool)}
	p.SetFiles(files)
	return p
}

func (p *filePicker) SetFiles(files []pickerFile) {
	if p == nil {
		return
	}
	p.files = append([]pickerFile(nil), files...)
	p.rebuildFiltered()
}

func (p *filePicker) SetQuery(q string) {
	if p == nil {
		return
	}
	p.query = q
	p.rebuildFiltered()
}

func (p *filePicker) CursorUp() {
	if p != nil && p.cursor > 0 {
		p.cursor--
	}
}

func (p *filePicker) CursorDown() {
	if p == nil {
		return
	}
	if p.cursor < len(p.filtered)-1 {
		p.cursor++
	}
}

func (p *filePicker) Toggle() {
	if p == nil || p.cursor < 0 || p.cursor >= len(p.filtered) {
		return
	}
	id := p.filtered[p.cursor].ID
	if p.selected[id] {
		delete(p.selected, id)
	} else {
		p.selected[id] = true
	}
}

// Chosen returns the selected files in directory listing order.
func (p *filePicker) Chosen() []pickerFile {
	if p == nil || len(p.selected) == 0 {
		return nil
	}
	ids := make([]int, 0, len(p.selected))
	for id := range p.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]pickerFile, 0, len(ids))
	for _, id := range ids {
		for i := range p.files {
			if p.files[i].ID == id {
				out = append(out, p.files[i])
				break
			}
		}
	}
	return out
}

func (p *filePicker) HandleKey(keyName string) pickerResult {
	if p == nil {
		return pickerResult{Action: pickerActionNone}
	}
	switch keyName {
	case "k", "up":
		before := p.cursor
		p.CursorUp()
		if p.cursor != before {
			return pickerResult{Action: pickerActionMoved}
		}
		return pickerResult{Action: pickerActionNone}
	case "j", "down":
		before := p.cursor
		p.CursorDown()
		if p.cursor != before {
			return pickerResult{Action: pickerActionMoved}
		}
		return pickerResult{Action: pickerActionNone}
	case "space", " ":
		if p.cursor < 0 || p.cursor >= len(p.filtered) {
			return pickerResult{Action: pickerActionNone}
		}
		p.Toggle()
		return pickerResult{Action: pickerActionToggled, Chosen: p.Chosen()}
	case "enter":
		return pickerResult{Action: pickerActionConfirmed, Chosen: p.Chosen()}
	case "esc":
		return pickerResult{Action: pickerActionCancelled}
	case "backspace":
		if len(p.query) > 0 {
			p.SetQuery(p.query[:len(p.query)-1])
		}
		return pickerResult{Action: pickerActionNone}
	default:
		if isPrintableASCIIKey(keyName) {
			p.SetQuery(p.query + keyName)
		}
		return pickerResult{Action: pickerActionNone}
	}
}

func (p *filePicker) rebuildFiltered() {
	if p == nil {
		return
	}
	q := strings.TrimSpace(p.query)
	out := make([]pickerFile, 0, len(p.files))
	for _, f := range p.files {
		if matched, _ := fuzzyMatchScore(f.Name, q); matched {
			out = append(out, f)
		}
	}
	p.filtered = out
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// fuzzyMatchScore matches query as a case-insensitive subsequence of label,
// scoring prefix and adjacency bonuses.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		ch := queryLower[i]
		found := false
		for j := searchFrom; j < len(labelLower); j++ {
			if labelLower[j] == ch {
				matchIdx = append(matchIdx, j)
				searchFrom = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(queryLower)
	if len(matchIdx) > 0 && matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	return true, score
}

func isPrintableASCIIKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}

// pickerSelection converts confirmed picker files into the selection store
// representation, applying the five-file cap.
func pickerSelection(chosen []pickerFile) []SelectedFile {
	files := make([]SelectedFile, 0, len(chosen))
	for _, f := range chosen {
		files = append(files, SelectedFile{Name: f.Name, SizeBytes: f.Size, Path: f.Path})
	}
	return capSelection(files)
}

// pickerMeta is the secondary column shown next to each file name.
func pickerMeta(f pickerFile) string {
	return report.FormatFileSize(f.Size)
}
