package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ---------------------------------------------------------------------------
// Styles — Catppuccin Mocha themed
// ---------------------------------------------------------------------------

var (
	// Section titles
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	// Header bar (spans full width)
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	// App name in header
	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	// Tab styles
	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	// Footer bar
	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	// Status bar (above footer)
	statusBarStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Padding(0, 2)

	// Section containers
	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	// Modal overlay
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	// Help key styling
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	// Table styles
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Bold(true)

	creditStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	debitStyle   = lipgloss.NewStyle().Foreground(colorError)
	neutralStyle = lipgloss.NewStyle().Foreground(colorText)

	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	valueStyle = lipgloss.NewStyle().Foreground(colorPeach)

	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	// Scroll indicator
	scrollStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	// Overview proportion bars
	incomeBarStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	expenseBarStyle = lipgloss.NewStyle().Foreground(colorError)
)

// amountStyle picks the credit/debit coloring for a signed amount.
func amountStyle(sign int) lipgloss.Style {
	switch {
	case sign > 0:
		return creditStyle
	case sign < 0:
		return debitStyle
	default:
		return neutralStyle
	}
}

func tierStyle(tier string) lipgloss.Style {
	switch tier {
	case "healthy":
		return lipgloss.NewStyle().Foreground(colorTierHealthy).Bold(true)
	case "caution":
		return lipgloss.NewStyle().Foreground(colorTierCaution).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorTierRisk).Bold(true)
	}
}

// ---------------------------------------------------------------------------
// Tab names
// ---------------------------------------------------------------------------

var tabNames = []string{"Overview", "Transactions", "Income Statement", "Balance Sheet", "Cash Flow"}

// ---------------------------------------------------------------------------
// Section & chrome rendering
// ---------------------------------------------------------------------------

func renderHeader(appName string, activeTab, width int) string {
	name := headerAppStyle.Render(appName)

	var tabs []string
	for i, tab := range tabNames {
		if i == activeTab {
			tabs = append(tabs, activeTabStyle.Render(tab))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab))
		}
	}
	tabBar := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))

	content := name + "  " + tabBar
	if width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(width).Render(content)
}

func (m model) renderSection(title, content string) string {
	contentWidth := m.sectionContentWidth()
	header := padRight(titleStyle.Render(title), contentWidth)
	sepStyle := lipgloss.NewStyle().Foreground(colorSurface2)
	separator := sepStyle.Render(strings.Repeat("─", contentWidth))
	section := listBoxStyle.Width(m.sectionWidth()).Render(header + "\n" + separator + "\n" + content)
	if m.width == 0 {
		return section
	}
	return lipgloss.Place(m.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

func (m model) renderFooter(bindings []key.Binding) string {
	// Every character carries the footer background to avoid color gaps.
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if m.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(m.width).Render(content)
}

func (m model) renderStatus() string {
	flat := strings.ReplaceAll(m.status, "\n", " ")
	var fg lipgloss.Color
	switch m.statusLevel {
	case statusSuccess:
		fg = colorSuccess
	case statusWarn:
		fg = colorWarning
	case statusError:
		fg = colorError
	default:
		fg = colorSubtext1
	}
	style := statusBarStyle.Foreground(fg)
	if m.width == 0 {
		return style.Render(flat)
	}
	return style.Width(m.width).Render(flat)
}

func (m model) placeWithFooter(body, statusLine, footer string) string {
	if m.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := m.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Ensure every line is full-width to prevent ghosting from previous frames
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, m.width)
	}
	main = strings.Join(lines, "\n")
	return main + "\n" + statusLine + "\n" + footer
}

// ---------------------------------------------------------------------------
// Layout helpers
// ---------------------------------------------------------------------------

func (m *model) sectionWidth() int {
	if m.width == 0 {
		return 80
	}
	width := m.width - 4
	if width < 20 {
		width = m.width
	}
	return width
}

func (m *model) sectionContentWidth() int {
	if m.width == 0 {
		return 80
	}
	frameH := listBoxStyle.GetHorizontalFrameSize()
	contentWidth := m.sectionWidth() - frameH
	if contentWidth < 1 {
		contentWidth = 1
	}
	return contentWidth
}

// ---------------------------------------------------------------------------
// Modal overlay
// ---------------------------------------------------------------------------

func (m model) composeModal(base, statusLine, footer string) string {
	baseView := m.placeWithFooter(base, statusLine, footer)
	if m.height == 0 || m.width == 0 {
		return baseView + "\n\n" + m.popupView()
	}
	modalContent := lipgloss.NewStyle().Width(min(60, m.width-10)).Render(m.popupView())
	modal := modalStyle.Render(modalContent)
	lines := splitLines(modal)
	modalWidth := maxLineWidth(lines)
	modalHeight := len(lines)

	targetHeight := m.height - 2
	if targetHeight < 1 {
		targetHeight = 1
	}
	x := (m.width - modalWidth) / 2
	if x < 0 {
		x = 0
	}
	y := (targetHeight - modalHeight) / 2
	if y < 0 {
		y = 0
	}
	return overlayAt(baseView, modal, x, y, m.width, targetHeight)
}

func (m model) popupView() string {
	if !m.pickerReady || m.picker == nil {
		return "Scanning files..."
	}
	p := m.picker

	var b strings.Builder
	b.WriteString(titleStyle.Render("Select statement files") + "\n")
	query := p.query
	if query == "" {
		query = labelStyle.Render("type to filter")
	}
	b.WriteString(labelStyle.Render("Filter: ") + query + "\n\n")

	if len(p.filtered) == 0 {
		b.WriteString(labelStyle.Render("No matching files."))
	}
	for i, f := range p.filtered {
		prefix := "  "
		if i == p.cursor {
			prefix = cursorStyle.Render("> ")
		}
		mark := "[ ] "
		if p.selected[f.ID] {
			mark = creditStyle.Render("[x] ")
		}
		line := prefix + mark + padRight(truncate(f.Name, 36), 36) + "  " + labelStyle.Render(pickerMeta(f))
		b.WriteString(line + "\n")
	}

	n := len(p.Chosen())
	countLine := fmt.Sprintf("%d marked", n)
	if n > maxSelectedFiles {
		countLine = fmt.Sprintf("%d marked — only the first %d will be used", n, maxSelectedFiles)
		b.WriteString("\n" + debitStyle.Render(countLine))
	} else {
		b.WriteString("\n" + labelStyle.Render(countLine))
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Panel rendering
// ---------------------------------------------------------------------------

func (m model) overviewTab() string {
	width := m.sectionContentWidth()

	sel := projectSelection(m.selection)
	var selLines []string
	if sel.Placeholder != "" {
		selLines = append(selLines, labelStyle.Render(sel.Placeholder))
	} else {
		for _, row := range sel.Rows {
			selLines = append(selLines, "  "+padRight(truncate(row.Name, width-18), width-18)+" "+labelStyle.Render(row.Size))
		}
	}
	selSection := m.renderSection(fmt.Sprintf("Selected Files (%d/%d)", len(m.selection), maxSelectedFiles), strings.Join(selLines, "\n"))

	v := projectOverview(m.current)
	if v.Placeholder != "" {
		return selSection + "\n" + m.renderSection("Financial Summary", labelStyle.Render(v.Placeholder))
	}

	lines := []string{
		summaryLine("Total Income", v.TotalIncome, 1),
		summaryLine("Total Expenses", v.TotalExpenses, -1),
		summaryLine("Net Income", v.NetIncome, v.NetSign),
		labelStyle.Render(fmt.Sprintf("%-16s", "Transactions")) + " " + valueStyle.Render(fmt.Sprintf("%12d", v.Transactions)),
		"",
		labelStyle.Render(fmt.Sprintf("%-16s", "Savings Rate")) + " " + tierStyle(v.SavingsTier).Render(fmt.Sprintf("%12s", v.SavingsLabel)) + "  " + tierStyle(v.SavingsTier).Render(v.SavingsTier),
		"",
		renderShareBar("Income", v.IncomeShare, width, incomeBarStyle),
		renderShareBar("Expenses", v.ExpenseShare, width, expenseBarStyle),
		"",
	}
	for _, r := range v.Ratios {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-16s", r.Label))+" "+valueStyle.Render(fmt.Sprintf("%12s", r.Value)))
	}
	return selSection + "\n" + m.renderSection("Financial Summary", strings.Join(lines, "\n"))
}

func summaryLine(label, amount string, sign int) string {
	return labelStyle.Render(fmt.Sprintf("%-16s", label)) + " " + amountStyle(sign).Render(fmt.Sprintf("%12s", amount))
}

// renderShareBar draws a proportional bar for one side of the income/expense
// split. share is a fraction of income+expenses.
func renderShareBar(label string, share float64, width int, style lipgloss.Style) string {
	barWidth := width - 24
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(share*float64(barWidth) + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := style.Render(strings.Repeat("█", filled)) + scrollStyle.Render(strings.Repeat("░", barWidth-filled))
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + " " + bar + " " + labelStyle.Render(fmt.Sprintf("%5.1f%%", share*100))
}

func (m model) transactionsTab() string {
	v := projectTransactions(m.current)
	if v.Placeholder != "" {
		return m.renderSection("Transactions", labelStyle.Render(v.Placeholder))
	}
	width := m.sectionContentWidth()

	dateWidth := 12
	amountWidth := 12
	catWidth := 16
	descWidth := width - dateWidth - amountWidth - catWidth - 10
	if descWidth < 5 {
		descWidth = 5
	}

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %-*s", dateWidth, "Date", amountWidth, "Amount", catWidth, "Category", descWidth, "Description")
	lines := []string{tableHeaderStyle.Render(header)}

	visible := m.visibleTxnRows()
	end := m.txnTop + visible
	if end > len(v.Rows) {
		end = len(v.Rows)
	}
	for i := m.txnTop; i < end; i++ {
		row := v.Rows[i]
		prefix := "  "
		if i == m.txnCursor {
			prefix = cursorStyle.Render("> ")
		}
		amountField := amountStyle(row.Sign).Render(padRight(row.Amount, amountWidth))
		lines = append(lines,
			prefix+padRight(row.Date, dateWidth)+"  "+amountField+"  "+
				padRight(truncate(row.Category, catWidth), catWidth)+"  "+
				padRight(truncate(row.Description, descWidth), descWidth))
	}

	lines = append(lines, scrollStyle.Render(fmt.Sprintf("── showing %d of %d transactions ──", v.Shown, v.Total)))
	return m.renderSection("Transactions", strings.Join(lines, "\n"))
}

func (m model) incomeStatementTab() string {
	v := projectIncomeStatement(m.current)
	if v.Placeholder != "" {
		return m.renderSection("Income Statement", labelStyle.Render(v.Placeholder))
	}
	width := m.sectionContentWidth()
	nameWidth := width - 16
	if nameWidth < 10 {
		nameWidth = 10
	}

	var lines []string
	lines = append(lines, tableHeaderStyle.Render("Income"))
	if len(v.Income) == 0 {
		lines = append(lines, labelStyle.Render("  (none)"))
	}
	for _, row := range v.Income {
		lines = append(lines, "  "+padRight(truncate(row.Name, nameWidth-2), nameWidth-2)+amountStyle(row.Sign).Render(fmt.Sprintf("%14s", row.Amount)))
	}
	lines = append(lines, padRight(labelStyle.Render("  Total Income"), nameWidth)+creditStyle.Render(fmt.Sprintf("%14s", v.TotalIncome)))

	lines = append(lines, "", tableHeaderStyle.Render("Expenses"))
	if len(v.Expenses) == 0 {
		lines = append(lines, labelStyle.Render("  (none)"))
	}
	for _, row := range v.Expenses {
		lines = append(lines, "  "+padRight(truncate(row.Name, nameWidth-2), nameWidth-2)+amountStyle(row.Sign).Render(fmt.Sprintf("%14s", row.Amount)))
	}
	lines = append(lines, padRight(labelStyle.Render("  Total Expenses"), nameWidth)+debitStyle.Render(fmt.Sprintf("%14s", v.TotalExpenses)))

	lines = append(lines, "", padRight(titleStyle.Render("Net Income"), nameWidth)+amountStyle(v.NetSign).Render(fmt.Sprintf("%14s", v.NetIncome)))
	return m.renderSection("Income Statement", strings.Join(lines, "\n"))
}

func (m model) balanceSheetTab() string {
	v := projectBalanceSheet(m.current)
	if v.Placeholder != "" {
		return m.renderSection("Balance Sheet", labelStyle.Render(v.Placeholder))
	}
	lines := []string{
		summaryLine("Assets", v.Assets, 1),
		summaryLine("Liabilities", v.Liabilities, -1),
		summaryLine("Equity", v.Equity, 0),
		"",
		labelStyle.Render(fmt.Sprintf("%-16s", "Total")) + " " + valueStyle.Render(fmt.Sprintf("%12s", v.Total)),
	}
	return m.renderSection("Balance Sheet", strings.Join(lines, "\n"))
}

func (m model) cashFlowTab() string {
	v := projectCashFlow(m.current)
	if v.Placeholder != "" {
		return m.renderSection("Cash Flow", labelStyle.Render(v.Placeholder))
	}
	var lines []string
	for _, line := range v.Lines {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-22s", line.Label))+" "+amountStyle(line.Sign).Render(fmt.Sprintf("%12s", line.Amount)))
	}
	lines = append(lines, "", titleStyle.Render(fmt.Sprintf("%-22s", v.Net.Label))+" "+amountStyle(v.Net.Sign).Render(fmt.Sprintf("%12s", v.Net.Amount)))
	return m.renderSection("Cash Flow", strings.Join(lines, "\n"))
}

// ---------------------------------------------------------------------------
// Overlay compositing & string utilities
// ---------------------------------------------------------------------------

// overlayAt composites an overlay string on top of a base string at the given
// character position (x, y). Both are treated as line-based grids.
func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitLines(base)
	overlayLines := splitLines(overlay)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		leftWidth := ansi.StringWidth(left)
		if leftWidth < x {
			left += strings.Repeat(" ", x-leftWidth)
		}

		overlayLine := padRight(line, overlayWidth)
		pos := x + ansi.StringWidth(overlayLine)
		right := ""
		if width > 0 {
			right = ansi.TruncateLeft(target, pos, "")
			rightWidth := ansi.StringWidth(right)
			gap := width - pos - rightWidth
			if gap > 0 {
				right = strings.Repeat(" ", gap) + right
			}
		}

		baseLines[row] = left + overlayLine + right
	}
	return strings.Join(baseLines, "\n")
}

// splitLines splits a string on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// maxLineWidth returns the visual width of the widest line.
func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to width cells, appending an ellipsis if truncated.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
