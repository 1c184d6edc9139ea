package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
)

var severityColors = map[m.Severity]lipgloss.Color{
	m.SeverityCritical: lipgloss.Color("9"),
	m.SeverityHigh:     lipgloss.Color("208"),
	m.SeverityMedium:   lipgloss.Color("11"),
	m.SeverityLow:      lipgloss.Color("14"),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	detailStyle = lipgloss.NewStyle().PaddingLeft(2)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// issueItem adapts one finding to the list widget.
type issueItem struct {
	analyzer string
	issue    m.Issue
}

func (i issueItem) FilterValue() string {
	return string(i.issue.Path) + " " + i.issue.Code + " " + i.issue.Message
}

type issueDelegate struct{}

func (d issueDelegate) Height() int                             { return 1 }
func (d issueDelegate) Spacing() int                            { return 0 }
func (d issueDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d issueDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	entry, ok := item.(issueItem)
	if !ok {
		return
	}

	grade := strings.ToUpper(string(entry.issue.Severity))
	gradeStyle := lipgloss.NewStyle().
		Bold(true).
		Width(10).
		Foreground(severityColors[entry.issue.Severity])

	line := fmt.Sprintf("%s %s %s:%d  %s",
		gradeStyle.Render("["+grade+"]"),
		entry.issue.Code, entry.issue.Path, entry.issue.Line, entry.issue.Message)

	if index == l.Index() {
		line = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Render(line)
	}

	_, _ = fmt.Fprint(w, line)
}

// browserModel is the Bubble Tea model behind the issue browser: a
// filterable list with a detail pane for the selected finding.
type browserModel struct {
	list     list.Model
	items    []issueItem
	detail   bool
	height   int
	width    int
	quitting bool
}

func newBrowserModel(report m.Report) browserModel {
	var items []issueItem

	for _, result := range report.Results {
		for _, issue := range result.Issues {
			items = append(items, issueItem{analyzer: result.Analyzer.ID, issue: issue})
		}
	}

	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	l := list.New(listItems, issueDelegate{}, 0, 0)
	l.Title = fmt.Sprintf("%d finding(s)", len(items))
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle

	return browserModel{list: l, items: items}
}

func (bm browserModel) Init() tea.Cmd {
	return nil
}

func (bm browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		bm.width = msg.Width
		bm.height = msg.Height
		bm.list.SetSize(msg.Width, msg.Height-2)

		return bm, nil

	case tea.KeyMsg:
		// Filtering owns the keyboard while active.
		if bm.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			bm.quitting = true
			return bm, tea.Quit

		case "enter":
			bm.detail = !bm.detail
			return bm, nil

		case "esc":
			if bm.detail {
				bm.detail = false
				return bm, nil
			}
		}
	}

	var cmd tea.Cmd
	bm.list, cmd = bm.list.Update(msg)

	return bm, cmd
}

func (bm browserModel) View() string {
	if bm.quitting {
		return ""
	}

	if bm.detail {
		return bm.detailView()
	}

	return bm.list.View() + "\n" + helpStyle.Render("enter detail · / filter · q quit")
}

func (bm browserModel) detailView() string {
	entry, ok := bm.list.SelectedItem().(issueItem)
	if !ok {
		return bm.list.View()
	}

	issue := entry.issue

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s / %s", issue.Code, entry.analyzer)) + "\n\n")
	b.WriteString(detailStyle.Render(fmt.Sprintf("severity: %s", issue.Severity)) + "\n")
	b.WriteString(detailStyle.Render(fmt.Sprintf("location: %s:%d", issue.Path, issue.Line)) + "\n\n")
	b.WriteString(detailStyle.Render(issue.Message) + "\n")

	if issue.Snippet != "" {
		b.WriteString("\n" + detailStyle.Render("> "+issue.Snippet) + "\n")
	}

	if issue.Recommendation != "" {
		b.WriteString("\n" + detailStyle.Render("fix: "+issue.Recommendation) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("esc back · q quit"))

	return b.String()
}

// needsPagination returns true if the list is too large to fit on screen.
func (bm browserModel) needsPagination() bool {
	if bm.height == 0 {
		return false
	}

	return len(bm.items)+4 > bm.height
}
