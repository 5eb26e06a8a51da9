package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dupx/internal/allowlist"
	"github.com/desertthunder/dupx/internal/formatter"
	"github.com/desertthunder/dupx/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GroupListView ViewState = iota
	GroupDetailView
	ConfirmSaveView
	SavedView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	reportPath string
	allowPath  string

	report *models.Report
	groups []models.DuplicateGroup
	allow  *allowlist.File
	marked map[int]bool

	width  int
	height int

	groupList  list.Model
	memberList list.Model
	selected   int

	savedCount int
	err        error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model reviewing the report and allowlist at the given paths.
func NewModel(ctx context.Context, reportPath, allowPath string) *Model {
	return &Model{
		ctx:        ctx,
		view:       GroupListView,
		reportPath: reportPath,
		allowPath:  allowPath,
		marked:     map[int]bool{},
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init initializes the TUI by loading the report and allowlist from disk.
func (m *Model) Init() tea.Cmd {
	return m.loadReport()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.groupList.Width() == 0 {
			m.groupList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.memberList.Width() == 0 {
			m.memberList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case GroupListView:
			return m.handleGroupListKeys(msg)
		case GroupDetailView:
			return m.handleGroupDetailKeys(msg)
		case ConfirmSaveView:
			return m.handleConfirmKeys(msg)
		case SavedView:
			return m.handleSavedKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgReportLoaded:
			payload := msg.data.(reportLoadedPayload)
			if payload.err != nil {
				m.err = payload.err
				return m, tea.Quit
			}
			m.report = payload.report
			m.allow = payload.allow
			m.groups = payload.report.Groups()
			items := make([]list.Item, len(m.groups))
			for i, group := range m.groups {
				m.marked[i] = payload.allow.Contains(group.Kind, group.TrackIDs())
				items[i] = groupItem{index: i, group: group, marked: m.marked[i]}
			}
			m.groupList = list.New(items, list.NewDefaultDelegate(), 0, 0)
			m.groupList.Title = fmt.Sprintf("Duplicate Groups in %s", m.report.LibraryPath)
			m.groupList.SetFilteringEnabled(false)
			m.groupList.SetSize(m.width-4, m.height-8)
			return m, nil

		case MsgAllowlistSaved:
			payload := msg.data.(allowlistSavedPayload)
			if payload.err != nil {
				m.err = payload.err
				return m, nil
			}
			m.allow = payload.file
			m.savedCount = payload.count
			m.view = SavedView
			return m, nil
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != SavedView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case GroupListView:
		return m.renderGroupList()
	case GroupDetailView:
		return m.renderGroupDetail()
	case ConfirmSaveView:
		return m.renderConfirm()
	case SavedView:
		return m.renderSaved()
	default:
		return ""
	}
}

func (m *Model) handleGroupListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.toggleSelected()
		return m, nil
	case "s":
		if len(m.groups) > 0 {
			m.view = ConfirmSaveView
		}
		return m, nil
	case "enter":
		selected := m.groupList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(groupItem); ok {
				m.openGroup(item.index)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.groupList, cmd = m.groupList.Update(msg)
	return m, cmd
}

func (m *Model) handleGroupDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = GroupListView
		return m, nil
	case " ":
		m.toggleMark(m.selected)
		return m, nil
	}

	var cmd tea.Cmd
	m.memberList, cmd = m.memberList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = GroupListView
		return m, nil
	case "y":
		return m, m.saveAllowlist()
	}
	return m, nil
}

func (m *Model) handleSavedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = GroupListView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case GroupListView:
		m.groupList, cmd = m.groupList.Update(msg)
	case GroupDetailView:
		m.memberList, cmd = m.memberList.Update(msg)
	}
	return m, cmd
}

// openGroup switches to the detail view for the group at index.
func (m *Model) openGroup(index int) {
	if index < 0 || index >= len(m.groups) {
		return
	}

	m.selected = index
	group := m.groups[index]

	items := make([]list.Item, len(group.Tracks))
	for i, track := range group.Tracks {
		items[i] = memberItem{track: track}
	}
	m.memberList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.memberList.Title = fmt.Sprintf("[%s] %s", group.Kind, group.Key)
	m.memberList.SetFilteringEnabled(false)
	m.memberList.SetSize(m.width-4, m.height-8)
	m.view = GroupDetailView
}

// toggleSelected flips the allowlist mark on the group under the cursor.
func (m *Model) toggleSelected() {
	selected := m.groupList.SelectedItem()
	if selected == nil {
		return
	}
	if item, ok := selected.(groupItem); ok {
		m.toggleMark(item.index)
	}
}

// toggleMark flips the mark for group index and refreshes its list row.
// Filtering is disabled, so list positions equal group indexes.
func (m *Model) toggleMark(index int) {
	if index < 0 || index >= len(m.groups) {
		return
	}

	m.marked[index] = !m.marked[index]
	m.groupList.SetItem(index, groupItem{index: index, group: m.groups[index], marked: m.marked[index]})
}

// markedCount returns the number of groups currently marked as intentional.
func (m *Model) markedCount() int {
	count := 0
	for _, marked := range m.marked {
		if marked {
			count++
		}
	}
	return count
}

// buildAllowlist merges the current marks with entries from other scans.
//
// Entries matching a displayed group are rebuilt from the marks; entries that
// match nothing on screen (older scans, other libraries) pass through.
func (m *Model) buildAllowlist() *allowlist.File {
	displayed := &allowlist.File{}
	out := &allowlist.File{}

	for i, group := range m.groups {
		displayed.Add(group.Kind, group.TrackIDs())
		if m.marked[i] {
			out.Add(group.Kind, group.TrackIDs())
		}
	}

	for _, entry := range m.allow.Entries {
		if !displayed.Contains(entry.Kind, entry.TrackIDs) {
			out.Add(entry.Kind, entry.TrackIDs)
		}
	}

	return out
}

func (m *Model) loadReport() tea.Cmd {
	return func() tea.Msg {
		report, err := formatter.ReadReport(m.reportPath)
		if err != nil {
			return reportLoadedMsg(nil, nil, err)
		}

		allow, err := allowlist.Load(m.allowPath)
		if err != nil {
			return reportLoadedMsg(report, nil, err)
		}

		return reportLoadedMsg(report, allow, nil)
	}
}

func (m *Model) saveAllowlist() tea.Cmd {
	file := m.buildAllowlist()
	path := m.allowPath
	count := file.Len()

	return func() tea.Msg {
		err := allowlist.Save(path, file)
		return allowlistSavedMsg(file, count, err)
	}
}

func (m *Model) renderGroupList() string {
	if m.report == nil {
		return fmt.Sprintf("%s\n\n%s",
			styles.title.Render("Loading report..."),
			m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	}

	if len(m.groups) == 0 {
		return fmt.Sprintf("%s\n\n%s\n\n%s",
			styles.title.Render("Review Duplicates"),
			styles.ok.Render("No duplicate groups to review."),
			m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	}

	status := styles.help.Render(fmt.Sprintf("%d of %d groups marked intentional", m.markedCount(), len(m.groups)))
	helpKeys := []key.Binding{m.keys.enter, m.keys.mark, m.keys.save, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.groupList.View(), status, helpView)
}

func (m *Model) renderGroupDetail() string {
	var status string
	if m.marked[m.selected] {
		status = styles.ok.Render("Marked intentional: evaluation will skip this group")
	} else {
		status = styles.warn.Render("Unmarked: evaluation will pick a keeper in this group")
	}

	helpKeys := []key.Binding{m.keys.mark, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.memberList.View(), status, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Save allowlist?")
	info := fmt.Sprintf("\nGroups marked intentional: %d\nWriting to: %s\n", m.markedCount(), m.allowPath)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSaved() string {
	title := styles.ok.Render("✓ Allowlist saved")
	info := fmt.Sprintf("\n%d entries written to %s\n", m.savedCount, m.allowPath)

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
