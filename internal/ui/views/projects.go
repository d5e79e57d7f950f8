package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jspence/taskdeck/internal/managers"
	"github.com/jspence/taskdeck/internal/models"
	"github.com/jspence/taskdeck/internal/ui/keys"
	"github.com/jspence/taskdeck/internal/ui/styles"
)

// RefreshMsg tells a view to re-derive its list from the document.
type RefreshMsg struct{}

// Refresh returns a command that refreshes all views.
func Refresh() tea.Cmd {
	return func() tea.Msg { return RefreshMsg{} }
}

// statusFilters is the cycle order for the project status filter.
var statusFilters = []string{managers.FilterAll, "active", "on-hold", "completed"}

type projectItem struct {
	project models.Project
	status  string
}

func (i projectItem) Title() string       { return i.project.Name }
func (i projectItem) Description() string { return i.project.Description }
func (i projectItem) FilterValue() string { return i.project.Name + " " + i.project.Description }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	badge := projectStatusBadge(d.styles, p.project.Status)
	title := titleStyle.Render(p.project.Name + "  " + badge)

	detail := p.project.Description
	if p.project.Deadline != "" {
		detail = "due " + p.project.Deadline + "  " + detail
	}
	desc := descStyle.Render(detail)

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func projectStatusBadge(s *styles.Styles, status models.ProjectStatus) string {
	switch status {
	case models.ProjectCompleted:
		return s.BadgeSuccess.Render("completed")
	case models.ProjectOnHold:
		return s.BadgeWarning.Render("on-hold")
	default:
		return s.BadgeInfo.Render("active")
	}
}

// ProjectListView shows all projects with filtering and CRUD forms
type ProjectListView struct {
	projects *managers.ProjectManager
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	statusFilter int // index into statusFilters

	creating bool
	editing  bool
	editID   string
	formErr  string

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	formName     textinput.Model
	formDesc     textinput.Model
	formDeadline textinput.Model
	formStatus   int // index into project statuses
	focusIdx     int // 0=name, 1=desc, 2=status, 3=deadline, 4=confirm
}

var projectStatuses = []models.ProjectStatus{
	models.ProjectActive,
	models.ProjectOnHold,
	models.ProjectCompleted,
}

// NewProjectListView creates the projects view.
func NewProjectListView(pm *managers.ProjectManager) *ProjectListView {
	s := styles.NewStyles()

	formName := textinput.New()
	formName.Placeholder = "Project name"
	formName.CharLimit = 100

	formDesc := textinput.New()
	formDesc.Placeholder = "Description (optional)"
	formDesc.CharLimit = 200

	formDeadline := textinput.New()
	formDeadline.Placeholder = "YYYY-MM-DD (optional)"
	formDeadline.CharLimit = 10

	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		projects:     pm,
		list:         l,
		delegate:     delegate,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		formName:     formName,
		formDesc:     formDesc,
		formDeadline: formDeadline,
	}
}

// SelectedProject signals that a project was opened.
type SelectedProject struct {
	Project models.Project
}

type projectsLoadedMsg struct {
	projects []models.Project
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

// Capturing reports whether the view is consuming raw key input.
func (v *ProjectListView) Capturing() bool {
	return v.creating || v.editing || v.confirmingDelete ||
		v.list.FilterState() == list.Filtering
}

// Restyle rebuilds styles after a theme change.
func (v *ProjectListView) Restyle() {
	v.styles = styles.NewStyles()
	v.delegate.styles = v.styles
	v.list.Styles.Title = v.styles.Title
}

func (v *ProjectListView) loadProjects() tea.Msg {
	projects := v.projects.List(managers.ProjectFilter{
		Status: statusFilters[v.statusFilter],
	})
	return projectsLoadedMsg{projects: projects}
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-8)
		return v, nil

	case RefreshMsg:
		return v, v.loadProjects

	case projectsLoadedMsg:
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		v.list.SetItems(items)
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating || v.editing {
			return v.updateForm(msg)
		}

		switch {
		case key.Matches(msg, v.keys.New):
			v.creating = true
			v.formErr = ""
			v.resetForm(models.Project{Status: models.ProjectActive})
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Edit):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.editing = true
				v.editID = item.project.ID
				v.formErr = ""
				v.resetForm(item.project)
				return v, textinput.Blink
			}
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg {
					return SelectedProject{Project: item.project}
				}
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.project.ID
				v.deleteTargetName = item.project.Name
				return v, nil
			}
		case key.Matches(msg, v.keys.Filter):
			v.statusFilter = (v.statusFilter + 1) % len(statusFilters)
			return v, v.loadProjects
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) resetForm(p models.Project) {
	v.focusIdx = 0
	v.formName.SetValue(p.Name)
	v.formDesc.SetValue(p.Description)
	v.formDeadline.SetValue(p.Deadline)
	v.formStatus = 0
	for i, s := range projectStatuses {
		if s == p.Status {
			v.formStatus = i
		}
	}
	v.formName.Focus()
	v.formDesc.Blur()
	v.formDeadline.Blur()
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.projects.Delete(v.deleteTargetID)
		v.confirmingDelete = false
		return v, v.loadProjects
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectListView) submitForm() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(v.formName.Value())
	if name == "" {
		v.formErr = "Name is required"
		return v, nil
	}

	status := projectStatuses[v.formStatus]
	desc := strings.TrimSpace(v.formDesc.Value())
	deadline := strings.TrimSpace(v.formDeadline.Value())

	if v.editing {
		v.projects.Update(v.editID, managers.ProjectUpdate{
			Name:        &name,
			Description: &desc,
			Status:      &status,
			Deadline:    &deadline,
		})
	} else {
		v.projects.Create(managers.ProjectInput{
			Name:        name,
			Description: desc,
			Status:      status,
			Deadline:    deadline,
		})
	}

	v.creating = false
	v.editing = false
	return v, v.loadProjects
}

func (v *ProjectListView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v.submitForm()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 4) % 5
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 5
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 4 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v.submitForm()

	case msg.String() == "left", msg.String() == "right":
		if v.focusIdx == 2 {
			if msg.String() == "left" {
				v.formStatus = (v.formStatus + len(projectStatuses) - 1) % len(projectStatuses)
			} else {
				v.formStatus = (v.formStatus + 1) % len(projectStatuses)
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.formName, cmd = v.formName.Update(msg)
	case 1:
		v.formDesc, cmd = v.formDesc.Update(msg)
	case 3:
		v.formDeadline, cmd = v.formDeadline.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) updateFocus() {
	v.formName.Blur()
	v.formDesc.Blur()
	v.formDeadline.Blur()
	switch v.focusIdx {
	case 0:
		v.formName.Focus()
	case 1:
		v.formDesc.Focus()
	case 3:
		v.formDeadline.Focus()
	}
}

// View renders the view
func (v *ProjectListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.creating || v.editing {
		return v.renderForm()
	}
	if len(v.list.Items()) == 0 && statusFilters[v.statusFilter] == managers.FilterAll {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderStatusBar() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderStatusBar() string {
	return v.styles.StatusBar.Render("filter: " + statusFilters[v.statusFilter])
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	title := "New Project"
	if v.editing {
		title = "Edit Project"
	}

	nameStyle := s.Input
	descStyle := s.Input
	deadlineStyle := s.Input
	statusStyle := s.TitleMuted
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		statusStyle = s.Title
	case 3:
		deadlineStyle = s.InputFocused
	case 4:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	rows := []string{
		s.Title.Render(title),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.formName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.formDesc.View()),
		"",
		"Status: " + statusStyle.Render("◀ "+string(projectStatuses[v.formStatus])+" ▶"),
		"",
		"Deadline:",
		deadlineStyle.Width(inputWidth).Render(v.formDeadline.View()),
		"",
		btnStyle.Render(" Save "),
	}
	if v.formErr != "" {
		rows = append(rows, "", s.BadgeError.Render(v.formErr))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s edit • %s del • %s filter • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *ProjectListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Project?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and all of its tasks will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Dialog.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
