package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jspence/taskdeck/internal/managers"
	"github.com/jspence/taskdeck/internal/models"
	"github.com/jspence/taskdeck/internal/ui/keys"
	"github.com/jspence/taskdeck/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// boardColumns is the fixed column order of the task board.
var boardColumns = []models.TaskStatus{
	models.TaskTodo,
	models.TaskInProgress,
	models.TaskCompleted,
}

// priorityFilters is the cycle order for the priority filter.
var priorityFilters = []string{managers.FilterAll, "low", "medium", "high"}

var taskPriorities = []models.Priority{
	models.PriorityLow,
	models.PriorityMedium,
	models.PriorityHigh,
}

// BackToProjects signals to go back to the project list.
type BackToProjects struct{}

type tasksLoadedMsg struct {
	columns [3][]models.Task
}

// TaskBoardView shows tasks grouped by status. When project is set,
// only that project's tasks are shown and new tasks are attached to
// it; otherwise the board spans all tasks.
type TaskBoardView struct {
	tasks   *managers.TaskManager
	project *models.Project

	columns [3][]models.Task
	col     int
	row     int

	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	priorityFilter int

	searching   bool
	searchInput textinput.Model

	creating bool
	editing  bool
	editID   string
	formErr  string

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	formTitle    textinput.Model
	formDesc     textinput.Model
	formDue      textinput.Model
	formPriority int
	focusIdx     int // 0=title, 1=desc, 2=priority, 3=due, 4=confirm
}

// NewTaskBoardView creates the task board. project may be nil.
func NewTaskBoardView(tm *managers.TaskManager, project *models.Project) *TaskBoardView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	formTitle := textinput.New()
	formTitle.Placeholder = "Task title"
	formTitle.CharLimit = 200

	formDesc := textinput.New()
	formDesc.Placeholder = "Description (optional)"
	formDesc.CharLimit = 500

	formDue := textinput.New()
	formDue.Placeholder = "YYYY-MM-DD (optional)"
	formDue.CharLimit = 10

	return &TaskBoardView{
		tasks:       tm,
		project:     project,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		searchInput: search,
		formTitle:   formTitle,
		formDesc:    formDesc,
		formDue:     formDue,
	}
}

func (v *TaskBoardView) Init() tea.Cmd {
	return v.loadTasks
}

// Capturing reports whether the view is consuming raw key input.
func (v *TaskBoardView) Capturing() bool {
	return v.creating || v.editing || v.searching || v.confirmingDelete
}

// Restyle rebuilds styles after a theme change.
func (v *TaskBoardView) Restyle() {
	v.styles = styles.NewStyles()
}

func (v *TaskBoardView) loadTasks() tea.Msg {
	filter := managers.TaskFilter{
		Priority: priorityFilters[v.priorityFilter],
		Search:   strings.TrimSpace(v.searchInput.Value()),
	}
	if v.project != nil {
		filter.ProjectID = v.project.ID
	}

	var columns [3][]models.Task
	for i, status := range boardColumns {
		filter.Status = string(status)
		columns[i] = v.tasks.List(filter)
	}
	return tasksLoadedMsg{columns: columns}
}

func (v *TaskBoardView) selected() *models.Task {
	if v.row < len(v.columns[v.col]) {
		return &v.columns[v.col][v.row]
	}
	return nil
}

func (v *TaskBoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case RefreshMsg:
		return v, v.loadTasks

	case tasksLoadedMsg:
		v.columns = msg.columns
		v.row = clamp(v.row, 0, max(0, len(v.columns[v.col])-1))
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating || v.editing {
			return v.updateForm(msg)
		}
		if v.searching {
			return v.updateSearching(msg)
		}
		return v.updateBrowsing(msg)
	}

	return v, nil
}

func (v *TaskBoardView) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		if v.project != nil {
			return v, func() tea.Msg { return BackToProjects{} }
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		v.row = max(0, v.row-1)
		return v, nil

	case key.Matches(msg, v.keys.Down):
		v.row = min(v.row+1, max(0, len(v.columns[v.col])-1))
		return v, nil

	case msg.String() == "left", msg.String() == "h":
		v.col = max(0, v.col-1)
		v.row = clamp(v.row, 0, max(0, len(v.columns[v.col])-1))
		return v, nil

	case msg.String() == "right", msg.String() == "l":
		v.col = min(v.col+1, len(boardColumns)-1)
		v.row = clamp(v.row, 0, max(0, len(v.columns[v.col])-1))
		return v, nil

	case key.Matches(msg, v.keys.Move):
		// The keyboard version of dropping a card on the next column.
		if t := v.selected(); t != nil {
			next := boardColumns[(v.col+1)%len(boardColumns)]
			v.tasks.Update(t.ID, managers.TaskUpdate{Status: &next})
			return v, v.loadTasks
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.creating = true
		v.formErr = ""
		v.resetForm(models.Task{})
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if t := v.selected(); t != nil {
			v.editing = true
			v.editID = t.ID
			v.formErr = ""
			v.resetForm(*t)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if t := v.selected(); t != nil {
			v.confirmingDelete = true
			v.deleteTargetID = t.ID
			v.deleteTargetName = t.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Filter):
		v.priorityFilter = (v.priorityFilter + 1) % len(priorityFilters)
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.searchInput.Focus()
		return v, textinput.Blink
	}

	return v, nil
}

func (v *TaskBoardView) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.searching = false
		v.searchInput.Reset()
		v.searchInput.Blur()
		return v, v.loadTasks
	case "enter":
		v.searching = false
		v.searchInput.Blur()
		return v, v.loadTasks
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	return v, tea.Batch(cmd, v.loadTasks)
}

func (v *TaskBoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.tasks.Delete(v.deleteTargetID)
		v.confirmingDelete = false
		return v, v.loadTasks
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskBoardView) resetForm(t models.Task) {
	v.focusIdx = 0
	v.formTitle.SetValue(t.Title)
	v.formDesc.SetValue(t.Description)
	v.formDue.SetValue(t.DueDate)
	v.formPriority = -1
	for i, p := range taskPriorities {
		if p == t.Priority {
			v.formPriority = i
		}
	}
	v.formTitle.Focus()
	v.formDesc.Blur()
	v.formDue.Blur()
}

func (v *TaskBoardView) submitForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(v.formTitle.Value())
	if title == "" {
		v.formErr = "Title is required"
		return v, nil
	}

	desc := strings.TrimSpace(v.formDesc.Value())
	due := strings.TrimSpace(v.formDue.Value())

	var priority models.Priority
	if v.formPriority >= 0 {
		priority = taskPriorities[v.formPriority]
	}

	if v.editing {
		upd := managers.TaskUpdate{
			Title:       &title,
			Description: &desc,
			DueDate:     &due,
		}
		if priority != "" {
			upd.Priority = &priority
		}
		v.tasks.Update(v.editID, upd)
	} else {
		in := managers.TaskInput{
			Title:       title,
			Description: desc,
			Priority:    priority, // empty lets the default priority setting apply
			Status:      boardColumns[v.col],
			DueDate:     due,
		}
		if v.project != nil {
			in.ProjectID = v.project.ID
		}
		v.tasks.Create(in)
	}

	v.creating = false
	v.editing = false
	return v, v.loadTasks
}

func (v *TaskBoardView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
				v.formPriority = (v.formPriority + len(taskPriorities) - 1) % len(taskPriorities)
			} else {
				v.formPriority = (v.formPriority + 1) % len(taskPriorities)
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.formTitle, cmd = v.formTitle.Update(msg)
	case 1:
		v.formDesc, cmd = v.formDesc.Update(msg)
	case 3:
		v.formDue, cmd = v.formDue.Update(msg)
	}
	return v, cmd
}

func (v *TaskBoardView) updateFocus() {
	v.formTitle.Blur()
	v.formDesc.Blur()
	v.formDue.Blur()
	switch v.focusIdx {
	case 0:
		v.formTitle.Focus()
	case 1:
		v.formDesc.Focus()
	case 3:
		v.formDue.Focus()
	}
}

// View renders the board
func (v *TaskBoardView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.creating || v.editing {
		return v.renderForm()
	}

	contentWidth := styles.ContentWidth(v.width)
	colWidth := max((contentWidth-6)/3, 20)

	cols := make([]string, len(boardColumns))
	for i, status := range boardColumns {
		cols[i] = v.renderColumn(i, status, colWidth)
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	header := v.renderHeader()
	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		board,
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *TaskBoardView) renderHeader() string {
	s := v.styles

	title := "All Tasks"
	if v.project != nil {
		title = v.project.Name
	}

	parts := []string{s.Title.Render(title)}
	if priorityFilters[v.priorityFilter] != managers.FilterAll {
		parts = append(parts, s.StatusBar.Render("priority: "+priorityFilters[v.priorityFilter]))
	}
	if v.searching || v.searchInput.Value() != "" {
		parts = append(parts, s.StatusBar.Render("search: "+v.searchInput.View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (v *TaskBoardView) renderColumn(idx int, status models.TaskStatus, width int) string {
	s := v.styles
	tasks := v.columns[idx]

	rows := []string{s.ColumnTitle.Render(fmt.Sprintf("%s (%d)", status, len(tasks)))}
	for i, t := range tasks {
		line := t.Title
		if v.project == nil {
			line += "  " + s.TitleMuted.Render(v.tasks.ProjectName(t.ProjectID))
		}
		if t.DueDate != "" {
			line += "  " + s.TitleMuted.Render("due "+t.DueDate)
		}
		line = priorityBadge(s, t.Priority) + " " + line

		style := s.ListItem
		if idx == v.col && i == v.row {
			style = s.ListSelected
		}
		rows = append(rows, style.Width(width-4).Render(line))
	}
	if len(tasks) == 0 {
		rows = append(rows, s.TitleMuted.Render("  —"))
	}

	column := lipgloss.JoinVertical(lipgloss.Left, rows...)
	colStyle := s.Column.Width(width)
	if idx == v.col {
		colStyle = colStyle.BorderForeground(styles.Current.BorderFocus)
	}
	return colStyle.Render(column)
}

func priorityBadge(s *styles.Styles, p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return s.BadgeError.Render("●")
	case models.PriorityLow:
		return s.Badge.Render("●")
	default:
		return s.BadgeWarning.Render("●")
	}
}

func (v *TaskBoardView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	title := "New Task"
	if v.editing {
		title = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	dueStyle := s.Input
	priorityStyle := s.TitleMuted
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		priorityStyle = s.Title
	case 3:
		dueStyle = s.InputFocused
	case 4:
		btnStyle = s.ButtonFocused
	}

	priorityLabel := "default"
	if v.formPriority >= 0 {
		priorityLabel = string(taskPriorities[v.formPriority])
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	rows := []string{
		s.Title.Render(title),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.formTitle.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.formDesc.View()),
		"",
		"Priority: " + priorityStyle.Render("◀ "+priorityLabel+" ▶"),
		"",
		"Due date:",
		dueStyle.Width(inputWidth).Render(v.formDue.View()),
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

func (v *TaskBoardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed.", v.deleteTargetName)),
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

func (v *TaskBoardView) renderHelp() string {
	if v.project != nil {
		return v.styles.Help.Render(
			fmt.Sprintf("%s move • %s new • %s edit • %s del • %s search • %s filter • %s back",
				v.styles.HelpKey.Render("space"),
				v.styles.HelpKey.Render("n"),
				v.styles.HelpKey.Render("e"),
				v.styles.HelpKey.Render("d"),
				v.styles.HelpKey.Render("/"),
				v.styles.HelpKey.Render("f"),
				v.styles.HelpKey.Render("esc"),
			),
		)
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s move • %s new • %s edit • %s del • %s search • %s filter",
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("f"),
		),
	)
}
