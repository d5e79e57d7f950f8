package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jspence/taskdeck/internal/managers"
	"github.com/jspence/taskdeck/internal/store"
	"github.com/jspence/taskdeck/internal/ui/styles"
	"github.com/jspence/taskdeck/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewTasks
	ViewTeam
	ViewSettings
	ViewActivity
)

var tabNames = []string{"1 Projects", "2 Tasks", "3 Team", "4 Settings", "5 Activity"}

// view is what the app needs from each screen.
type view interface {
	Init() tea.Cmd
	Update(tea.Msg) (tea.Model, tea.Cmd)
	View() string
	Restyle()
	Capturing() bool
}

type docEventMsg struct {
	event store.Event
}

// App is the top-level model: it switches between views and keeps
// them in sync with the document store.
type App struct {
	store       *store.Store
	currentView View

	projectList  *views.ProjectListView
	taskBoard    *views.TaskBoardView
	projectBoard *views.TaskBoardView // non-nil while a project is open
	teamList     *views.TeamListView
	settingsView *views.SettingsView
	activityView *views.ActivityView

	tasks *managers.TaskManager

	// Store notifications arrive synchronously from whatever goroutine
	// saved (including the autosave timer); they are funneled through
	// this channel into the message loop.
	events chan store.Event

	width  int
	height int
}

// NewApp wires the views to their managers and subscribes to the
// store for change notifications.
func NewApp(
	st *store.Store,
	pm *managers.ProjectManager,
	tm *managers.TaskManager,
	team *managers.TeamManager,
	sm *managers.SettingsManager,
) *App {
	a := &App{
		store:        st,
		currentView:  ViewProjects,
		projectList:  views.NewProjectListView(pm),
		taskBoard:    views.NewTaskBoardView(tm, nil),
		teamList:     views.NewTeamListView(team),
		settingsView: views.NewSettingsView(sm, st),
		activityView: views.NewActivityView(st),
		tasks:        tm,
		events:       make(chan store.Event, 16),
	}

	st.Subscribe(func(e store.Event) {
		select {
		case a.events <- e:
		default:
			// The loop is behind; it will refresh on the next event.
		}
	})

	return a
}

func (a *App) allViews() []view {
	vs := []view{a.projectList, a.taskBoard, a.teamList, a.settingsView, a.activityView}
	if a.projectBoard != nil {
		vs = append(vs, a.projectBoard)
	}
	return vs
}

func (a *App) active() view {
	switch a.currentView {
	case ViewTasks:
		if a.projectBoard != nil {
			return a.projectBoard
		}
		return a.taskBoard
	case ViewTeam:
		return a.teamList
	case ViewSettings:
		return a.settingsView
	case ViewActivity:
		return a.activityView
	}
	return a.projectList
}

func (a *App) waitForEvent() tea.Msg {
	return docEventMsg{event: <-a.events}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitForEvent}
	for _, v := range a.allViews() {
		cmds = append(cmds, v.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		sized := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2}
		for _, v := range a.allViews() {
			v.Update(sized)
		}
		return a, nil

	case docEventMsg:
		// Every view re-derives its list from the now-current document.
		cmds := []tea.Cmd{a.waitForEvent}
		for _, v := range a.allViews() {
			_, cmd := v.Update(views.RefreshMsg{})
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case views.ThemeChanged:
		styles.Apply(a.store.Document().Settings.Theme)
		for _, v := range a.allViews() {
			v.Restyle()
		}
		return a, nil

	case views.SelectedProject:
		a.currentView = ViewTasks
		a.projectBoard = views.NewTaskBoardView(a.tasks, &msg.Project)
		return a, tea.Batch(
			a.projectBoard.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height - 2}
			},
		)

	case views.BackToProjects:
		a.currentView = ViewProjects
		a.projectBoard = nil
		return a, nil

	case tea.KeyMsg:
		if !a.active().Capturing() {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				return a.switchTo(ViewProjects)
			case "2":
				a.projectBoard = nil
				return a.switchTo(ViewTasks)
			case "3":
				return a.switchTo(ViewTeam)
			case "4":
				return a.switchTo(ViewSettings)
			case "5":
				return a.switchTo(ViewActivity)
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	_, cmd := a.active().Update(msg)
	return a, cmd
}

func (a *App) switchTo(v View) (tea.Model, tea.Cmd) {
	a.currentView = v
	return a, a.active().Init()
}

func (a *App) View() string {
	return a.renderTabs() + "\n" + a.active().View()
}

func (a *App) renderTabs() string {
	s := styles.NewStyles()

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if View(i) == a.currentView {
			tabs[i] = s.TabActive.Render(name)
		} else {
			tabs[i] = s.Tab.Render(name)
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center, tabs...)
	return styles.CenterView(bar, a.width, 1)
}
