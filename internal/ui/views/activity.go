package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jspence/taskdeck/internal/models"
	"github.com/jspence/taskdeck/internal/store"
	"github.com/jspence/taskdeck/internal/ui/styles"
)

// ActivityView is a read-only list of recent activity, newest first.
type ActivityView struct {
	store   *store.Store
	entries []models.ActivityEntry
	styles  *styles.Styles
	width   int
	height  int
	scroll  int
}

// NewActivityView creates the activity view.
func NewActivityView(st *store.Store) *ActivityView {
	return &ActivityView{
		store:  st,
		styles: styles.NewStyles(),
	}
}

func (v *ActivityView) Init() tea.Cmd {
	return v.loadActivity
}

// Capturing reports whether the view is consuming raw key input.
func (v *ActivityView) Capturing() bool {
	return false
}

// Restyle rebuilds styles after a theme change.
func (v *ActivityView) Restyle() {
	v.styles = styles.NewStyles()
}

type activityLoadedMsg struct {
	entries []models.ActivityEntry
}

func (v *ActivityView) loadActivity() tea.Msg {
	entries := make([]models.ActivityEntry, 0, models.ActivityLimit)
	for e := range v.store.Document().RecentActivity(models.ActivityLimit) {
		entries = append(entries, e)
	}
	return activityLoadedMsg{entries: entries}
}

func (v *ActivityView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case RefreshMsg:
		return v, v.loadActivity

	case activityLoadedMsg:
		v.entries = msg.entries
		v.scroll = 0
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.scroll = max(0, v.scroll-1)
		case "down", "j":
			v.scroll = min(v.scroll+1, max(0, len(v.entries)-1))
		}
		return v, nil
	}

	return v, nil
}

// View renders the activity list
func (v *ActivityView) View() string {
	s := v.styles

	if len(v.entries) == 0 {
		contentWidth := styles.ContentWidth(v.width)
		content := lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Render("No Activity Yet"),
			"",
			s.TitleMuted.Render("Project and task changes show up here"),
		)
		centered := lipgloss.Place(contentWidth, v.height,
			lipgloss.Center, lipgloss.Center,
			content,
		)
		return styles.CenterView(centered, v.width, v.height)
	}

	visible := max(v.height-8, 1)
	end := min(v.scroll+visible, len(v.entries))

	rows := []string{s.Title.Render("Recent Activity"), ""}
	for _, e := range v.entries[v.scroll:end] {
		kind := s.BadgeInfo.Render(string(e.Kind))
		if e.Kind == models.ActivityTask {
			kind = s.BadgeWarning.Render(string(e.Kind))
		}
		stamp := s.TitleMuted.Render(e.Timestamp.Format("Jan 02 15:04"))
		rows = append(rows, stamp+"  "+kind+"  "+e.Message)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CenterView(s.List.Render(content), v.width, v.height)
}
