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

var roleFilters = []string{managers.FilterAll, "developer", "designer", "manager", "client"}

var memberRoles = []models.Role{
	models.RoleDeveloper,
	models.RoleDesigner,
	models.RoleManager,
	models.RoleClient,
}

type memberItem struct {
	member models.Member
}

func (i memberItem) Title() string       { return i.member.Name }
func (i memberItem) Description() string { return i.member.Email }
func (i memberItem) FilterValue() string { return i.member.Name + " " + i.member.Email }

type memberDelegate struct {
	styles *styles.Styles
	width  int
}

func (d memberDelegate) Height() int                               { return 2 }
func (d memberDelegate) Spacing() int                              { return 1 }
func (d memberDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d memberDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mem, ok := item.(memberItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var nameStyle, emailStyle lipgloss.Style
	if selected {
		nameStyle = d.styles.ListSelected.Width(width)
		emailStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		nameStyle = d.styles.ListItem.Width(width)
		emailStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	name := nameStyle.Render(mem.member.Name + "  " + d.styles.BadgeInfo.Render(string(mem.member.Role)))
	email := emailStyle.Render(mem.member.Email)

	fmt.Fprintf(w, "%s\n%s", name, email)
}

// TeamListView shows team members with role filtering and CRUD forms
type TeamListView struct {
	team     *managers.TeamManager
	list     list.Model
	delegate *memberDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	roleFilter int

	creating bool
	editing  bool
	editID   string
	formErr  string

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	formName  textinput.Model
	formEmail textinput.Model
	formRole  int
	focusIdx  int // 0=name, 1=email, 2=role, 3=confirm
}

// NewTeamListView creates the team view.
func NewTeamListView(tm *managers.TeamManager) *TeamListView {
	s := styles.NewStyles()

	formName := textinput.New()
	formName.Placeholder = "Member name"
	formName.CharLimit = 100

	formEmail := textinput.New()
	formEmail.Placeholder = "email@example.com"
	formEmail.CharLimit = 100

	delegate := &memberDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Team"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &TeamListView{
		team:      tm,
		list:      l,
		delegate:  delegate,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		formName:  formName,
		formEmail: formEmail,
	}
}

type membersLoadedMsg struct {
	members []models.Member
}

func (v *TeamListView) Init() tea.Cmd {
	return v.loadMembers
}

// Capturing reports whether the view is consuming raw key input.
func (v *TeamListView) Capturing() bool {
	return v.creating || v.editing || v.confirmingDelete ||
		v.list.FilterState() == list.Filtering
}

// Restyle rebuilds styles after a theme change.
func (v *TeamListView) Restyle() {
	v.styles = styles.NewStyles()
	v.delegate.styles = v.styles
	v.list.Styles.Title = v.styles.Title
}

func (v *TeamListView) loadMembers() tea.Msg {
	members := v.team.List(managers.TeamFilter{
		Role: roleFilters[v.roleFilter],
	})
	return membersLoadedMsg{members: members}
}

func (v *TeamListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-8)
		return v, nil

	case RefreshMsg:
		return v, v.loadMembers

	case membersLoadedMsg:
		items := make([]list.Item, len(msg.members))
		for i, m := range msg.members {
			items[i] = memberItem{member: m}
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
			v.resetForm(models.Member{Role: models.RoleDeveloper})
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Edit):
			if item, ok := v.list.SelectedItem().(memberItem); ok {
				v.editing = true
				v.editID = item.member.ID
				v.formErr = ""
				v.resetForm(item.member)
				return v, textinput.Blink
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(memberItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.member.ID
				v.deleteTargetName = item.member.Name
				return v, nil
			}
		case key.Matches(msg, v.keys.Filter):
			v.roleFilter = (v.roleFilter + 1) % len(roleFilters)
			return v, v.loadMembers
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *TeamListView) resetForm(m models.Member) {
	v.focusIdx = 0
	v.formName.SetValue(m.Name)
	v.formEmail.SetValue(m.Email)
	v.formRole = 0
	for i, r := range memberRoles {
		if r == m.Role {
			v.formRole = i
		}
	}
	v.formName.Focus()
	v.formEmail.Blur()
}

func (v *TeamListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.team.Delete(v.deleteTargetID)
		v.confirmingDelete = false
		return v, v.loadMembers
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TeamListView) submitForm() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(v.formName.Value())
	email := strings.TrimSpace(v.formEmail.Value())
	if name == "" {
		v.formErr = "Name is required"
		return v, nil
	}
	if email == "" {
		v.formErr = "Email is required"
		return v, nil
	}

	role := memberRoles[v.formRole]
	if v.editing {
		v.team.Update(v.editID, managers.MemberUpdate{
			Name:  &name,
			Email: &email,
			Role:  &role,
		})
	} else {
		v.team.Create(managers.MemberInput{
			Name:  name,
			Email: email,
			Role:  role,
		})
	}

	v.creating = false
	v.editing = false
	return v, v.loadMembers
}

func (v *TeamListView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v.submitForm()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 3) % 4
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 4
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 3 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v.submitForm()

	case msg.String() == "left", msg.String() == "right":
		if v.focusIdx == 2 {
			if msg.String() == "left" {
				v.formRole = (v.formRole + len(memberRoles) - 1) % len(memberRoles)
			} else {
				v.formRole = (v.formRole + 1) % len(memberRoles)
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.formName, cmd = v.formName.Update(msg)
	case 1:
		v.formEmail, cmd = v.formEmail.Update(msg)
	}
	return v, cmd
}

func (v *TeamListView) updateFocus() {
	v.formName.Blur()
	v.formEmail.Blur()
	switch v.focusIdx {
	case 0:
		v.formName.Focus()
	case 1:
		v.formEmail.Focus()
	}
}

// View renders the view
func (v *TeamListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.creating || v.editing {
		return v.renderForm()
	}
	if len(v.list.Items()) == 0 && roleFilters[v.roleFilter] == managers.FilterAll {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" +
		v.styles.StatusBar.Render("role: "+roleFilters[v.roleFilter]) + "\n" +
		v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *TeamListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Team Members"),
		"",
		s.TitleMuted.Render("Press 'n' to add someone"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TeamListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	title := "New Member"
	if v.editing {
		title = "Edit Member"
	}

	nameStyle := s.Input
	emailStyle := s.Input
	roleStyle := s.TitleMuted
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		emailStyle = s.InputFocused
	case 2:
		roleStyle = s.Title
	case 3:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	rows := []string{
		s.Title.Render(title),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.formName.View()),
		"",
		"Email:",
		emailStyle.Width(inputWidth).Render(v.formEmail.View()),
		"",
		"Role: " + roleStyle.Render("◀ "+string(memberRoles[v.formRole])+" ▶"),
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

func (v *TeamListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Remove Member?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed from the team.", v.deleteTargetName)),
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

func (v *TeamListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s new • %s edit • %s remove • %s filter • %s quit",
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("q"),
		),
	)
}
