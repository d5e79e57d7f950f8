package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jspence/taskdeck/internal/managers"
	"github.com/jspence/taskdeck/internal/models"
	"github.com/jspence/taskdeck/internal/store"
	"github.com/jspence/taskdeck/internal/ui/keys"
	"github.com/jspence/taskdeck/internal/ui/styles"
)

// ThemeChanged signals that the active theme switched and views need
// to rebuild their styles.
type ThemeChanged struct{}

var themeNames = []string{models.ThemeDark, models.ThemeLight}

// SettingsView edits the settings slice and hosts the document-level
// operations: export, import and clear.
type SettingsView struct {
	settings *managers.SettingsManager
	store    *store.Store

	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	themeIdx      int
	notifications bool
	autoSave      bool
	priorityIdx   int

	focusIdx int // 0=theme, 1=notifications, 2=autosave, 3=priority, 4=save, 5=reset

	importing   bool
	importInput textinput.Model

	confirmingClear bool

	statusMsg string
}

// NewSettingsView creates the settings view.
func NewSettingsView(sm *managers.SettingsManager, st *store.Store) *SettingsView {
	importInput := textinput.New()
	importInput.Placeholder = "/path/to/export.json"
	importInput.CharLimit = 200

	v := &SettingsView{
		settings:    sm,
		store:       st,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		importInput: importInput,
	}
	v.readSettings(sm.Load())
	return v
}

func (v *SettingsView) readSettings(s models.Settings) {
	v.themeIdx = 0
	for i, name := range themeNames {
		if name == s.Theme {
			v.themeIdx = i
		}
	}
	v.notifications = s.Notifications
	v.autoSave = s.AutoSave
	v.priorityIdx = 1
	for i, p := range taskPriorities {
		if p == s.DefaultPriority {
			v.priorityIdx = i
		}
	}
}

func (v *SettingsView) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the view is consuming raw key input.
func (v *SettingsView) Capturing() bool {
	return v.importing || v.confirmingClear
}

// Restyle rebuilds styles after a theme change.
func (v *SettingsView) Restyle() {
	v.styles = styles.NewStyles()
}

func (v *SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case RefreshMsg:
		v.readSettings(v.store.Document().Settings)
		return v, nil

	case tea.KeyMsg:
		if v.confirmingClear {
			return v.updateConfirmClear(msg)
		}
		if v.importing {
			return v.updateImporting(msg)
		}
		return v.updateBrowsing(msg)
	}

	return v, nil
}

func (v *SettingsView) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.focusIdx = (v.focusIdx + 5) % 6
		return v, nil

	case key.Matches(msg, v.keys.Down), key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 6
		return v, nil

	case msg.String() == "left", msg.String() == "right":
		return v.cycleField(msg.String() == "right")

	case key.Matches(msg, v.keys.Enter), msg.String() == " ":
		switch v.focusIdx {
		case 1:
			v.notifications = !v.notifications
			return v, nil
		case 2:
			v.autoSave = !v.autoSave
			return v, nil
		case 4:
			return v.save()
		case 5:
			v.readSettings(v.settings.ResetToDefaults())
			v.statusMsg = "Settings reset to defaults"
			return v, tea.Batch(Refresh(), func() tea.Msg { return ThemeChanged{} })
		default:
			return v.cycleField(true)
		}

	case msg.String() == "x":
		return v.exportDocument()

	case msg.String() == "i":
		v.importing = true
		v.importInput.Reset()
		v.importInput.Focus()
		return v, textinput.Blink

	case msg.String() == "X":
		v.confirmingClear = true
		return v, nil
	}

	return v, nil
}

func (v *SettingsView) cycleField(forward bool) (tea.Model, tea.Cmd) {
	step := 1
	switch v.focusIdx {
	case 0:
		if !forward {
			step = len(themeNames) - 1
		}
		v.themeIdx = (v.themeIdx + step) % len(themeNames)
	case 1:
		v.notifications = !v.notifications
	case 2:
		v.autoSave = !v.autoSave
	case 3:
		if !forward {
			step = len(taskPriorities) - 1
		}
		v.priorityIdx = (v.priorityIdx + step) % len(taskPriorities)
	}
	return v, nil
}

func (v *SettingsView) save() (tea.Model, tea.Cmd) {
	err := v.settings.Save(managers.SettingsForm{
		Theme:           themeNames[v.themeIdx],
		Notifications:   v.notifications,
		AutoSave:        v.autoSave,
		DefaultPriority: string(taskPriorities[v.priorityIdx]),
	})
	if err != nil {
		v.statusMsg = "Could not save: " + err.Error()
		return v, nil
	}
	v.statusMsg = "Settings saved"
	return v, func() tea.Msg { return ThemeChanged{} }
}

func (v *SettingsView) exportDocument() (tea.Model, tea.Cmd) {
	name := fmt.Sprintf("export-%s.json", time.Now().Format("20060102-150405"))
	path := filepath.Join(filepath.Dir(v.store.Path()), name)

	if err := os.WriteFile(path, []byte(v.store.Export()+"\n"), 0644); err != nil {
		v.statusMsg = "Export failed: " + err.Error()
		return v, nil
	}
	v.statusMsg = "Exported to " + path
	return v, nil
}

func (v *SettingsView) updateImporting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.importing = false
		v.importInput.Blur()
		return v, nil
	case "enter":
		v.importing = false
		v.importInput.Blur()
		path := strings.TrimSpace(v.importInput.Value())
		data, err := os.ReadFile(path)
		if err != nil {
			v.statusMsg = "Import failed: " + err.Error()
			return v, nil
		}
		if !v.store.Import(string(data)) {
			v.statusMsg = "Import rejected: not a valid document"
			return v, nil
		}
		v.readSettings(v.store.Document().Settings)
		v.settings.Apply()
		v.statusMsg = "Imported " + path
		return v, tea.Batch(Refresh(), func() tea.Msg { return ThemeChanged{} })
	}

	var cmd tea.Cmd
	v.importInput, cmd = v.importInput.Update(msg)
	return v, cmd
}

func (v *SettingsView) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingClear = false
		v.store.Reset()
		v.readSettings(v.settings.Load())
		v.statusMsg = "All data cleared"
		return v, tea.Batch(Refresh(), func() tea.Msg { return ThemeChanged{} })
	case "n", "N", "esc":
		v.confirmingClear = false
		return v, nil
	}
	return v, nil
}

// View renders the settings form
func (v *SettingsView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if v.confirmingClear {
		content := lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Foreground(styles.Current.Error).Render("Clear All Data?"),
			"",
			s.TitleMuted.Render("Every project, task and member will be removed."),
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

	label := func(idx int, text string) string {
		if v.focusIdx == idx {
			return s.Title.Render("› " + text)
		}
		return s.ListItem.Render(text)
	}
	toggle := func(on bool) string {
		if on {
			return s.BadgeSuccess.Render("on")
		}
		return s.Badge.Render("off")
	}

	saveBtn := s.Button.Render(" Save ")
	if v.focusIdx == 4 {
		saveBtn = s.ButtonFocused.Render(" Save ")
	}
	resetBtn := s.Button.Render(" Reset Defaults ")
	if v.focusIdx == 5 {
		resetBtn = s.ButtonFocused.Render(" Reset Defaults ")
	}

	rows := []string{
		s.Title.Render("Settings"),
		"",
		label(0, "Theme:            ◀ "+themeNames[v.themeIdx]+" ▶"),
		label(1, "Notifications:    ") + toggle(v.notifications),
		label(2, "Auto-save:        ") + toggle(v.autoSave),
		label(3, "Default priority: ◀ "+string(taskPriorities[v.priorityIdx])+" ▶"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, saveBtn, "  ", resetBtn),
		"",
	}

	if v.importing {
		rows = append(rows,
			"Import from:",
			s.InputFocused.Width(clamp(contentWidth-6, 20, 60)).Render(v.importInput.View()),
			"",
		)
	}

	if v.statusMsg != "" {
		rows = append(rows, s.StatusBar.Render(v.statusMsg), "")
	}

	rows = append(rows, s.TitleMuted.Render("x: export • i: import • X: clear all data"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
