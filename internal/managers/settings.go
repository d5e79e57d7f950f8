package managers

import (
	"fmt"
	"time"

	"github.com/jspence/taskdeck/internal/models"
	"github.com/jspence/taskdeck/internal/store"
)

// SettingsForm carries the raw values collected from the settings
// form before validation.
type SettingsForm struct {
	Theme           string
	Notifications   bool
	AutoSave        bool
	DefaultPriority string
}

// SettingsManager owns the settings slice of the document and applies
// side-effecting settings to process-wide state: the active theme and
// the store's autosave task.
type SettingsManager struct {
	store            *store.Store
	autosaveInterval time.Duration
	applyTheme       func(name string)
}

// NewSettingsManager creates a settings manager. applyTheme is called
// by Apply with the active theme name; it may be nil in headless use.
func NewSettingsManager(s *store.Store, autosaveInterval time.Duration, applyTheme func(string)) *SettingsManager {
	return &SettingsManager{
		store:            s,
		autosaveInterval: autosaveInterval,
		applyTheme:       applyTheme,
	}
}

// Load normalizes the document's settings, filling defaults for any
// missing or unknown value, and finishes by applying them.
func (m *SettingsManager) Load() models.Settings {
	defaults := models.DefaultSettings()

	var settings models.Settings
	m.store.Mutate(func(doc *models.Document) {
		if !models.ValidTheme(doc.Settings.Theme) {
			doc.Settings.Theme = defaults.Theme
		}
		if !doc.Settings.DefaultPriority.Valid() {
			doc.Settings.DefaultPriority = defaults.DefaultPriority
		}
		settings = doc.Settings
	})

	m.Apply()
	return settings
}

// Save validates the form values against the declared enums, merges
// them into the settings slice, persists and applies. Invalid values
// reject the whole form and leave settings unchanged.
func (m *SettingsManager) Save(form SettingsForm) error {
	if !models.ValidTheme(form.Theme) {
		return fmt.Errorf("unknown theme %q", form.Theme)
	}
	priority := models.Priority(form.DefaultPriority)
	if !priority.Valid() {
		return fmt.Errorf("unknown priority %q", form.DefaultPriority)
	}

	m.store.Mutate(func(doc *models.Document) {
		doc.Settings.Theme = form.Theme
		doc.Settings.Notifications = form.Notifications
		doc.Settings.AutoSave = form.AutoSave
		doc.Settings.DefaultPriority = priority
	})

	_ = m.store.Save()
	m.Apply()
	return nil
}

// Apply pushes the current settings into process-wide state: the
// active theme and the autosave task. Idempotent; applying unchanged
// settings just re-asserts the same state.
func (m *SettingsManager) Apply() {
	settings := m.store.Document().Settings

	if m.applyTheme != nil {
		m.applyTheme(settings.Theme)
	}

	if settings.AutoSave {
		m.store.EnableAutoSave(m.autosaveInterval)
	} else {
		m.store.DisableAutoSave()
	}
}

// ResetToDefaults restores the default settings sub-object, persists
// and reloads.
func (m *SettingsManager) ResetToDefaults() models.Settings {
	m.store.Mutate(func(doc *models.Document) {
		doc.Settings = models.DefaultSettings()
	})
	_ = m.store.Save()
	return m.Load()
}
