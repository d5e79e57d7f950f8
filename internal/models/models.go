package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

// TaskStatus is the workflow state of a task
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Role of a team member
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleDesigner  Role = "designer"
	RoleManager   Role = "manager"
	RoleClient    Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDeveloper, RoleDesigner, RoleManager, RoleClient:
		return true
	}
	return false
}

// Theme names recognized by the settings manager
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ValidTheme reports whether name is a known theme.
func ValidTheme(name string) bool {
	return name == ThemeDark || name == ThemeLight
}

// Project represents a project grouping tasks
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Deadline    string        `json:"deadline,omitempty"` // YYYY-MM-DD, empty if unset
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Task represents a single unit of work, optionally tied to a project
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ProjectID   string     `json:"projectId,omitempty"` // may dangle; rendered as "No Project"
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	DueDate     string     `json:"dueDate,omitempty"` // YYYY-MM-DD, empty if unset
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Member represents a team member
type Member struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Settings holds the user-tunable configuration stored in the document
type Settings struct {
	Theme           string   `json:"theme"`
	Notifications   bool     `json:"notifications"`
	AutoSave        bool     `json:"autoSave"`
	DefaultPriority Priority `json:"defaultPriority"`
}

// Document is the root aggregate: everything the application persists
// lives under these five keys. The serialized form of this struct is
// both the storage format and the import/export format.
type Document struct {
	Projects []Project       `json:"projects"`
	Tasks    []Task          `json:"tasks"`
	Team     []Member        `json:"team"`
	Settings Settings        `json:"settings"`
	Activity []ActivityEntry `json:"activity"`
}

// NewID returns a fresh unique entity id
func NewID() string {
	return uuid.NewString()
}

// DefaultSettings returns the settings used for a fresh document and
// by the settings reset operation.
func DefaultSettings() Settings {
	return Settings{
		Theme:           ThemeDark,
		Notifications:   true,
		AutoSave:        true,
		DefaultPriority: PriorityMedium,
	}
}

// DefaultDocument returns an empty document with default settings.
func DefaultDocument() *Document {
	return &Document{
		Projects: []Project{},
		Tasks:    []Task{},
		Team:     []Member{},
		Settings: DefaultSettings(),
		Activity: []ActivityEntry{},
	}
}

// Normalize replaces nil collections with empty ones so a document
// deserialized from a sparse form always has usable slices.
func (d *Document) Normalize() {
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Team == nil {
		d.Team = []Member{}
	}
	if d.Activity == nil {
		d.Activity = []ActivityEntry{}
	}
}
