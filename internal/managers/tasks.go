package managers

import (
	"fmt"
	"sort"
	"time"

	"github.com/jspence/taskdeck/internal/models"
	"github.com/jspence/taskdeck/internal/store"
)

// TaskInput is the validated form input for creating a task. An
// unknown ProjectID is accepted as-is and rendered as "No Project".
type TaskInput struct {
	Title       string
	Description string
	ProjectID   string
	Priority    models.Priority
	Status      models.TaskStatus
	DueDate     string
}

// TaskUpdate is a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	ProjectID   *string
	Priority    *models.Priority
	Status      *models.TaskStatus
	DueDate     *string
}

// TaskFilter selects and narrows the task list. Empty or "all" values
// mean no filter on that field.
type TaskFilter struct {
	Status    string
	ProjectID string
	Priority  string
	Search    string
}

// TaskManager owns CRUD over the tasks collection.
type TaskManager struct {
	store *store.Store
}

// NewTaskManager creates a task manager backed by s.
func NewTaskManager(s *store.Store) *TaskManager {
	return &TaskManager{store: s}
}

// Create appends a new task, logs it and saves. Priority defaults to
// the document's defaultPriority setting, status to todo.
func (m *TaskManager) Create(in TaskInput) models.Task {
	var task models.Task
	m.store.Mutate(func(doc *models.Document) {
		if in.Priority == "" {
			in.Priority = doc.Settings.DefaultPriority
			if in.Priority == "" {
				in.Priority = models.PriorityMedium
			}
		}
		if in.Status == "" {
			in.Status = models.TaskTodo
		}

		now := time.Now()
		task = models.Task{
			ID:          models.NewID(),
			Title:       in.Title,
			Description: in.Description,
			ProjectID:   in.ProjectID,
			Priority:    in.Priority,
			Status:      in.Status,
			DueDate:     in.DueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		doc.Tasks = append(doc.Tasks, task)
		doc.AppendActivity(fmt.Sprintf("Created task %q", task.Title), models.ActivityTask)
	})
	m.save()

	return task
}

// Update merges a partial update into the matching task and refreshes
// its UpdatedAt. A status transition gets its own activity entry;
// other field edits are intentionally not logged. No-op if the id is
// absent.
func (m *TaskManager) Update(id string, upd TaskUpdate) {
	updated := false
	m.store.Mutate(func(doc *models.Document) {
		for i := range doc.Tasks {
			t := &doc.Tasks[i]
			if t.ID != id {
				continue
			}
			if upd.Title != nil {
				t.Title = *upd.Title
			}
			if upd.Description != nil {
				t.Description = *upd.Description
			}
			if upd.ProjectID != nil {
				t.ProjectID = *upd.ProjectID
			}
			if upd.Priority != nil {
				t.Priority = *upd.Priority
			}
			if upd.Status != nil && *upd.Status != t.Status {
				t.Status = *upd.Status
				doc.AppendActivity(fmt.Sprintf("Moved task %q to %s", t.Title, t.Status), models.ActivityTask)
			}
			if upd.DueDate != nil {
				t.DueDate = *upd.DueDate
			}
			t.UpdatedAt = touch(t.UpdatedAt)
			updated = true
			return
		}
	})
	if updated {
		m.save()
	}
}

// Delete removes the task. No-op if the id is absent.
func (m *TaskManager) Delete(id string) {
	deleted := false
	m.store.Mutate(func(doc *models.Document) {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID != id {
				continue
			}
			title := doc.Tasks[i].Title
			doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
			doc.AppendActivity(fmt.Sprintf("Deleted task %q", title), models.ActivityTask)
			deleted = true
			return
		}
	})
	if deleted {
		m.save()
	}
}

// List returns tasks matching the filter, most recently touched
// first. Ties keep insertion order.
func (m *TaskManager) List(f TaskFilter) []models.Task {
	doc := m.store.Document()

	out := make([]models.Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if filterActive(f.Status) && string(t.Status) != f.Status {
			continue
		}
		if filterActive(f.ProjectID) && t.ProjectID != f.ProjectID {
			continue
		}
		if filterActive(f.Priority) && string(t.Priority) != f.Priority {
			continue
		}
		if !matchesSearch(f.Search, t.Title, t.Description) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// ProjectName resolves a task's project reference for display. A
// dangling or empty reference is not an error.
func (m *TaskManager) ProjectName(projectID string) string {
	if projectID == "" {
		return "No Project"
	}
	for _, p := range m.store.Document().Projects {
		if p.ID == projectID {
			return p.Name
		}
	}
	return "No Project"
}

func (m *TaskManager) save() {
	_ = m.store.Save()
}
