package managers

import (
	"fmt"
	"sort"
	"time"

	"github.com/jspence/taskdeck/internal/models"
	"github.com/jspence/taskdeck/internal/store"
)

// ProjectInput is the validated form input for creating a project.
type ProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
	Deadline    string
}

// ProjectUpdate is a partial update; nil fields are left unchanged.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	Deadline    *string
}

// ProjectFilter selects and narrows the project list. Empty or "all"
// values mean no filter on that field.
type ProjectFilter struct {
	Status string
	Search string
}

// ProjectManager owns CRUD over the projects collection.
type ProjectManager struct {
	store *store.Store
}

// NewProjectManager creates a project manager backed by s.
func NewProjectManager(s *store.Store) *ProjectManager {
	return &ProjectManager{store: s}
}

// Create appends a new project, logs it and saves.
func (m *ProjectManager) Create(in ProjectInput) models.Project {
	if in.Status == "" {
		in.Status = models.ProjectActive
	}

	now := time.Now()
	project := models.Project{
		ID:          models.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Deadline:    in.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.store.Mutate(func(doc *models.Document) {
		doc.Projects = append(doc.Projects, project)
		doc.AppendActivity(fmt.Sprintf("Created project %q", project.Name), models.ActivityProject)
	})
	m.save()

	return project
}

// Update merges a partial update into the matching project and
// refreshes its UpdatedAt. No-op if the id is absent.
func (m *ProjectManager) Update(id string, upd ProjectUpdate) {
	updated := false
	m.store.Mutate(func(doc *models.Document) {
		for i := range doc.Projects {
			p := &doc.Projects[i]
			if p.ID != id {
				continue
			}
			if upd.Name != nil {
				p.Name = *upd.Name
			}
			if upd.Description != nil {
				p.Description = *upd.Description
			}
			if upd.Status != nil {
				p.Status = *upd.Status
			}
			if upd.Deadline != nil {
				p.Deadline = *upd.Deadline
			}
			p.UpdatedAt = touch(p.UpdatedAt)
			updated = true
			return
		}
	})
	if updated {
		m.save()
	}
}

// Delete removes the project and cascades removal of its tasks in the
// same logical operation. Cascaded task deletions are not logged
// individually. No-op if the id is absent.
func (m *ProjectManager) Delete(id string) {
	deleted := false
	m.store.Mutate(func(doc *models.Document) {
		idx := -1
		for i := range doc.Projects {
			if doc.Projects[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}

		name := doc.Projects[idx].Name
		doc.Projects = append(doc.Projects[:idx], doc.Projects[idx+1:]...)

		kept := doc.Tasks[:0]
		for _, t := range doc.Tasks {
			if t.ProjectID != id {
				kept = append(kept, t)
			}
		}
		doc.Tasks = kept

		doc.AppendActivity(fmt.Sprintf("Deleted project %q", name), models.ActivityProject)
		deleted = true
	})
	if deleted {
		m.save()
	}
}

// List returns projects matching the filter, most recently touched
// first. Ties keep insertion order.
func (m *ProjectManager) List(f ProjectFilter) []models.Project {
	doc := m.store.Document()

	out := make([]models.Project, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		if filterActive(f.Status) && string(p.Status) != f.Status {
			continue
		}
		if !matchesSearch(f.Search, p.Name, p.Description) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Get returns the project with the given id, or false if absent.
func (m *ProjectManager) Get(id string) (models.Project, bool) {
	for _, p := range m.store.Document().Projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

func (m *ProjectManager) save() {
	// Save failures are logged by the store; the in-memory document
	// stays authoritative for the rest of the session.
	_ = m.store.Save()
}
