package managers

import (
	"sort"
	"time"

	"github.com/jspence/taskdeck/internal/models"
	"github.com/jspence/taskdeck/internal/store"
)

// MemberInput is the validated form input for adding a team member.
type MemberInput struct {
	Name  string
	Email string
	Role  models.Role
}

// MemberUpdate is a partial update; nil fields are left unchanged.
type MemberUpdate struct {
	Name  *string
	Email *string
	Role  *models.Role
}

// TeamFilter selects and narrows the member list. Empty or "all"
// values mean no filter on that field.
type TeamFilter struct {
	Role   string
	Search string
}

// TeamManager owns CRUD over the team collection.
type TeamManager struct {
	store *store.Store
}

// NewTeamManager creates a team manager backed by s.
func NewTeamManager(s *store.Store) *TeamManager {
	return &TeamManager{store: s}
}

// Create appends a new member and saves. The activity log only tracks
// project and task events, so team changes are not logged.
func (m *TeamManager) Create(in MemberInput) models.Member {
	if in.Role == "" {
		in.Role = models.RoleDeveloper
	}

	member := models.Member{
		ID:       models.NewID(),
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		JoinedAt: time.Now(),
	}

	m.store.Mutate(func(doc *models.Document) {
		doc.Team = append(doc.Team, member)
	})
	m.save()

	return member
}

// Update merges a partial update into the matching member. No-op if
// the id is absent.
func (m *TeamManager) Update(id string, upd MemberUpdate) {
	updated := false
	m.store.Mutate(func(doc *models.Document) {
		for i := range doc.Team {
			mem := &doc.Team[i]
			if mem.ID != id {
				continue
			}
			if upd.Name != nil {
				mem.Name = *upd.Name
			}
			if upd.Email != nil {
				mem.Email = *upd.Email
			}
			if upd.Role != nil {
				mem.Role = *upd.Role
			}
			updated = true
			return
		}
	})
	if updated {
		m.save()
	}
}

// Delete removes the member. No-op if the id is absent.
func (m *TeamManager) Delete(id string) {
	deleted := false
	m.store.Mutate(func(doc *models.Document) {
		for i := range doc.Team {
			if doc.Team[i].ID != id {
				continue
			}
			doc.Team = append(doc.Team[:i], doc.Team[i+1:]...)
			deleted = true
			return
		}
	})
	if deleted {
		m.save()
	}
}

// List returns members matching the filter, most recently joined
// first. Ties keep insertion order.
func (m *TeamManager) List(f TeamFilter) []models.Member {
	doc := m.store.Document()

	out := make([]models.Member, 0, len(doc.Team))
	for _, mem := range doc.Team {
		if filterActive(f.Role) && string(mem.Role) != f.Role {
			continue
		}
		if !matchesSearch(f.Search, mem.Name, mem.Email) {
			continue
		}
		out = append(out, mem)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].JoinedAt.After(out[j].JoinedAt)
	})
	return out
}

func (m *TeamManager) save() {
	_ = m.store.Save()
}
