package managers

import (
	"testing"

	"github.com/jspence/taskdeck/internal/models"
)

func TestTeamCreate(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTeamManager(s)

	m := tm.Create(MemberInput{Name: "Sam", Email: "sam@example.com", Role: models.RoleDesigner})

	if m.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if m.JoinedAt.IsZero() {
		t.Error("joinedAt must be set")
	}

	doc := s.Document()
	if len(doc.Team) != 1 {
		t.Fatalf("team = %d, want 1", len(doc.Team))
	}
	// The activity log only covers projects and tasks.
	if len(doc.Activity) != 0 {
		t.Errorf("activity = %d, want 0", len(doc.Activity))
	}
}

func TestTeamCreate_DefaultRole(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTeamManager(s)

	m := tm.Create(MemberInput{Name: "Sam", Email: "sam@example.com"})
	if m.Role != models.RoleDeveloper {
		t.Errorf("role = %q, want developer", m.Role)
	}
}

func TestTeamUpdate(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTeamManager(s)

	m := tm.Create(MemberInput{Name: "Sam", Email: "sam@example.com"})

	role := models.RoleManager
	tm.Update(m.ID, MemberUpdate{Role: &role})

	got := tm.List(TeamFilter{})[0]
	if got.Role != models.RoleManager {
		t.Errorf("role = %q, want manager", got.Role)
	}
	if got.Name != "Sam" {
		t.Error("partial update touched an unset field")
	}

	tm.Update("nonexistent", MemberUpdate{Role: &role}) // no-op
	if len(s.Document().Team) != 1 {
		t.Error("no-op update changed the collection")
	}
}

func TestTeamDelete(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTeamManager(s)

	m := tm.Create(MemberInput{Name: "Sam", Email: "sam@example.com"})
	tm.Delete(m.ID)

	if len(s.Document().Team) != 0 {
		t.Error("member was not removed")
	}

	tm.Delete("nonexistent") // no-op
}

func TestTeamList_Filters(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTeamManager(s)

	tm.Create(MemberInput{Name: "Dana Dev", Email: "dana@example.com", Role: models.RoleDeveloper})
	tm.Create(MemberInput{Name: "Mel Manager", Email: "mel@example.com", Role: models.RoleManager})
	tm.Create(MemberInput{Name: "Devon", Email: "devon@client.example.com", Role: models.RoleClient})

	if got := tm.List(TeamFilter{}); len(got) != 3 {
		t.Fatalf("unfiltered list = %d, want 3", len(got))
	}
	if got := tm.List(TeamFilter{Role: "manager"}); len(got) != 1 || got[0].Name != "Mel Manager" {
		t.Errorf("role filter = %d", len(got))
	}
	if got := tm.List(TeamFilter{Role: FilterAll}); len(got) != 3 {
		t.Errorf(`role "all" = %d, want 3`, len(got))
	}
	// Search spans name and email.
	if got := tm.List(TeamFilter{Search: "client.example"}); len(got) != 1 || got[0].Name != "Devon" {
		t.Errorf("search = %d", len(got))
	}
}
