package store

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jspence/taskdeck/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	s := New(path)
	s.Load()
	t.Cleanup(s.DisableAutoSave)
	return s
}

func TestLoad_MissingFile(t *testing.T) {
	s := setupTestStore(t)

	doc := s.Document()
	if len(doc.Projects) != 0 || len(doc.Tasks) != 0 {
		t.Error("expected empty default document")
	}
	if doc.Settings != models.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", doc.Settings)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{{{ not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	s := New(path)
	doc := s.Load()

	if doc.Settings != models.DefaultSettings() {
		t.Error("expected fallback to default document")
	}
}

func TestMutate(t *testing.T) {
	s := setupTestStore(t)

	s.Mutate(func(doc *models.Document) {
		doc.Projects = append(doc.Projects, models.Project{ID: "p1", Name: "Launch"})
	})

	if len(s.Document().Projects) != 1 {
		t.Error("mutation not visible through Document")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := New(path)
	s.Load()
	s.Mutate(func(doc *models.Document) {
		doc.Projects = append(doc.Projects, models.Project{
			ID:     models.NewID(),
			Name:   "Launch",
			Status: models.ProjectActive,
		})
	})
	if err := s.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := New(path).Load()
	if len(reloaded.Projects) != 1 {
		t.Fatalf("projects after reload = %d, want 1", len(reloaded.Projects))
	}
	if reloaded.Projects[0].Name != "Launch" {
		t.Errorf("project name = %q, want %q", reloaded.Projects[0].Name, "Launch")
	}
}

func TestSave_EmitsSingleNotification(t *testing.T) {
	s := setupTestStore(t)

	var kinds []EventKind
	s.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })

	if err := s.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if len(kinds) != 1 || kinds[0] != EventSaved {
		t.Errorf("events = %v, want [saved]", kinds)
	}
}

func TestSave_ListenerOrder(t *testing.T) {
	s := setupTestStore(t)

	var order []int
	s.Subscribe(func(Event) { order = append(order, 1) })
	s.Subscribe(func(Event) { order = append(order, 2) })
	s.Subscribe(func(Event) { order = append(order, 3) })

	if err := s.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("delivery order = %v, want [1 2 3]", order)
	}
}

func TestSave_FailureKeepsDocument(t *testing.T) {
	// The state path is a directory, so the write must fail.
	s := New(t.TempDir())
	s.Load()
	s.Mutate(func(doc *models.Document) {
		doc.Projects = append(doc.Projects, models.Project{ID: "p1", Name: "Keep me"})
	})

	notified := false
	s.Subscribe(func(Event) { notified = true })

	if err := s.Save(); err == nil {
		t.Fatal("expected save to fail")
	}
	if notified {
		t.Error("failed save must not notify")
	}
	if len(s.Document().Projects) != 1 {
		t.Error("in-memory document was corrupted by failed save")
	}
}

func TestReset(t *testing.T) {
	s := setupTestStore(t)
	s.Mutate(func(doc *models.Document) {
		doc.Projects = append(doc.Projects, models.Project{ID: "p1", Name: "Old"})
	})
	if err := s.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var kinds []EventKind
	s.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })

	fresh := s.Reset()

	if len(fresh.Projects) != 0 {
		t.Error("expected reset document to be empty")
	}
	if len(kinds) != 1 || kinds[0] != EventCleared {
		t.Errorf("events = %v, want [cleared]", kinds)
	}

	reloaded := New(s.Path()).Load()
	if len(reloaded.Projects) != 0 {
		t.Error("reset was not persisted")
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	s := setupTestStore(t)
	s.Mutate(func(doc *models.Document) {
		doc.Projects = append(doc.Projects, models.Project{
			ID:        "p1",
			Name:      "Launch",
			Status:    models.ProjectActive,
			Deadline:  "2026-12-01",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		doc.Tasks = append(doc.Tasks, models.Task{
			ID:        "t1",
			Title:     "Ship it",
			ProjectID: "p1",
			Priority:  models.PriorityHigh,
			Status:    models.TaskInProgress,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		doc.Team = append(doc.Team, models.Member{
			ID:       "m1",
			Name:     "Sam",
			Email:    "sam@example.com",
			Role:     models.RoleDesigner,
			JoinedAt: time.Now(),
		})
		doc.AppendActivity("Created project \"Launch\"", models.ActivityProject)
	})

	exported := s.Export()

	s.Reset()
	if len(s.Document().Projects) != 0 {
		t.Fatal("reset did not clear document")
	}

	if !s.Import(exported) {
		t.Fatal("import of exported document failed")
	}

	if got := s.Export(); got != exported {
		t.Errorf("round trip changed the document\nbefore:\n%s\nafter:\n%s", exported, got)
	}
}

func TestImport_InvalidJSON(t *testing.T) {
	s := setupTestStore(t)
	s.Mutate(func(doc *models.Document) {
		doc.Projects = append(doc.Projects, models.Project{ID: "p1", Name: "Keep me"})
	})

	before := s.Export()

	if s.Import("not valid json") {
		t.Error("expected import to fail")
	}
	if got := s.Export(); got != before {
		t.Error("failed import mutated the document")
	}
}

func TestImport_WrongShape(t *testing.T) {
	s := setupTestStore(t)

	for _, data := range []string{
		"null",
		"[1, 2, 3]",
		`"a string"`,
		`{"projects": [], "bogus": true}`,
		`{"projects": "nope"}`,
	} {
		if s.Import(data) {
			t.Errorf("Import(%q) = true, want false", data)
		}
	}
}

func TestImport_EmitsSingleNotification(t *testing.T) {
	s := setupTestStore(t)

	var kinds []EventKind
	s.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })

	if !s.Import(`{"projects": [], "tasks": [], "team": [], "settings": {"theme": "dark", "notifications": true, "autoSave": false, "defaultPriority": "low"}, "activity": []}`) {
		t.Fatal("expected import to succeed")
	}

	if len(kinds) != 1 || kinds[0] != EventImported {
		t.Errorf("events = %v, want [imported]", kinds)
	}
	if s.Document().Settings.DefaultPriority != models.PriorityLow {
		t.Error("imported settings not applied")
	}
}

func TestAutoSave_Idempotent(t *testing.T) {
	s := setupTestStore(t)

	s.EnableAutoSave(time.Hour)
	s.EnableAutoSave(time.Hour)
	if !s.AutoSaveEnabled() {
		t.Fatal("autosave should be enabled")
	}

	// A single disable cancels the one active task.
	s.DisableAutoSave()
	if s.AutoSaveEnabled() {
		t.Fatal("autosave should be disabled")
	}

	// Disabling again is a no-op.
	s.DisableAutoSave()
	if s.AutoSaveEnabled() {
		t.Error("autosave should stay disabled")
	}
}

func TestAutoSave_SavesPeriodically(t *testing.T) {
	s := setupTestStore(t)

	var saves atomic.Int32
	s.Subscribe(func(e Event) {
		if e.Kind == EventSaved {
			saves.Add(1)
		}
	})

	s.EnableAutoSave(10 * time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	s.DisableAutoSave()

	if saves.Load() == 0 {
		t.Error("expected at least one periodic save")
	}
}
