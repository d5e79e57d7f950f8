package managers

import (
	"strings"
	"testing"

	"github.com/jspence/taskdeck/internal/models"
)

func TestTaskCreate_Defaults(t *testing.T) {
	s := setupTestStore(t)
	s.Mutate(func(doc *models.Document) {
		doc.Settings.DefaultPriority = models.PriorityHigh
	})
	tm := NewTaskManager(s)

	task := tm.Create(TaskInput{Title: "Ship"})

	if task.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want the defaultPriority setting", task.Priority)
	}
	if task.Status != models.TaskTodo {
		t.Errorf("status = %q, want todo", task.Status)
	}
	if !task.UpdatedAt.Equal(task.CreatedAt) {
		t.Error("updatedAt must equal createdAt on creation")
	}
	if len(s.Document().Activity) != 1 {
		t.Error("create must log one activity entry")
	}
	if s.Document().Activity[0].Kind != models.ActivityTask {
		t.Error("activity kind must be task")
	}
}

func TestTaskCreate_ExplicitPriorityWins(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTaskManager(s)

	task := tm.Create(TaskInput{Title: "Ship", Priority: models.PriorityLow})
	if task.Priority != models.PriorityLow {
		t.Errorf("priority = %q, want low", task.Priority)
	}
}

func TestTaskCreate_DanglingProjectAccepted(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTaskManager(s)

	task := tm.Create(TaskInput{Title: "Orphan", ProjectID: "no-such-project"})

	if task.ProjectID != "no-such-project" {
		t.Error("unknown project reference must be accepted as-is")
	}
	if got := tm.ProjectName(task.ProjectID); got != "No Project" {
		t.Errorf("ProjectName = %q, want %q", got, "No Project")
	}
	if got := tm.ProjectName(""); got != "No Project" {
		t.Errorf("ProjectName(\"\") = %q, want %q", got, "No Project")
	}
}

func TestTaskProjectName_Resolves(t *testing.T) {
	s := setupTestStore(t)
	pm := NewProjectManager(s)
	tm := NewTaskManager(s)

	p := pm.Create(ProjectInput{Name: "Launch"})
	task := tm.Create(TaskInput{Title: "Ship", ProjectID: p.ID})

	if got := tm.ProjectName(task.ProjectID); got != "Launch" {
		t.Errorf("ProjectName = %q, want %q", got, "Launch")
	}
}

func TestTaskUpdate_StatusTransitionLogged(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTaskManager(s)

	task := tm.Create(TaskInput{Title: "Ship"})
	before := len(s.Document().Activity)

	status := models.TaskInProgress
	tm.Update(task.ID, TaskUpdate{Status: &status})

	doc := s.Document()
	if len(doc.Activity) != before+1 {
		t.Fatalf("activity grew by %d, want 1", len(doc.Activity)-before)
	}
	if !strings.Contains(doc.Activity[0].Message, "in-progress") {
		t.Errorf("transition message = %q", doc.Activity[0].Message)
	}
}

func TestTaskUpdate_NonStatusEditsNotLogged(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTaskManager(s)

	task := tm.Create(TaskInput{Title: "Ship"})
	before := len(s.Document().Activity)

	title := "Ship v2"
	priority := models.PriorityHigh
	tm.Update(task.ID, TaskUpdate{Title: &title, Priority: &priority})

	if len(s.Document().Activity) != before {
		t.Error("field edits other than status must not log activity")
	}

	// Re-asserting the same status is not a transition.
	status := models.TaskTodo
	tm.Update(task.ID, TaskUpdate{Status: &status})
	if len(s.Document().Activity) != before {
		t.Error("unchanged status must not log activity")
	}
}

func TestTaskUpdate_RefreshesUpdatedAt(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTaskManager(s)

	task := tm.Create(TaskInput{Title: "Ship"})
	before := task.UpdatedAt

	desc := "with docs"
	tm.Update(task.ID, TaskUpdate{Description: &desc})

	got := tm.List(TaskFilter{})[0]
	if !got.UpdatedAt.After(before) {
		t.Error("updatedAt must strictly increase on update")
	}
}

func TestTaskDelete(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTaskManager(s)

	task := tm.Create(TaskInput{Title: "Ship"})
	tm.Delete(task.ID)

	if len(s.Document().Tasks) != 0 {
		t.Error("task was not removed")
	}

	tm.Delete("nonexistent") // no-op
}

func TestTaskList_Filters(t *testing.T) {
	s := setupTestStore(t)
	pm := NewProjectManager(s)
	tm := NewTaskManager(s)

	p := pm.Create(ProjectInput{Name: "Launch"})
	tm.Create(TaskInput{Title: "Write docs", ProjectID: p.ID, Priority: models.PriorityLow})
	tm.Create(TaskInput{Title: "Fix bug", ProjectID: p.ID, Priority: models.PriorityHigh, Status: models.TaskInProgress})
	tm.Create(TaskInput{Title: "Unrelated chore", Priority: models.PriorityHigh})

	if got := tm.List(TaskFilter{}); len(got) != 3 {
		t.Fatalf("unfiltered list = %d, want 3", len(got))
	}
	if got := tm.List(TaskFilter{ProjectID: p.ID}); len(got) != 2 {
		t.Errorf("project filter = %d, want 2", len(got))
	}
	if got := tm.List(TaskFilter{Status: "in-progress"}); len(got) != 1 || got[0].Title != "Fix bug" {
		t.Errorf("status filter = %d", len(got))
	}
	if got := tm.List(TaskFilter{Priority: "high"}); len(got) != 2 {
		t.Errorf("priority filter = %d, want 2", len(got))
	}
	if got := tm.List(TaskFilter{Priority: "high", ProjectID: p.ID}); len(got) != 1 {
		t.Errorf("combined filters = %d, want 1", len(got))
	}
	if got := tm.List(TaskFilter{Search: "BUG"}); len(got) != 1 || got[0].Title != "Fix bug" {
		t.Errorf("search = %d", len(got))
	}
	if got := tm.List(TaskFilter{Status: FilterAll, Priority: FilterAll}); len(got) != 3 {
		t.Errorf(`"all" filters = %d, want 3`, len(got))
	}
}

func TestTaskList_SortByUpdated(t *testing.T) {
	s := setupTestStore(t)
	tm := NewTaskManager(s)

	first := tm.Create(TaskInput{Title: "first"})
	tm.Create(TaskInput{Title: "second"})

	// Touching the first task moves it to the front.
	desc := "touched"
	tm.Update(first.ID, TaskUpdate{Description: &desc})

	got := tm.List(TaskFilter{})
	if got[0].ID != first.ID {
		t.Error("most recently touched task must sort first")
	}
}
