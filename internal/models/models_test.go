package models

import (
	"fmt"
	"testing"
)

func TestDefaultDocument(t *testing.T) {
	doc := DefaultDocument()

	if doc.Projects == nil || doc.Tasks == nil || doc.Team == nil || doc.Activity == nil {
		t.Fatal("expected all collections to be initialized")
	}
	if len(doc.Projects) != 0 || len(doc.Tasks) != 0 {
		t.Error("expected empty collections")
	}
	if !ValidTheme(doc.Settings.Theme) {
		t.Errorf("default theme %q is not valid", doc.Settings.Theme)
	}
	if !doc.Settings.DefaultPriority.Valid() {
		t.Errorf("default priority %q is not valid", doc.Settings.DefaultPriority)
	}
}

func TestNormalize(t *testing.T) {
	var doc Document
	doc.Normalize()

	if doc.Projects == nil || doc.Tasks == nil || doc.Team == nil || doc.Activity == nil {
		t.Error("expected nil collections to be replaced")
	}
}

func TestAppendActivity_NewestFirst(t *testing.T) {
	doc := DefaultDocument()

	doc.AppendActivity("first", ActivityProject)
	doc.AppendActivity("second", ActivityTask)

	if len(doc.Activity) != 2 {
		t.Fatalf("activity length = %d, want 2", len(doc.Activity))
	}
	if doc.Activity[0].Message != "second" {
		t.Errorf("newest entry = %q, want %q", doc.Activity[0].Message, "second")
	}
	if doc.Activity[1].Message != "first" {
		t.Errorf("oldest entry = %q, want %q", doc.Activity[1].Message, "first")
	}
}

func TestAppendActivity_Bounded(t *testing.T) {
	doc := DefaultDocument()

	for i := 0; i < ActivityLimit+10; i++ {
		doc.AppendActivity(fmt.Sprintf("event %d", i), ActivityTask)
	}

	if len(doc.Activity) != ActivityLimit {
		t.Fatalf("activity length = %d, want %d", len(doc.Activity), ActivityLimit)
	}

	// The 50 most recent survive, newest first.
	if doc.Activity[0].Message != fmt.Sprintf("event %d", ActivityLimit+9) {
		t.Errorf("newest entry = %q", doc.Activity[0].Message)
	}
	if doc.Activity[ActivityLimit-1].Message != "event 10" {
		t.Errorf("oldest surviving entry = %q, want %q", doc.Activity[ActivityLimit-1].Message, "event 10")
	}
}

func TestAppendActivity_MonotonicIDs(t *testing.T) {
	doc := DefaultDocument()

	for i := 0; i < 20; i++ {
		doc.AppendActivity("tick", ActivityProject)
	}

	for i := 0; i < len(doc.Activity)-1; i++ {
		if doc.Activity[i].ID <= doc.Activity[i+1].ID {
			t.Fatalf("ids not strictly increasing: entry %d has id %d, entry %d has id %d",
				i, doc.Activity[i].ID, i+1, doc.Activity[i+1].ID)
		}
	}
}

func TestRecentActivity(t *testing.T) {
	doc := DefaultDocument()
	for i := 0; i < 5; i++ {
		doc.AppendActivity(fmt.Sprintf("event %d", i), ActivityTask)
	}

	var got []string
	for e := range doc.RecentActivity(3) {
		got = append(got, e.Message)
	}

	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0] != "event 4" || got[2] != "event 2" {
		t.Errorf("unexpected order: %v", got)
	}

	// Asking for more than exists returns what's there.
	count := 0
	for range doc.RecentActivity(100) {
		count++
	}
	if count != 5 {
		t.Errorf("got %d entries, want 5", count)
	}
}

func TestRecentActivity_Restartable(t *testing.T) {
	doc := DefaultDocument()
	doc.AppendActivity("only", ActivityProject)

	seq := doc.RecentActivity(10)
	for range 2 {
		count := 0
		for e := range seq {
			if e.Message != "only" {
				t.Errorf("message = %q, want %q", e.Message, "only")
			}
			count++
		}
		if count != 1 {
			t.Fatalf("got %d entries per pass, want 1", count)
		}
	}

	if len(doc.Activity) != 1 {
		t.Error("iteration mutated the log")
	}
}

func TestEnumValidation(t *testing.T) {
	if !ProjectActive.Valid() || !TaskInProgress.Valid() || !PriorityHigh.Valid() || !RoleClient.Valid() {
		t.Error("known values reported invalid")
	}
	if ProjectStatus("archived").Valid() {
		t.Error("unknown project status reported valid")
	}
	if TaskStatus("blocked").Valid() {
		t.Error("unknown task status reported valid")
	}
	if Priority("urgent").Valid() {
		t.Error("unknown priority reported valid")
	}
	if Role("intern").Valid() {
		t.Error("unknown role reported valid")
	}
	if ValidTheme("neon") {
		t.Error("unknown theme reported valid")
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("empty id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
