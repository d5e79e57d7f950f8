package models

import (
	"iter"
	"time"
)

// ActivityKind categorizes an activity entry
type ActivityKind string

const (
	ActivityProject ActivityKind = "project"
	ActivityTask    ActivityKind = "task"
)

// ActivityLimit is the maximum number of entries kept in the log.
const ActivityLimit = 50

// ActivityEntry is one human-readable event in the bounded activity log
type ActivityEntry struct {
	ID        int64        `json:"id"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Kind      ActivityKind `json:"type"`
}

// AppendActivity prepends a new entry and truncates the log to the
// most recent ActivityLimit entries. Entry ids are time-based and
// strictly increasing within a document.
func (d *Document) AppendActivity(message string, kind ActivityKind) {
	now := time.Now()
	id := now.UnixMilli()
	if len(d.Activity) > 0 && id <= d.Activity[0].ID {
		id = d.Activity[0].ID + 1
	}

	entry := ActivityEntry{
		ID:        id,
		Message:   message,
		Timestamp: now,
		Kind:      kind,
	}

	d.Activity = append([]ActivityEntry{entry}, d.Activity...)
	if len(d.Activity) > ActivityLimit {
		d.Activity = d.Activity[:ActivityLimit]
	}
}

// RecentActivity returns an iterator over the n newest entries,
// newest first. The sequence is restartable and does not mutate the
// underlying log.
func (d *Document) RecentActivity(n int) iter.Seq[ActivityEntry] {
	return func(yield func(ActivityEntry) bool) {
		for i, e := range d.Activity {
			if i >= n {
				return
			}
			if !yield(e) {
				return
			}
		}
	}
}
