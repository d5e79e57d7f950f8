// Package store owns the persisted document: a single JSON file
// holding projects, tasks, team, settings and the activity log.
//
// The on-disk form is identical to the export form, so export/import
// is a lossless round trip of the same shape. Every successful
// save/reset/import notifies subscribers synchronously with exactly
// one event of the corresponding kind, in subscription order.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jspence/taskdeck/internal/models"
	"github.com/jspence/taskdeck/pkg/logger"
)

// EventKind identifies what kind of change a notification reports
type EventKind string

const (
	EventSaved    EventKind = "saved"
	EventCleared  EventKind = "cleared"
	EventImported EventKind = "imported"
)

// Event is delivered to subscribers after a successful persist.
type Event struct {
	Kind EventKind
	Doc  *models.Document
}

// Listener receives change events. Delivery is synchronous and
// ordered by subscription.
type Listener func(Event)

// Store holds the in-memory document and persists it to a JSON file.
type Store struct {
	path string

	mu        sync.Mutex
	doc       *models.Document
	listeners []Listener

	autosaveStop chan struct{} // nil when autosave is off
}

// New creates a store backed by the file at path. Call Load before
// using the document.
func New(path string) *Store {
	return &Store{
		path: path,
		doc:  models.DefaultDocument(),
	}
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// Document returns the current in-memory document for reading. All
// writes must go through Mutate so they are serialized against the
// autosave task's serialization of the document.
func (s *Store) Document() *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Mutate runs fn on the document under the store's lock. The autosave
// task marshals the document under the same lock, so writes routed
// through here can never tear a concurrent save.
func (s *Store) Mutate(fn func(*models.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}

// Subscribe registers a listener for change events.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(kind EventKind, doc *models.Document) {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(Event{Kind: kind, Doc: doc})
	}
}

// Load reads the state file and replaces the in-memory document. A
// missing or unreadable file is not an error: the store falls back to
// a default document and logs what happened.
func (s *Store) Load() *models.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", s.path).Msg("could not read state file, starting fresh")
		}
		return s.replace(models.DefaultDocument())
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn().Err(err).Str("path", s.path).Msg("state file is corrupt, starting fresh")
		return s.replace(models.DefaultDocument())
	}
	doc.Normalize()

	return s.replace(&doc)
}

func (s *Store) replace(doc *models.Document) *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return doc
}

// persist serializes the current document and writes the state file.
// The in-memory document is never touched, so a write failure leaves
// it authoritative for the rest of the session.
func (s *Store) persist() (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return s.doc, fmt.Errorf("serialize document: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return s.doc, fmt.Errorf("persist document: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return s.doc, fmt.Errorf("persist document: %w", err)
	}
	return s.doc, nil
}

// Save persists the current document and emits a saved notification.
// On failure no notification is emitted and the error is reported;
// the caller is never left with a corrupted document.
func (s *Store) Save() error {
	doc, err := s.persist()
	if err != nil {
		logger.Error().Err(err).Str("path", s.path).Msg("save failed")
		return err
	}
	s.notify(EventSaved, doc)
	return nil
}

// Reset replaces the document with defaults, persists it and emits a
// cleared notification.
func (s *Store) Reset() *models.Document {
	doc := s.replace(models.DefaultDocument())
	if _, err := s.persist(); err != nil {
		logger.Error().Err(err).Str("path", s.path).Msg("could not persist reset document")
	}
	s.notify(EventCleared, doc)
	return doc
}

// Export returns the canonical pretty-printed serialization of the
// full document. Marshaling cannot fail here: the document is plain
// structs, slices and strings, none of which json refuses.
func (s *Store) Export() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, _ := json.MarshalIndent(s.doc, "", "  ")
	return string(data)
}

// Import parses a serialized document. On success the current
// document is replaced, persisted and an imported notification is
// emitted. On any parse or shape error the existing document is left
// untouched and Import returns false.
func (s *Store) Import(data string) bool {
	// The document must be a JSON object, not null or an array.
	var shape map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &shape); err != nil || shape == nil {
		logger.Warn().Msg("import rejected: not a JSON object")
		return false
	}

	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()
	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		logger.Warn().Err(err).Msg("import rejected: unexpected document shape")
		return false
	}
	doc.Normalize()

	s.replace(&doc)
	if _, err := s.persist(); err != nil {
		logger.Error().Err(err).Str("path", s.path).Msg("could not persist imported document")
	}
	s.notify(EventImported, &doc)
	return true
}

// EnableAutoSave starts the periodic save task. At most one task is
// ever active; enabling while enabled is a no-op.
func (s *Store) EnableAutoSave(interval time.Duration) {
	s.mu.Lock()
	if s.autosaveStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.autosaveStop = stop
	s.mu.Unlock()

	logger.Debug().Dur("interval", interval).Msg("autosave enabled")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Save(); err != nil {
					logger.Warn().Err(err).Msg("autosave failed")
				}
			case <-stop:
				return
			}
		}
	}()
}

// DisableAutoSave cancels the periodic save task if one is active. An
// in-flight save is never interrupted.
func (s *Store) DisableAutoSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.autosaveStop == nil {
		return
	}
	close(s.autosaveStop)
	s.autosaveStop = nil
	logger.Debug().Msg("autosave disabled")
}

// AutoSaveEnabled reports whether the periodic save task is active.
func (s *Store) AutoSaveEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autosaveStop != nil
}
