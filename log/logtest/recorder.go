/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"sync"
	"time"

	"github.com/ssgreg/logf"

	"github.com/acronis/go-memocache/log"
)

// RecordedEntry is a single logged message.
type RecordedEntry struct {
	Level  log.Level
	Time   time.Time
	Text   string
	Fields []log.Field // fields bound with With come first
}

// FindField returns the first field with the key.
func (re *RecordedEntry) FindField(key string) (*log.Field, bool) {
	for i := range re.Fields {
		if re.Fields[i].Key == key {
			return &re.Fields[i], true
		}
	}
	return nil, false
}

type entryStore struct {
	mu      sync.Mutex
	entries []RecordedEntry
}

// WriteEntry implements logf.EntryWriter.
//
//nolint:gocritic // signature is fixed by logf
func (s *entryStore) WriteEntry(e logf.Entry) {
	entry := RecordedEntry{
		Level:  log.LevelFromLogf(e.Level),
		Time:   e.Time,
		Text:   e.Text,
		Fields: append(append(make([]log.Field, 0, len(e.DerivedFields)+len(e.Fields)), e.DerivedFields...), e.Fields...),
	}
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
}

func (s *entryStore) filter(keep func(RecordedEntry) bool) []RecordedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []RecordedEntry
	for _, e := range s.entries {
		if keep(e) {
			res = append(res, e)
		}
	}
	return res
}

// Recorder is a log.FieldLogger that keeps every entry, debug ones included, in memory.
// Loggers derived with With and WithLevel share the storage of their parent.
type Recorder struct {
	*log.LogfAdapter
	store *entryStore
}

var _ log.FieldLogger = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	store := &entryStore{}
	return &Recorder{LogfAdapter: &log.LogfAdapter{Logger: logf.NewLogger(logf.LevelDebug, store)}, store: store}
}

func (r *Recorder) derive(l log.FieldLogger) *Recorder {
	return &Recorder{LogfAdapter: l.(*log.LogfAdapter), store: r.store}
}

// With implements log.FieldLogger.
func (r *Recorder) With(fields ...log.Field) log.FieldLogger { return r.derive(r.LogfAdapter.With(fields...)) }

// WithLevel implements log.FieldLogger.
func (r *Recorder) WithLevel(level log.Level) log.FieldLogger {
	return r.derive(r.LogfAdapter.WithLevel(level))
}

// Entries returns a copy of all recorded entries in logging order.
func (r *Recorder) Entries() []RecordedEntry {
	return r.store.filter(func(RecordedEntry) bool { return true })
}

// FindEntry returns the first entry with the message.
func (r *Recorder) FindEntry(msg string) (RecordedEntry, bool) {
	found := r.FindAllEntries(func(e RecordedEntry) bool { return e.Text == msg })
	if len(found) == 0 {
		return RecordedEntry{}, false
	}
	return found[0], true
}

// FindAllEntries returns entries accepted by filter.
func (r *Recorder) FindAllEntries(filter func(entry RecordedEntry) bool) []RecordedEntry {
	return r.store.filter(filter)
}

// Reset forgets all recorded entries.
func (r *Recorder) Reset() {
	r.store.mu.Lock()
	r.store.entries = nil
	r.store.mu.Unlock()
}
