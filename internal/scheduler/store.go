// Package scheduler fires due cron and one-shot entries from a hot-reloaded
// JSON file, dispatching their task text back through the agent router or a
// direct tool and replying to the originating channel.
package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one schedule record as persisted on disk.
type Entry struct {
	ID               string `json:"id"`
	Cron             string `json:"cron,omitempty"`
	At               string `json:"at,omitempty"`
	Task             string `json:"task"`
	ReplyToChannelID string `json:"reply_to_channel_id,omitempty"`
}

type schedulesFile struct {
	Schedules []Entry `json:"schedules"`
}

// Store is the mtime-polled, file-backed collection of schedule entries.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []Entry
	mtime   time.Time
}

// NewStore binds a Store to a schedules.json path, creating an empty file if
// none exists.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("scheduler: mkdir: %w", err)
		}
		if err := s.persist(nil); err != nil {
			return nil, err
		}
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload re-reads the file if its mtime changed since the last load.
func (s *Store) reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *Store) reloadLocked() error {
	info, err := os.Stat(s.path)
	if err != nil {
		// IO errors degrade to an empty in-memory view until next reload.
		s.entries = nil
		return fmt.Errorf("scheduler: stat %s: %w", s.path, err)
	}
	if !info.ModTime().After(s.mtime) && s.entries != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.entries = nil
		return fmt.Errorf("scheduler: read %s: %w", s.path, err)
	}
	var parsed schedulesFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		s.entries = nil
		return fmt.Errorf("scheduler: parse %s: %w", s.path, err)
	}

	s.entries = parsed.Schedules
	s.mtime = info.ModTime()
	return nil
}

// Changed reports whether the file's mtime has advanced since the last
// reload, without taking the reload lock for longer than a stat call.
func (s *Store) Changed() bool {
	info, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return info.ModTime().After(s.mtime)
}

// Entries returns a snapshot of every currently loaded entry.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Add appends a new entry after duplicate detection: a cron entry whose
// cron string and whitespace-normalized task match an existing entry is a
// no-op (AlreadyExists); one-shot "at" entries are always added.
func (s *Store) Add(id, cron, at, task, replyToChannelID string) (resultID string, added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadLocked(); err != nil && s.entries == nil {
		// Start from an empty view; the file will be rewritten below.
	}

	if cron != "" {
		normalizedTask := normalizeWhitespace(task)
		for _, e := range s.entries {
			if e.Cron == cron && normalizeWhitespace(e.Task) == normalizedTask {
				return e.ID, false, nil
			}
		}
	}

	entry := Entry{ID: id, Cron: cron, At: at, Task: task, ReplyToChannelID: replyToChannelID}
	s.entries = append(s.entries, entry)
	if err := s.persist(s.entries); err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Remove deletes an entry by exact id.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			if err := s.persist(s.entries); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) persist(entries []Entry) error {
	data, err := json.MarshalIndent(schedulesFile{Schedules: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("scheduler: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("scheduler: write %s: %w", s.path, err)
	}
	if info, err := os.Stat(s.path); err == nil {
		s.mtime = info.ModTime()
	}
	return nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
