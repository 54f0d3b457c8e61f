package session

import (
	"fmt"
	"regexp"
	"sync"
)

// defaultTabPrefix names freshly created tabs: "Query 1", "Query 2", ...
const defaultTabPrefix = "Query"

var copySuffixRe = regexp.MustCompile(` \(copy(?: \d+)?\)$`)

// Store holds the ordered list of open tabs and the active-tab pointer.
//
// All operations are synchronous and safe for concurrent use. Operations on
// unknown tab ids are silent no-ops so that stale ids from closed tabs (for
// example from an in-flight run completion) never fault. The tab set is never
// empty: closing the last tab synthesizes a fresh default tab.
type Store struct {
	mu       sync.RWMutex
	tabs     []*Tab
	activeID string
}

// NewStore creates a store seeded with one blank tab.
func NewStore() *Store {
	s := &Store{}
	s.Add()
	return s
}

// Add appends a new blank tab and makes it active. Returns the new tab's id.
func (s *Store) Add() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked()
}

func (s *Store) addLocked() string {
	t := &Tab{
		ID:   newTabID(),
		Name: s.nextDefaultName(),
	}
	s.tabs = append(s.tabs, t)
	s.activeID = t.ID
	return t.ID
}

// nextDefaultName returns the first free "Query N" name.
func (s *Store) nextDefaultName() string {
	taken := make(map[string]bool, len(s.tabs))
	for _, t := range s.tabs {
		taken[t.Name] = true
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s %d", defaultTabPrefix, n)
		if !taken[name] {
			return name
		}
	}
}

// Duplicate inserts a clone of the tab immediately after it and makes the
// clone active. The clone keeps sql, result and comment but never an error or
// a running flag. No-op on an unknown id.
func (s *Store) Duplicate(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ""
	}

	src := s.tabs[idx]
	clone := src.Clone()
	clone.ID = newTabID()
	clone.Name = s.copyName(src.Name)
	clone.Error = ""
	clone.IsRunning = false

	s.tabs = append(s.tabs, nil)
	copy(s.tabs[idx+2:], s.tabs[idx+1:])
	s.tabs[idx+1] = clone
	s.activeID = clone.ID
	return clone.ID
}

// copyName derives a non-colliding "(copy)" / "(copy N)" name for a clone of
// name. An existing copy suffix on the source is stripped first, so
// duplicating "Query (copy)" yields "Query (copy 2)", not a nested suffix.
func (s *Store) copyName(name string) string {
	base := copySuffixRe.ReplaceAllString(name, "")

	taken := make(map[string]bool, len(s.tabs))
	for _, t := range s.tabs {
		taken[t.Name] = true
	}

	candidate := base + " (copy)"
	for n := 2; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s (copy %d)", base, n)
	}
	return candidate
}

// Close removes the tab. Closing the last tab replaces it with a fresh
// default tab. Closing the active tab activates the previous tab in order,
// or the new first tab when none precedes it. No-op on an unknown id.
func (s *Store) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)

	if len(s.tabs) == 0 {
		s.addLocked()
		return
	}

	if s.activeID == id {
		next := idx - 1
		if next < 0 {
			next = 0
		}
		s.activeID = s.tabs[next].ID
	}
}

// Rename patches the tab's display name. No uniqueness is enforced.
func (s *Store) Rename(id, name string) {
	s.Update(id, TabPatch{Name: &name})
}

// Update shallow-merges the patch into the tab. No-op on an unknown id.
func (s *Store) Update(id string, patch TabPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	patch.apply(s.tabs[idx])
}

// SetActive moves the active pointer. No-op on an unknown id.
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		s.activeID = id
	}
}

// Get returns a snapshot copy of the tab, or nil if not found.
func (s *Store) Get(id string) *Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	return s.tabs[idx].Clone()
}

// Active returns a snapshot copy of the active tab.
func (s *Store) Active() *Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(s.activeID)
	if idx < 0 {
		return nil
	}
	return s.tabs[idx].Clone()
}

// ActiveID returns the id of the active tab.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Tabs returns snapshot copies of all tabs in display order.
func (s *Store) Tabs() []*Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Tab, len(s.tabs))
	for i, t := range s.tabs {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of open tabs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tabs)
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i, t := range s.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}
