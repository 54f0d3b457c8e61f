// Package session owns the set of open query tabs and the active selection.
package session

import (
	"github.com/google/uuid"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

// Tab is one open SQL editing/execution session.
type Tab struct {
	ID        string
	Name      string
	SQL       string
	Result    *core.Result
	Error     string
	IsRunning bool
	Comment   string
}

// Clone returns a deep-enough copy of the tab for duplication. The result is
// shared by reference: runs always replace the whole Result, never mutate it.
func (t *Tab) Clone() *Tab {
	c := *t
	return &c
}

func newTabID() string {
	return uuid.NewString()
}

// TabPatch is a partial update applied to a tab. Nil fields are left
// untouched.
type TabPatch struct {
	Name      *string
	SQL       *string
	Result    **core.Result
	Error     *string
	IsRunning *bool
	Comment   *string
}

func (p TabPatch) apply(t *Tab) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.SQL != nil {
		t.SQL = *p.SQL
	}
	if p.Result != nil {
		t.Result = *p.Result
	}
	if p.Error != nil {
		t.Error = *p.Error
	}
	if p.IsRunning != nil {
		t.IsRunning = *p.IsRunning
	}
	if p.Comment != nil {
		t.Comment = *p.Comment
	}
}

// Ptr returns a pointer to v. Convenience for building patches.
func Ptr[T any](v T) *T {
	return &v
}
