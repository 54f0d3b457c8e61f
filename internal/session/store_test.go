package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqldeck/pkg/core"
)

func TestNewStoreSeedsOneTab(t *testing.T) {
	s := NewStore()

	require.Equal(t, 1, s.Len())
	active := s.Active()
	require.NotNil(t, active)
	assert.Equal(t, "Query 1", active.Name)
	assert.Equal(t, active.ID, s.ActiveID())
}

func TestAddActivatesNewTab(t *testing.T) {
	s := NewStore()
	id := s.Add()

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, id, s.ActiveID())
	assert.Equal(t, "Query 2", s.Get(id).Name)
}

func TestCloseLastTabSynthesizesReplacement(t *testing.T) {
	s := NewStore()
	only := s.ActiveID()

	s.Close(only)

	require.Equal(t, 1, s.Len())
	replacement := s.Active()
	require.NotNil(t, replacement)
	assert.NotEqual(t, only, replacement.ID)
	assert.Empty(t, replacement.SQL)
}

func TestCloseActiveSelectsPreviousTab(t *testing.T) {
	s := NewStore()
	first := s.ActiveID()
	second := s.Add()
	third := s.Add()

	s.Close(third)
	assert.Equal(t, second, s.ActiveID())

	s.SetActive(first)
	s.Close(first)
	// First tab had nothing before it: the new first tab becomes active.
	assert.Equal(t, second, s.ActiveID())
}

func TestCloseInactiveKeepsActivePointer(t *testing.T) {
	s := NewStore()
	first := s.ActiveID()
	second := s.Add()

	s.SetActive(second)
	s.Close(first)

	assert.Equal(t, second, s.ActiveID())
	assert.Equal(t, 1, s.Len())
}

func TestStoreNeverEmpty(t *testing.T) {
	// Property from §8: any add/close sequence leaves a non-empty set with
	// exactly one active tab.
	s := NewStore()
	for i := 0; i < 20; i++ {
		if i%3 == 0 {
			s.Add()
		} else {
			s.Close(s.ActiveID())
		}

		require.GreaterOrEqual(t, s.Len(), 1)
		require.NotNil(t, s.Active(), "active tab must always resolve")
	}
}

func TestDuplicateInsertsAfterSourceAndActivates(t *testing.T) {
	s := NewStore()
	first := s.ActiveID()
	s.Add()

	s.Update(first, TabPatch{
		SQL:     Ptr("SELECT 1;"),
		Comment: Ptr("scratch"),
		Error:   Ptr("stale failure"),
	})
	s.Update(first, TabPatch{IsRunning: Ptr(true)})

	cloneID := s.Duplicate(first)
	require.NotEmpty(t, cloneID)

	tabs := s.Tabs()
	require.Len(t, tabs, 3)
	assert.Equal(t, first, tabs[0].ID)
	assert.Equal(t, cloneID, tabs[1].ID, "clone sits immediately after source")
	assert.Equal(t, cloneID, s.ActiveID())

	clone := s.Get(cloneID)
	assert.Equal(t, "SELECT 1;", clone.SQL)
	assert.Equal(t, "scratch", clone.Comment)
	assert.Empty(t, clone.Error, "error never carries over")
	assert.False(t, clone.IsRunning, "running flag never carries over")
}

func TestDuplicateCopyNames(t *testing.T) {
	s := NewStore()
	id := s.ActiveID()
	s.Rename(id, "Query")

	first := s.Duplicate(id)
	assert.Equal(t, "Query (copy)", s.Get(first).Name)

	second := s.Duplicate(id)
	assert.Equal(t, "Query (copy 2)", s.Get(second).Name)

	third := s.Duplicate(id)
	assert.Equal(t, "Query (copy 3)", s.Get(third).Name)

	// Duplicating a copy strips the suffix before re-deriving.
	fourth := s.Duplicate(first)
	assert.Equal(t, "Query (copy 4)", s.Get(fourth).Name)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s := NewStore()
	before := s.ActiveID()

	assert.Empty(t, s.Duplicate("missing"))
	s.Close("missing")
	s.Rename("missing", "x")
	s.Update("missing", TabPatch{SQL: Ptr("SELECT 1")})
	s.SetActive("missing")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, before, s.ActiveID())
	assert.Nil(t, s.Get("missing"))
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	s := NewStore()
	id := s.ActiveID()
	res := &core.Result{Columns: []string{"id"}, Rows: [][]core.Value{{core.Int(1)}}}

	s.Update(id, TabPatch{SQL: Ptr("SELECT 1;"), Result: Ptr(res)})
	s.Update(id, TabPatch{Comment: Ptr("note")})

	tab := s.Get(id)
	assert.Equal(t, "SELECT 1;", tab.SQL)
	assert.Same(t, res, tab.Result)
	assert.Equal(t, "note", tab.Comment)
}

func TestGetReturnsSnapshot(t *testing.T) {
	s := NewStore()
	id := s.ActiveID()

	snap := s.Get(id)
	snap.Name = "mutated locally"

	assert.Equal(t, "Query 1", s.Get(id).Name)
}

func TestDefaultNamesSkipTaken(t *testing.T) {
	s := NewStore()
	for i := 0; i < 3; i++ {
		s.Add()
	}
	names := make([]string, 0, 4)
	for _, tab := range s.Tabs() {
		names = append(names, tab.Name)
	}
	for i, name := range names {
		assert.Equal(t, fmt.Sprintf("Query %d", i+1), name)
	}
}
