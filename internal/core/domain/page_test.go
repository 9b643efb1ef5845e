package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_ParentID(t *testing.T) {
	p := Page{ID: "3", Ancestors: []PageRef{{ID: "1"}, {ID: "2"}}}
	assert.Equal(t, "2", p.ParentID())

	root := Page{ID: "1"}
	assert.Equal(t, "", root.ParentID())
}

func TestRestrictions_For(t *testing.T) {
	r := &Restrictions{
		Read:   Principals{Users: []User{{AccountID: "u1"}}},
		Update: Principals{Groups: []Group{{Name: "g1"}}},
	}
	assert.Equal(t, "u1", r.For(RestrictionRead).Users[0].AccountID)
	assert.Equal(t, "g1", r.For(RestrictionUpdate).Groups[0].Name)
	assert.True(t, r.For(RestrictionOperation("delete")).Empty())

	var nilRestrictions *Restrictions
	assert.True(t, nilRestrictions.For(RestrictionRead).Empty())
}

func TestSelection(t *testing.T) {
	s := NewSelection("a", "", "b")
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has(""))
	assert.Len(t, s.IDs(), 2)
}

func TestRunReport_Counts(t *testing.T) {
	r := RunReport{Pages: []PageOutcome{
		{Status: PageStatusCreated},
		{Status: PageStatusFailed},
		{Status: PageStatusCreated},
	}}
	assert.Equal(t, 2, r.Created())
	assert.Equal(t, 1, r.Failed())
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ErrInvalidReplacement))
	assert.True(t, IsFatal(ErrInvalidPattern))
	assert.False(t, IsFatal(ErrNotFound))
}
