package domain

import "time"

// CloneMode says how a page was reproduced in the target.
type CloneMode string

const (
	// CloneModeCopy uses the native copy operation (same space).
	CloneModeCopy CloneMode = "copy"

	// CloneModeCreate creates a new page from title and body (cross space).
	CloneModeCreate CloneMode = "create"
)

// PageStatus is the result of cloning one page.
type PageStatus string

const (
	PageStatusCreated PageStatus = "created"
	PageStatusFailed  PageStatus = "failed"
)

// RunStatus is the state of a clone run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusAborted   RunStatus = "aborted"
)

// RestrictionOutcome is the result of re-applying one restriction kind.
// Skipped is set when the source page had no principals for the kind.
type RestrictionOutcome struct {
	Operation  RestrictionOperation `json:"operation"`
	Applied    bool                 `json:"applied"`
	Skipped    bool                 `json:"skipped"`
	Principals int                  `json:"principals"`
	Err        string               `json:"error,omitempty"`
}

// PageOutcome records what happened to one selected source page.
type PageOutcome struct {
	SourceID       string               `json:"source_id"`
	Title          string               `json:"title"`
	TargetParentID string               `json:"target_parent_id"`
	NewID          string               `json:"new_id,omitempty"`
	Mode           CloneMode            `json:"mode,omitempty"`
	Status         PageStatus           `json:"status"`
	TitleUpdated   bool                 `json:"title_updated"`
	Err            string               `json:"error,omitempty"`
	Restrictions   []RestrictionOutcome `json:"restrictions,omitempty"`
}

// CloneRequest carries the user inputs of one clone run.
type CloneRequest struct {
	SourceSpace    string
	TargetSpace    string
	TargetParentID string
	Pattern        string
	Replacement    string
	Selection      Selection
}

// SameSpace reports whether source and target space are the same.
func (r *CloneRequest) SameSpace() bool {
	return r.SourceSpace == r.TargetSpace
}

// RunReport summarises one clone run.
type RunReport struct {
	ID             string        `json:"id"`
	SourceSpace    string        `json:"source_space"`
	TargetSpace    string        `json:"target_space"`
	TargetParentID string        `json:"target_parent_id"`
	Pattern        string        `json:"pattern,omitempty"`
	Replacement    string        `json:"replacement,omitempty"`
	Status         RunStatus     `json:"status"`
	Err            string        `json:"error,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	Pages          []PageOutcome `json:"pages,omitempty"`
}

// Created returns the number of pages created or copied.
func (r *RunReport) Created() int {
	n := 0
	for i := range r.Pages {
		if r.Pages[i].Status == PageStatusCreated {
			n++
		}
	}
	return n
}

// Failed returns the number of pages that could not be cloned.
func (r *RunReport) Failed() int {
	n := 0
	for i := range r.Pages {
		if r.Pages[i].Status == PageStatusFailed {
			n++
		}
	}
	return n
}
