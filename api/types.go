package api

import (
	"context"

	"scheduler-api/domain"
)

// Store abstracts task persistence for handlers.
type Store interface {
	List(ctx context.Context) []domain.Task
	Add(ctx context.Context, draft domain.Draft) (domain.Task, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (domain.Task, error)
	Ping(ctx context.Context) error
}

type listResponse struct {
	Tasks         []domain.Task `json:"tasks"`
	Total         int           `json:"total"`
	ConflictCount int           `json:"conflictCount"`
}

// saveResponse reports the stored task plus the ids of tasks it overlaps
// with. Conflicts are a soft warning: the save has already happened.
type saveResponse struct {
	Task      domain.Task `json:"task"`
	Conflicts []string    `json:"conflicts,omitempty"`
}

// checkRequest is the pre-submit conflict probe. ID is set when editing an
// existing task so it is excluded from the comparison.
type checkRequest struct {
	ID string `json:"id,omitempty"`
	domain.Draft
}

type checkResponse struct {
	Conflicts []string `json:"conflicts"`
}
