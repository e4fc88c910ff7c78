package ports

import (
	"context"

	"github.com/notekeep/notes-system/internal/core/domain"
)

// ListNotesFilter carries the query for listing a user's notes. UserID is
// always set by the service layer.
type ListNotesFilter struct {
	UserID string
	Search string // optional: case-insensitive match on title, description or tags
	Tag    string // optional: exact tag, case-insensitive
}

// NoteUpdate holds the mutable fields of a note.
type NoteUpdate struct {
	Title       string
	Description string
	Tags        []string
}

// NoteRepository is the notes store. Every method is scoped by owner; a
// note owned by someone else behaves exactly like a missing one.
type NoteRepository interface {
	// Create returns domain.ErrDuplicateNote when the owner already has an
	// active note with the same title, ignoring case.
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	FindByID(ctx context.Context, userID, noteID string) (*domain.Note, error)
	// List returns active notes only, most recently updated first.
	List(ctx context.Context, filter ListNotesFilter) ([]*domain.Note, error)
	// Update only touches active notes.
	Update(ctx context.Context, userID, noteID string, upd NoteUpdate) (*domain.Note, error)
	SetActive(ctx context.Context, userID, noteID string, active bool) (*domain.Note, error)
}
