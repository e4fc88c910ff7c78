package ports

import (
	"context"

	"github.com/notekeep/notes-system/internal/core/domain"
)

// NoteInput is the payload for creating or updating a note.
type NoteInput struct {
	Title       string
	Description string
	Tags        []string
}

// ListNotesInput carries the list endpoint parameters.
type ListNotesInput struct {
	Search string
	Tag    string
}

// NoteService defines the owner-scoped note use cases.
type NoteService interface {
	CreateNote(ctx context.Context, userID string, in NoteInput) (*domain.Note, error)
	ListNotes(ctx context.Context, userID string, in ListNotesInput) ([]*domain.Note, error)
	GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error)
	UpdateNote(ctx context.Context, userID, noteID string, in NoteInput) (*domain.Note, error)
	DeleteNote(ctx context.Context, userID, noteID string) (*domain.Note, error)
	RestoreNote(ctx context.Context, userID, noteID string) (*domain.Note, error)
}
