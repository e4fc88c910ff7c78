package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

type noteService struct {
	repo ports.NoteRepository
	log  zerolog.Logger
}

// NewNoteService returns a NoteService implementation.
func NewNoteService(repo ports.NoteRepository, log zerolog.Logger) ports.NoteService {
	return &noteService{repo: repo, log: log}
}

// CreateNote stores a new active note for userID.
func (s *noteService) CreateNote(ctx context.Context, userID string, in ports.NoteInput) (*domain.Note, error) {
	title, err := validateNoteInput(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note, err := s.repo.Create(ctx, &domain.Note{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Tags:        domain.NormalizeTags(in.Tags),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("note_id", note.ID).Msg("note created")
	return note, nil
}

// ListNotes returns the caller's active notes, newest first.
func (s *noteService) ListNotes(ctx context.Context, userID string, in ports.ListNotesInput) ([]*domain.Note, error) {
	notes, err := s.repo.List(ctx, ports.ListNotesFilter{
		UserID: userID,
		Search: strings.TrimSpace(in.Search),
		Tag:    strings.TrimSpace(in.Tag),
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	return notes, nil
}

// GetNote returns a note owned by userID, including soft-deleted ones.
func (s *noteService) GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.repo.FindByID(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// UpdateNote replaces title, description and tags of an active note.
func (s *noteService) UpdateNote(ctx context.Context, userID, noteID string, in ports.NoteInput) (*domain.Note, error) {
	title, err := validateNoteInput(in)
	if err != nil {
		return nil, err
	}

	note, err := s.repo.Update(ctx, userID, noteID, ports.NoteUpdate{
		Title:       title,
		Description: in.Description,
		Tags:        domain.NormalizeTags(in.Tags),
	})
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("note_id", noteID).Msg("note updated")
	return note, nil
}

// DeleteNote soft-deletes a note and returns it.
func (s *noteService) DeleteNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.repo.SetActive(ctx, userID, noteID, false)
	if err != nil {
		return nil, fmt.Errorf("delete note: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("note_id", noteID).Msg("note deleted")
	return note, nil
}

// RestoreNote re-activates a soft-deleted note. Deleted notes keep their
// title reserved, so a restore never collides.
func (s *noteService) RestoreNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.repo.SetActive(ctx, userID, noteID, true)
	if err != nil {
		return nil, fmt.Errorf("restore note: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("note_id", noteID).Msg("note restored")
	return note, nil
}

func validateNoteInput(in ports.NoteInput) (string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Description) == "" {
		return "", domain.NewValidationError("title and description are required")
	}
	return title, nil
}
