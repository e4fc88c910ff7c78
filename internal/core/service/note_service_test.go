package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

func newNoteSvc() (ports.NoteService, *stubNoteRepo) {
	repo := newStubNoteRepo()
	return NewNoteService(repo, zerolog.Nop()), repo
}

func TestNoteService_CreateNote(t *testing.T) {
	svc, _ := newNoteSvc()

	note, err := svc.CreateNote(context.Background(), "u1", ports.NoteInput{
		Title:       "  Groceries ",
		Description: "milk, eggs",
		Tags:        []string{" home ", "", "errands"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.Title != "Groceries" {
		t.Errorf("expected trimmed title, got %q", note.Title)
	}
	if len(note.Tags) != 2 || note.Tags[0] != "home" || note.Tags[1] != "errands" {
		t.Errorf("unexpected tags: %v", note.Tags)
	}
	if note.UserID != "u1" || !note.IsActive {
		t.Errorf("unexpected owner/state: %+v", note)
	}
}

func TestNoteService_CreateNote_Validation(t *testing.T) {
	svc, _ := newNoteSvc()

	for _, in := range []ports.NoteInput{
		{Title: "", Description: "d"},
		{Title: "   ", Description: "d"},
		{Title: "t", Description: ""},
	} {
		if _, err := svc.CreateNote(context.Background(), "u1", in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("CreateNote(%+v): expected ErrValidation, got %v", in, err)
		}
	}
}

func TestNoteService_CreateNote_DuplicateTitleIgnoresCase(t *testing.T) {
	svc, _ := newNoteSvc()
	ctx := context.Background()

	if _, err := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "Todo", Description: "a"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "todo", Description: "b"}); !errors.Is(err, domain.ErrDuplicateNote) {
		t.Fatalf("expected ErrDuplicateNote, got %v", err)
	}
	// another owner may reuse the title
	if _, err := svc.CreateNote(ctx, "u2", ports.NoteInput{Title: "todo", Description: "b"}); err != nil {
		t.Fatalf("expected other owner to succeed, got %v", err)
	}
}

func TestNoteService_ListNotes(t *testing.T) {
	svc, _ := newNoteSvc()
	ctx := context.Background()

	empty, err := svc.ListNotes(ctx, "u1", ports.ListNotesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	_, _ = svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "First", Description: "alpha", Tags: []string{"work"}})
	_, _ = svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "Second", Description: "beta", Tags: []string{"home"}})
	_, _ = svc.CreateNote(ctx, "u2", ports.NoteInput{Title: "Foreign", Description: "gamma"})

	all, _ := svc.ListNotes(ctx, "u1", ports.ListNotesInput{})
	if len(all) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(all))
	}
	if all[0].Title != "Second" {
		t.Errorf("expected most recently updated first, got %q", all[0].Title)
	}

	byTag, _ := svc.ListNotes(ctx, "u1", ports.ListNotesInput{Tag: "WORK"})
	if len(byTag) != 1 || byTag[0].Title != "First" {
		t.Errorf("tag filter: unexpected result %v", byTag)
	}

	bySearch, _ := svc.ListNotes(ctx, "u1", ports.ListNotesInput{Search: " BET "})
	if len(bySearch) != 1 || bySearch[0].Title != "Second" {
		t.Errorf("search filter: unexpected result %v", bySearch)
	}
}

func TestNoteService_GetNote_OwnershipScoped(t *testing.T) {
	svc, _ := newNoteSvc()
	ctx := context.Background()

	note, _ := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "Mine", Description: "x"})

	if _, err := svc.GetNote(ctx, "u2", note.ID); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for other owner, got %v", err)
	}
	if _, err := svc.GetNote(ctx, "u1", "missing"); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for missing note, got %v", err)
	}
}

func TestNoteService_DeleteHidesFromListButGetStillWorks(t *testing.T) {
	svc, _ := newNoteSvc()
	ctx := context.Background()

	note, _ := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "Temp", Description: "x"})

	deleted, err := svc.DeleteNote(ctx, "u1", note.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.IsActive {
		t.Fatalf("expected returned note to be inactive")
	}

	list, _ := svc.ListNotes(ctx, "u1", ports.ListNotesInput{})
	if len(list) != 0 {
		t.Fatalf("expected deleted note hidden from list, got %d notes", len(list))
	}

	got, err := svc.GetNote(ctx, "u1", note.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expected inactive note from get")
	}
}

func TestNoteService_DeleteNote_NotOwned(t *testing.T) {
	svc, _ := newNoteSvc()
	ctx := context.Background()
	note, _ := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "Mine", Description: "x"})

	if _, err := svc.DeleteNote(ctx, "u2", note.ID); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
	got, _ := svc.GetNote(ctx, "u1", note.ID)
	if !got.IsActive {
		t.Fatalf("note must remain active")
	}
}

func TestNoteService_UpdateNote(t *testing.T) {
	svc, _ := newNoteSvc()
	ctx := context.Background()

	a, _ := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "A", Description: "x"})
	_, _ = svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "B", Description: "x"})

	updated, err := svc.UpdateNote(ctx, "u1", a.ID, ports.NoteInput{Title: "A2", Description: "new", Tags: []string{"t"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "A2" || updated.Description != "new" || len(updated.Tags) != 1 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := svc.UpdateNote(ctx, "u1", a.ID, ports.NoteInput{Title: "b", Description: "x"}); !errors.Is(err, domain.ErrDuplicateNote) {
		t.Fatalf("expected ErrDuplicateNote, got %v", err)
	}
	if _, err := svc.UpdateNote(ctx, "u1", a.ID, ports.NoteInput{Title: "", Description: "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateNote(ctx, "u2", a.ID, ports.NoteInput{Title: "Z", Description: "x"}); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for other owner, got %v", err)
	}

	_, _ = svc.DeleteNote(ctx, "u1", a.ID)
	if _, err := svc.UpdateNote(ctx, "u1", a.ID, ports.NoteInput{Title: "A3", Description: "x"}); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for inactive note, got %v", err)
	}
}

func TestNoteService_RestoreNote(t *testing.T) {
	svc, _ := newNoteSvc()
	ctx := context.Background()

	note, _ := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "Plan", Description: "x"})
	_, _ = svc.DeleteNote(ctx, "u1", note.ID)

	restored, err := svc.RestoreNote(ctx, "u1", note.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored.IsActive {
		t.Fatalf("expected active note after restore")
	}

	if _, err := svc.RestoreNote(ctx, "u2", note.ID); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for other owner, got %v", err)
	}
}

func TestNoteService_DeletedTitleStaysReserved(t *testing.T) {
	svc, _ := newNoteSvc()
	ctx := context.Background()

	note, _ := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "Todo", Description: "x"})
	other, _ := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "Other", Description: "x"})
	if _, err := svc.DeleteNote(ctx, "u1", note.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.CreateNote(ctx, "u1", ports.NoteInput{Title: "todo", Description: "y"}); !errors.Is(err, domain.ErrDuplicateNote) {
		t.Fatalf("create over a deleted title: expected ErrDuplicateNote, got %v", err)
	}
	if _, err := svc.UpdateNote(ctx, "u1", other.ID, ports.NoteInput{Title: "TODO", Description: "y"}); !errors.Is(err, domain.ErrDuplicateNote) {
		t.Fatalf("rename onto a deleted title: expected ErrDuplicateNote, got %v", err)
	}

	// the title cannot have been taken meanwhile, so restore succeeds
	if _, err := svc.RestoreNote(ctx, "u1", note.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
}
