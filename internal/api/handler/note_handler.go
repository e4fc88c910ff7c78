package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notekeep/notes-system/internal/api/metrics"
	"github.com/notekeep/notes-system/internal/core/ports"
)

// NoteHandler serves the caller's own notes. Every call is scoped by the
// authenticated user's id.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// Add handles POST /user/add-note.
//
// @Summary      Add a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      noteRequest  true  "Note content"
// @Success      201   {object}  noteEnvelope
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /user/add-note [post]
func (h *NoteHandler) Add(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req noteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	note, err := h.service.CreateNote(c.Request().Context(), id.User.ID, toNoteInput(req))
	if err != nil {
		return err
	}
	metrics.NoteOperationsTotal.WithLabelValues("create").Inc()

	return c.JSON(http.StatusCreated, noteEnvelope{
		Success: true,
		Message: "Note added successfully",
		Note:    toNoteResponse(note),
	})
}

// List handles GET /user/fetch-notes.
//
// @Summary      List active notes
// @Description  Newest first. q matches title, description and tags; tag matches one tag exactly. Both ignore case.
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Search text"
// @Param        tag  query     string  false  "Tag filter"
// @Success      200  {object}  notesEnvelope
// @Failure      401  {object}  messageResponse
// @Router       /user/fetch-notes [get]
func (h *NoteHandler) List(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	notes, err := h.service.ListNotes(c.Request().Context(), id.User.ID, ports.ListNotesInput{
		Search: c.QueryParam("q"),
		Tag:    c.QueryParam("tag"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notesEnvelope{Success: true, Notes: toNotesResponse(notes)})
}

// Get handles GET /user/fetch-note/:id. Soft-deleted notes are returned too.
//
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note id"
// @Success      200  {object}  noteEnvelope
// @Failure      404  {object}  messageResponse
// @Router       /user/fetch-note/{id} [get]
func (h *NoteHandler) Get(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	note, err := h.service.GetNote(c.Request().Context(), id.User.ID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, noteEnvelope{Success: true, Note: toNoteResponse(note)})
}

// Update handles POST /user/update-note/:id.
//
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Note id"
// @Param        body  body      noteRequest  true  "New content"
// @Success      200   {object}  noteEnvelope
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /user/update-note/{id} [post]
func (h *NoteHandler) Update(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req noteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	note, err := h.service.UpdateNote(c.Request().Context(), id.User.ID, c.Param("id"), toNoteInput(req))
	if err != nil {
		return err
	}
	metrics.NoteOperationsTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, noteEnvelope{
		Success: true,
		Message: "Note updated successfully",
		Note:    toNoteResponse(note),
	})
}

// Delete handles POST /user/delete-note/:id. The note is only deactivated.
//
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note id"
// @Success      200  {object}  noteEnvelope
// @Failure      404  {object}  messageResponse
// @Router       /user/delete-note/{id} [post]
func (h *NoteHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	note, err := h.service.DeleteNote(c.Request().Context(), id.User.ID, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.NoteOperationsTotal.WithLabelValues("delete").Inc()

	return c.JSON(http.StatusOK, noteEnvelope{
		Success: true,
		Message: "Note deleted successfully",
		Note:    toNoteResponse(note),
	})
}

// Restore handles POST /user/restore-note/:id.
//
// @Summary      Restore a deleted note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note id"
// @Success      200  {object}  noteEnvelope
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /user/restore-note/{id} [post]
func (h *NoteHandler) Restore(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	note, err := h.service.RestoreNote(c.Request().Context(), id.User.ID, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.NoteOperationsTotal.WithLabelValues("restore").Inc()

	return c.JSON(http.StatusOK, noteEnvelope{
		Success: true,
		Message: "Note restored successfully",
		Note:    toNoteResponse(note),
	})
}
