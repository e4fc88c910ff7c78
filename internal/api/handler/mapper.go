package handler

import (
	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

// --- Request → Service input ---

func toNoteInput(req noteRequest) ports.NoteInput {
	return ports.NoteInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}
}

func toUpdateUserInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Role:     req.Role,
		IsActive: req.IsActive,
		Password: req.Password,
	}
}

// --- Service result → HTTP response ---

func toNoteResponse(n *domain.Note) noteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		Title:       n.Title,
		Description: n.Description,
		Tags:        tags,
		IsActive:    n.IsActive,
		CreatedAt:   n.CreatedAt.UTC(),
		UpdatedAt:   n.UpdatedAt.UTC(),
	}
}

func toNotesResponse(notes []*domain.Note) []noteResponse {
	out := make([]noteResponse, len(notes))
	for i, n := range notes {
		out[i] = toNoteResponse(n)
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func toUsersResponse(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}
