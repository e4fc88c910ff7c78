package handler

import "time"

// --- Request types ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type changePasswordRequest struct {
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,max=128"`
}

type noteRequest struct {
	Title       string   `json:"title"       validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=10000"`
	Tags        []string `json:"tags"        validate:"max=20,dive,max=50"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
	Role     string `json:"role"     validate:"omitempty,oneof=ADMIN USER"`
}

type updateUserRequest struct {
	Role     *string `json:"role"     validate:"omitempty,oneof=ADMIN USER"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password" validate:"omitempty,max=128"`
}

// --- Response types ---
// Response types are owned by the transport layer so the JSON contract is
// not coupled to domain changes. Every body carries the success flag.

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginData struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	ID       string `json:"id"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	Data    loginData `json:"data"`
}

type sessionData struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	ID       string `json:"id"`
}

type verifyResponse struct {
	Success bool        `json:"success"`
	Data    sessionData `json:"data"`
}

type noteResponse struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type noteEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Note    noteResponse `json:"note"`
}

// notesEnvelope.Notes is never omitted; an empty list renders as [].
type notesEnvelope struct {
	Success bool           `json:"success"`
	Notes   []noteResponse `json:"notes"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type userEnvelope struct {
	Success bool         `json:"success"`
	Data    userResponse `json:"data"`
}

type usersEnvelope struct {
	Success bool           `json:"success"`
	Data    []userResponse `json:"data"`
}
