package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub stores. They enforce the same uniqueness rules as the
// Mongo indexes.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
	err    error // if set, every call returns it
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = "u" + strconv.Itoa(r.nextID)
	r.byID[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	existing, ok := r.byID[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	existing.Role = user.Role
	existing.IsActive = user.IsActive
	existing.PasswordHash = user.PasswordHash
	existing.UpdatedAt = user.UpdatedAt
	return cloneUser(existing), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

// seed inserts a user directly, hashing password with h.
func (r *stubUserRepo) seed(h ports.PasswordHasher, username, password, role string, active bool) *domain.User {
	hash, _ := h.Hash(password)
	u, _ := r.Create(context.Background(), &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	})
	return u
}

type stubSessionStore struct {
	mu      sync.Mutex
	current map[string]string
	ttls    map[string]time.Duration
	err     error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{current: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (s *stubSessionStore) SetCurrent(_ context.Context, userID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.current[userID] = tokenID
	s.ttls[userID] = ttl
	return nil
}

func (s *stubSessionStore) IsCurrent(_ context.Context, userID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	return s.current[userID] == tokenID, nil
}

func (s *stubSessionStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.current, userID)
	return nil
}

type stubRecorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *stubRecorder) Record(e domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *stubRecorder) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type stubNoteRepo struct {
	mu     sync.Mutex
	notes  map[string]*domain.Note
	nextID int
	clock  time.Time
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{
		notes: make(map[string]*domain.Note),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func cloneNote(n *domain.Note) *domain.Note {
	clone := *n
	clone.Tags = append([]string(nil), n.Tags...)
	return &clone
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (r *stubNoteRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *stubNoteRepo) titleTaken(userID, title, exceptID string) bool {
	key := domain.TitleKey(title)
	for _, n := range r.notes {
		if n.ID != exceptID && n.UserID == userID && domain.TitleKey(n.Title) == key {
			return true
		}
	}
	return false
}

func (r *stubNoteRepo) Create(_ context.Context, note *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.titleTaken(note.UserID, note.Title, "") {
		return nil, domain.ErrDuplicateNote
	}
	r.nextID++
	clone := cloneNote(note)
	clone.ID = "n" + strconv.Itoa(r.nextID)
	clone.CreatedAt = r.tick()
	clone.UpdatedAt = clone.CreatedAt
	r.notes[clone.ID] = clone
	return cloneNote(clone), nil
}

func (r *stubNoteRepo) FindByID(_ context.Context, userID, noteID string) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, domain.ErrNoteNotFound
	}
	return cloneNote(n), nil
}

func (r *stubNoteRepo) List(_ context.Context, f ports.ListNotesFilter) ([]*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Note
	for _, n := range r.notes {
		if n.UserID != f.UserID || !n.IsActive {
			continue
		}
		if f.Tag != "" && !n.HasTag(f.Tag) {
			continue
		}
		if !n.Matches(f.Search) {
			continue
		}
		out = append(out, cloneNote(n))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *stubNoteRepo) Update(_ context.Context, userID, noteID string, upd ports.NoteUpdate) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[noteID]
	if !ok || n.UserID != userID || !n.IsActive {
		return nil, domain.ErrNoteNotFound
	}
	if r.titleTaken(userID, upd.Title, noteID) {
		return nil, domain.ErrDuplicateNote
	}
	n.Title = upd.Title
	n.Description = upd.Description
	n.Tags = upd.Tags
	n.UpdatedAt = r.tick()
	return cloneNote(n), nil
}

func (r *stubNoteRepo) SetActive(_ context.Context, userID, noteID string, active bool) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, domain.ErrNoteNotFound
	}
	n.IsActive = active
	n.UpdatedAt = r.tick()
	return cloneNote(n), nil
}

type stubAuditRepo struct {
	mu       sync.Mutex
	inserted []*domain.AuditEvent
	err      error
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	clone := *e
	r.inserted = append(r.inserted, &clone)
	return nil
}

// fakeClock is a settable time source for token tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
