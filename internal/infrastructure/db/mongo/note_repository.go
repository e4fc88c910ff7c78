package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

const collectionNotes = "notes"

// NoteRepository implements ports.NoteRepository using MongoDB. Every
// query carries the owner's id.
type NoteRepository struct {
	col *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{col: db.Collection(collectionNotes)}
}

type mongoNote struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Title       string             `bson:"title"`
	TitleKey    string             `bson:"title_key"`
	Description string             `bson:"description"`
	Tags        []string           `bson:"tags"`
	IsActive    bool               `bson:"is_active"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mn *mongoNote) toDomain() *domain.Note {
	tags := mn.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Note{
		ID:          mn.ID.Hex(),
		UserID:      mn.UserID,
		Title:       mn.Title,
		Description: mn.Description,
		Tags:        tags,
		IsActive:    mn.IsActive,
		CreatedAt:   mn.CreatedAt.UTC(),
		UpdatedAt:   mn.UpdatedAt.UTC(),
	}
}

// Create inserts a new note. The unique {user_id, title_key} index rejects
// a title the owner already uses, on a deleted note too.
func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoNote{
		ID:          primitive.NewObjectID(),
		UserID:      n.UserID,
		Title:       n.Title,
		TitleKey:    domain.TitleKey(n.Title),
		Description: n.Description,
		Tags:        n.Tags,
		IsActive:    n.IsActive,
		CreatedAt:   n.CreatedAt.UTC(),
		UpdatedAt:   n.UpdatedAt.UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateNote
		}
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID returns the note whether or not it is active.
func (r *NoteRepository) FindByID(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	oid, ok := objectID(noteID)
	if !ok {
		return nil, domain.ErrNoteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mn mongoNote
	err := r.col.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&mn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return mn.toDomain(), nil
}

// List returns active notes matching the filter, most recently updated first.
func (r *NoteRepository) List(ctx context.Context, f ports.ListNotesFilter) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.col.Find(ctx, listFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoNote
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]*domain.Note, 0, len(docs))
	for i := range docs {
		notes = append(notes, docs[i].toDomain())
	}
	return notes, nil
}

// listFilter builds the Mongo filter for List. User input is always
// regex-quoted.
func listFilter(f ports.ListNotesFilter) bson.M {
	filter := bson.M{
		"user_id":   f.UserID,
		"is_active": true,
	}
	if f.Tag != "" {
		filter["tags"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.Tag) + "$", Options: "i"}
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}
	return filter
}

// Update rewrites an active note's content.
func (r *NoteRepository) Update(ctx context.Context, userID, noteID string, upd ports.NoteUpdate) (*domain.Note, error) {
	oid, ok := objectID(noteID)
	if !ok {
		return nil, domain.ErrNoteNotFound
	}

	filter := bson.M{"_id": oid, "user_id": userID, "is_active": true}
	update := bson.M{"$set": bson.M{
		"title":       upd.Title,
		"title_key":   domain.TitleKey(upd.Title),
		"description": upd.Description,
		"tags":        upd.Tags,
		"updated_at":  time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// SetActive flips the soft-delete flag.
func (r *NoteRepository) SetActive(ctx context.Context, userID, noteID string, active bool) (*domain.Note, error) {
	oid, ok := objectID(noteID)
	if !ok {
		return nil, domain.ErrNoteNotFound
	}

	filter := bson.M{"_id": oid, "user_id": userID}
	update := bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *NoteRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mn mongoNote
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mn); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrNoteNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrDuplicateNote
		}
		return nil, fmt.Errorf("update note: %w", err)
	}
	return mn.toDomain(), nil
}

// EnsureIndexes creates the indexes on the notes collection.
func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "title_key", Value: 1}},
			Options: options.Index().
				SetName("owner_title_unique").
				SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}, {Key: "updated_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
