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

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// BookRepository implements ports.BookRepository. Ids are ObjectID hex
// strings, so sorting by _id gives insertion order.
type BookRepository struct {
	col *mongo.Collection
}

var _ ports.BookRepository = (*BookRepository)(nil)

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks)}
}

// Create inserts a new book document.
func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if b.ID == "" {
		b.ID = newID()
	}
	if _, err := r.col.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: duplicate book id %s", domain.ErrConflict, b.ID)
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Book
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &b, nil
}

func (r *BookRepository) List(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bookQuery(filter), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	books := []*domain.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

// Update overwrites the descriptive fields only.
func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": b.ID}, bson.M{"$set": bson.M{
		"title":          b.Title,
		"author":         b.Author,
		"isbn":           b.ISBN,
		"published_year": b.PublishedYear,
		"genre":          b.Genre,
		"description":    b.Description,
		"cover_image":    b.CoverImage,
		"updated_at":     b.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// MarkBorrowed only matches an available book, so two racing borrowers
// cannot both succeed.
func (r *BookRepository) MarkBorrowed(ctx context.Context, id, userID string, borrowDate, dueDate time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "available": true},
		bson.M{"$set": bson.M{
			"available":   false,
			"borrowed_by": userID,
			"borrow_date": borrowDate,
			"return_date": dueDate,
			"updated_at":  borrowDate,
		}},
	)
	if err != nil {
		return fmt.Errorf("mark borrowed: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOr(ctx, id, domain.ErrBookNotAvailable)
	}
	return nil
}

func (r *BookRepository) MarkReturned(ctx context.Context, id, userID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "available": false, "borrowed_by": userID},
		bson.M{
			"$set":   bson.M{"available": true, "updated_at": at},
			"$unset": bson.M{"borrowed_by": "", "borrow_date": "", "return_date": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("mark returned: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOr(ctx, id, domain.ErrBookNotBorrowed)
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "available": true})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return r.missOr(ctx, id, domain.ErrBookOnLoan)
	}
	return nil
}

// missOr tells a missing book apart from one in the wrong state after a
// conditional write matched nothing.
func (r *BookRepository) missOr(ctx context.Context, id string, stateErr error) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if n == 0 {
		return domain.ErrBookNotFound
	}
	return stateErr
}

// bookQuery translates a filter: title and author match substrings, genre
// matches whole, all case-insensitively.
func bookQuery(f domain.BookFilter) bson.M {
	q := bson.M{}
	if f.Title != nil {
		q["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(*f.Title), Options: "i"}
	}
	if f.Author != nil {
		q["author"] = primitive.Regex{Pattern: regexp.QuoteMeta(*f.Author), Options: "i"}
	}
	if f.Genre != nil {
		q["genre"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(*f.Genre) + "$", Options: "i"}
	}
	if f.Available != nil {
		q["available"] = *f.Available
	}
	return q
}
