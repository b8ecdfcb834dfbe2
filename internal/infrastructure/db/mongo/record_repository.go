package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// recordDoc adds the open flag backing the partial unique index on book_id.
type recordDoc struct {
	domain.BorrowRecord `bson:",inline"`
	Open                bool `bson:"open"`
}

// RecordRepository implements ports.RecordRepository.
type RecordRepository struct {
	col *mongo.Collection
}

var _ ports.RecordRepository = (*RecordRepository)(nil)

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{col: db.Collection(collectionRecords)}
}

// Create inserts an open record. A second open record for the same book hits
// the partial unique index and is reported as the book being unavailable.
func (r *RecordRepository) Create(ctx context.Context, rec *domain.BorrowRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if rec.ID == "" {
		rec.ID = newID()
	}
	doc := recordDoc{BorrowRecord: *rec, Open: rec.Status.Open()}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrBookNotAvailable
		}
		return fmt.Errorf("insert borrow record: %w", err)
	}
	return nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*domain.BorrowRecord, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *RecordRepository) FindOpenByBook(ctx context.Context, bookID string) (*domain.BorrowRecord, error) {
	return r.findOne(ctx, bson.M{"book_id": bookID, "open": true})
}

func (r *RecordRepository) findOne(ctx context.Context, filter bson.M) (*domain.BorrowRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc recordDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find borrow record: %w", err)
	}
	return &doc.BorrowRecord, nil
}

func (r *RecordRepository) Close(ctx context.Context, id string, returnDate time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "open": true},
		bson.M{"$set": bson.M{
			"status":      domain.StatusReturned,
			"return_date": returnDate,
			"open":        false,
		}},
	)
	if err != nil {
		return fmt.Errorf("close borrow record: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("count borrow records: %w", err)
	}
	if n == 0 {
		return domain.ErrRecordNotFound
	}
	return domain.ErrRecordNotOpen
}

// MarkOverdue is a single updateMany; running it twice with the same now
// changes nothing the second time.
func (r *RecordRepository) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"status": domain.StatusActive, "due_date": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": domain.StatusOverdue}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return int(res.ModifiedCount), nil
}

func (r *RecordRepository) List(ctx context.Context, filter domain.RecordFilter) ([]*domain.BorrowRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "borrow_date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, recordQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list borrow records: %w", err)
	}
	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode borrow records: %w", err)
	}

	records := make([]*domain.BorrowRecord, len(docs))
	for i := range docs {
		records[i] = &docs[i].BorrowRecord
	}
	return records, nil
}

func recordQuery(f domain.RecordFilter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.BookID != "" {
		q["book_id"] = f.BookID
	}
	return q
}
