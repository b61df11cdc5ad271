package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

const collectionCandidates = "candidates"

// CandidateRepository implements ports.CandidateRepository. vote_count is a
// derived counter; voter documents remain the source of truth.
type CandidateRepository struct {
	col *mongo.Collection
}

func NewCandidateRepository(db *mongo.Database) *CandidateRepository {
	return &CandidateRepository{col: db.Collection(collectionCandidates)}
}

var _ ports.CandidateRepository = (*CandidateRepository)(nil)

type mongoCandidate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	VoteCount int64              `bson:"vote_count"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoCandidate) toDomain() *domain.Candidate {
	return &domain.Candidate{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		VoteCount: m.VoteCount,
		CreatedAt: utc(m.CreatedAt),
		UpdatedAt: utc(m.UpdatedAt),
	}
}

func (r *CandidateRepository) Create(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCandidate{
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCandidateExists
		}
		return nil, fmt.Errorf("insert candidate: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CandidateRepository) FindByID(ctx context.Context, id string) (*domain.Candidate, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCandidate
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	return mc.toDomain(), nil
}

// List returns candidates ordered by vote_count descending, then name.
func (r *CandidateRepository) List(ctx context.Context) ([]*domain.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "vote_count", Value: -1}, {Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	var docs []mongoCandidate
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list candidates: decode: %w", err)
	}

	out := make([]*domain.Candidate, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *CandidateRepository) Rename(ctx context.Context, id, name string) (*domain.Candidate, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCandidate
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrCandidateNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrCandidateExists
		}
		return nil, fmt.Errorf("rename candidate: %w", err)
	}
	return mc.toDomain(), nil
}

// SetVoteCounts overwrites vote_count with the given tallies. Candidates
// missing from counts are set to zero. Documents already holding the right
// value are left untouched, so the returned count is the number corrected.
func (r *CandidateRepository) SetVoteCounts(ctx context.Context, counts map[string]int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	models := voteCountModels(counts, time.Now().UTC())
	res, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("set vote counts: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *CandidateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "vote_count", Value: -1}, {Key: "name", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
