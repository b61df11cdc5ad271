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

const collectionClubs = "clubs"

type ClubRepository struct {
	col *mongo.Collection
}

func NewClubRepository(db *mongo.Database) *ClubRepository {
	return &ClubRepository{col: db.Collection(collectionClubs)}
}

var _ ports.ClubRepository = (*ClubRepository)(nil)

type mongoClub struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoClub) toDomain() *domain.Club {
	return &domain.Club{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		CreatedAt: utc(m.CreatedAt),
		UpdatedAt: utc(m.UpdatedAt),
	}
}

func (r *ClubRepository) Create(ctx context.Context, c *domain.Club) (*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoClub{Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrClubExists
		}
		return nil, fmt.Errorf("insert club: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ClubRepository) List(ctx context.Context) ([]*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return decodeClubs(ctx, cur)
}

// FindByIDs returns the clubs that exist, in the order of ids. Unknown and
// malformed ids are skipped.
func (r *ClubRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Club, error) {
	oids := parseIDs(ids)
	if len(oids) == 0 {
		return []*domain.Club{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find clubs: %w", err)
	}
	found, err := decodeClubs(ctx, cur)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Club, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]*domain.Club, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
		}
	}
	return out, nil
}

func decodeClubs(ctx context.Context, cur *mongo.Cursor) ([]*domain.Club, error) {
	var docs []mongoClub
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clubs: %w", err)
	}
	out := make([]*domain.Club, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ClubRepository) Rename(ctx context.Context, id, name string) (*domain.Club, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoClub
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrClubNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrClubExists
		}
		return nil, fmt.Errorf("rename club: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete club: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClubNotFound
	}
	return nil
}

func (r *ClubRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
