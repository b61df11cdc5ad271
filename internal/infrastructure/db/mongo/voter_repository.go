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

const collectionVoters = "voters"

// VoterRepository implements ports.VoterRepository on the voters collection.
type VoterRepository struct {
	col *mongo.Collection
}

func NewVoterRepository(db *mongo.Database) *VoterRepository {
	return &VoterRepository{col: db.Collection(collectionVoters)}
}

var _ ports.VoterRepository = (*VoterRepository)(nil)

type mongoVoter struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Name          string               `bson:"name"`
	Email         string               `bson:"email"`
	PasswordHash  string               `bson:"password_hash"`
	Role          string               `bson:"role"`
	HasVoted      bool                 `bson:"has_voted"`
	VotedFor      *primitive.ObjectID  `bson:"voted_for"`
	SelectedClubs []primitive.ObjectID `bson:"selected_clubs"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func (m *mongoVoter) toDomain() *domain.Voter {
	v := &domain.Voter{
		ID:            m.ID.Hex(),
		Name:          m.Name,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		Role:          m.Role,
		HasVoted:      m.HasVoted,
		SelectedClubs: hexIDs(m.SelectedClubs),
		CreatedAt:     utc(m.CreatedAt),
		UpdatedAt:     utc(m.UpdatedAt),
	}
	if m.VotedFor != nil {
		v.VotedFor = m.VotedFor.Hex()
	}
	return v
}

// Create inserts a voter in the NotVoted state with no clubs.
func (r *VoterRepository) Create(ctx context.Context, v *domain.Voter) (*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoVoter{
		Name:          v.Name,
		Email:         v.Email,
		PasswordHash:  v.PasswordHash,
		Role:          v.Role,
		SelectedClubs: []primitive.ObjectID{},
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrVoterExists
		}
		return nil, fmt.Errorf("insert voter: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *VoterRepository) FindByID(ctx context.Context, id string) (*domain.Voter, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *VoterRepository) FindByEmail(ctx context.Context, email string) (*domain.Voter, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *VoterRepository) findOne(ctx context.Context, filter bson.M) (*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mv mongoVoter
	if err := r.col.FindOne(ctx, filter).Decode(&mv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, fmt.Errorf("find voter: %w", err)
	}
	return mv.toDomain(), nil
}

func (r *VoterRepository) List(ctx context.Context) ([]*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	var docs []mongoVoter
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list voters: decode: %w", err)
	}

	out := make([]*domain.Voter, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *VoterRepository) UpdateProfile(ctx context.Context, id string, u ports.VoterUpdate) (*domain.Voter, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Name != "" {
		set["name"] = u.Name
	}
	if u.Email != "" {
		set["email"] = u.Email
	}
	if u.Role != "" {
		set["role"] = u.Role
	}

	var mv mongoVoter
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mv)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrVoterNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrVoterExists
		}
		return nil, fmt.Errorf("update voter: %w", err)
	}
	return mv.toDomain(), nil
}

func (r *VoterRepository) Delete(ctx context.Context, id string) (*domain.Voter, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mv mongoVoter
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&mv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, fmt.Errorf("delete voter: %w", err)
	}
	return mv.toDomain(), nil
}

// ReplaceClubs is a compare-and-swap on selected_clubs. The filter pins the
// stored list to expected and re-checks the cap server-side, so a writer that
// read stale state matches nothing instead of overshooting the cap.
func (r *VoterRepository) ReplaceClubs(ctx context.Context, id string, expected, next []string) error {
	if len(next) > domain.MaxClubs {
		return &domain.LimitExceededError{Current: len(expected), Requested: len(next) - len(expected), Max: domain.MaxClubs}
	}
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	expectedIDs, err := mustParseIDs(expected)
	if err != nil {
		return err
	}
	nextIDs, err := mustParseIDs(next)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := clubSwapFilter(oid, expectedIDs, nextIDs)

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"selected_clubs": nextIDs,
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("replace clubs: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("replace clubs: %w", err)
	}
	if n == 0 {
		return domain.ErrVoterNotFound
	}
	return domain.ErrWriteConflict
}

func (r *VoterRepository) PullClub(ctx context.Context, clubID string) (int64, error) {
	oid, err := parseID(clubID)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"selected_clubs": oid},
		bson.M{
			"$pull": bson.M{"selected_clubs": oid},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("pull club: %w", err)
	}
	return res.ModifiedCount, nil
}

type ballotGroup struct {
	CandidateID primitive.ObjectID `bson:"_id"`
	Count       int64              `bson:"count"`
}

// CountBallots aggregates recorded ballots per candidate in a single scan.
func (r *VoterRepository) CountBallots(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, ballotTallyPipeline())
	if err != nil {
		return nil, fmt.Errorf("count ballots: %w", err)
	}
	var groups []ballotGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("count ballots: decode: %w", err)
	}

	out := make(map[string]int64, len(groups))
	for _, g := range groups {
		out[g.CandidateID.Hex()] = g.Count
	}
	return out, nil
}

func (r *VoterRepository) CountEligible(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{"role": domain.RoleStudent})
}

func (r *VoterRepository) CountVoted(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{"has_voted": true})
}

func (r *VoterRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count voters: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the indexes the voter queries rely on.
func (r *VoterRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "has_voted", Value: 1}, {Key: "voted_for", Value: 1}}},
		{Keys: bson.D{{Key: "selected_clubs", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
